package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
	"gorm.io/gorm"
)

// latestEventPredicate restricts a stage_events query to rows that are the
// most recent event for their work order. Total order over the log is
// (created_at, id); the id comparison breaks created_at ties
// deterministically.
const latestEventPredicate = `NOT EXISTS (
	SELECT 1 FROM stage_events newer
	WHERE newer.work_order_id = stage_events.work_order_id
	AND (newer.created_at > stage_events.created_at
		OR (newer.created_at = stage_events.created_at AND newer.id > stage_events.id)))`

// StageEventRepository owns the append-only workflow log and the
// denormalized stage_status propagation onto module rows.
type StageEventRepository struct {
	db *gorm.DB
}

func NewStageEventRepository(db *gorm.DB) *StageEventRepository {
	return &StageEventRepository{db: db}
}

// Append writes a stage event and propagates its status onto the owning
// module row in one transaction. A log row without the matching module
// update (or vice versa) would break every latest-stage query, so any
// failure rolls back both writes.
func (r *StageEventRepository) Append(ctx context.Context, event *domain.StageEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return AppendStageEventTx(tx, event)
	})
}

// AppendStageEventTx appends a stage event inside an existing transaction.
// Services that bundle a stage append with other writes (RFQ create,
// reconciliation) call this with their own tx handle.
func AppendStageEventTx(tx *gorm.DB, event *domain.StageEvent) error {
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("failed to append stage event: %w", err)
	}
	if err := propagateStageStatus(tx, event); err != nil {
		return err
	}
	return nil
}

// propagateStageStatus applies the fixed stage-name → module-table mapping.
// Work Order / Sales Lead / TR / RFQ / Quotations rows are scoped by
// work_order_id; the NAEF stage updates the account referenced by the work
// order.
func propagateStageStatus(tx *gorm.DB, event *domain.StageEvent) error {
	kind := domain.KindForStageName(event.StageName)

	switch kind {
	case domain.StageKindWorkOrder:
		return stampStatus(tx.Model(&domain.WorkOrder{}).Where("id = ?", event.WorkOrderID), event.Status)
	case domain.StageKindSalesLead:
		return stampStatus(tx.Model(&domain.SalesLead{}).Where("work_order_id = ?", event.WorkOrderID), event.Status)
	case domain.StageKindTechnicalRecommendation:
		return stampStatus(tx.Model(&domain.TechnicalRecommendation{}).Where("work_order_id = ?", event.WorkOrderID), event.Status)
	case domain.StageKindRFQ:
		return stampStatus(tx.Model(&domain.RFQ{}).Where("work_order_id = ?", event.WorkOrderID), event.Status)
	case domain.StageKindQuotation:
		return stampStatus(tx.Model(&domain.Quotation{}).Where("work_order_id = ?", event.WorkOrderID), event.Status)
	case domain.StageKindAccount:
		var wo domain.WorkOrder
		if err := tx.Select("account_id").First(&wo, "id = ?", event.WorkOrderID).Error; err != nil {
			return fmt.Errorf("failed to resolve account for work order: %w", err)
		}
		if wo.AccountID == nil {
			return fmt.Errorf("work order %s has no account for NAEF stage", event.WorkOrderID)
		}
		return stampStatus(tx.Model(&domain.Account{}).Where("id = ?", *wo.AccountID), event.Status)
	}
	return nil
}

func stampStatus(scoped *gorm.DB, status domain.StageStatus) error {
	if err := scoped.Update("stage_status", status).Error; err != nil {
		return fmt.Errorf("failed to propagate stage status: %w", err)
	}
	return nil
}

// ListAll returns the full log, newest first.
func (r *StageEventRepository) ListAll(ctx context.Context) ([]domain.StageEvent, error) {
	var events []domain.StageEvent
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}

// ListByWorkOrder returns a work order's full stage history, newest first.
func (r *StageEventRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.StageEvent, error) {
	var events []domain.StageEvent
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}

func (r *StageEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StageEvent, error) {
	var event domain.StageEvent
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update mutates the few fields the log allows to change after the fact.
// A status change is propagated to the owning module row in the same
// transaction, exactly like an append.
func (r *StageEventRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*domain.StageEvent, error) {
	var event domain.StageEvent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&event, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&event).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update stage event: %w", err)
		}
		if status, ok := updates["status"]; ok {
			event.Status = status.(string)
			if err := propagateStageStatus(tx, &event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *StageEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.StageEvent{}, "id = ?", id).Error
}

// LatestByWorkOrder returns the current stage of a work order: the event
// with the greatest created_at, ties broken by highest id.
func (r *StageEventRepository) LatestByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (*domain.StageEvent, error) {
	var event domain.StageEvent
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// LatestSubmittedByStage returns, for one module's stage name, every event
// that is both the latest event of its work order and in Submitted status.
// A work order that moved on to a later stage stops matching here, so stale
// submissions never reappear in the inbox.
func (r *StageEventRepository) LatestSubmittedByStage(ctx context.Context, stageName string) ([]domain.StageEvent, error) {
	var events []domain.StageEvent
	err := r.db.WithContext(ctx).
		Where(latestEventPredicate).
		Where("stage_name = ?", stageName).
		Where("status = ?", domain.StageStatusSubmitted).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}

// LatestAssigned returns the most recent event that is the current stage of
// its work order, belongs to the given stage, is assigned to the given user
// and carries one of the given statuses. Returns gorm.ErrRecordNotFound when
// the user has nothing pending for that stage.
func (r *StageEventRepository) LatestAssigned(ctx context.Context, userID, stageName string, statuses []string) (*domain.StageEvent, error) {
	var event domain.StageEvent
	err := r.db.WithContext(ctx).
		Where(latestEventPredicate).
		Where("stage_name = ?", stageName).
		Where("assigned_to = ?", userID).
		Where("status IN ?", statuses).
		Order("created_at DESC, id DESC").
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListUnnotified returns events in the given statuses whose notification has
// not gone out yet. Consumed by the notification sweep job.
func (r *StageEventRepository) ListUnnotified(ctx context.Context, statuses []string, limit int) ([]domain.StageEvent, error) {
	var events []domain.StageEvent
	err := r.db.WithContext(ctx).
		Where("notified = ?", false).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// MarkNotified flips the notified flag once the notifier has accepted the
// event.
func (r *StageEventRepository) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.StageEvent{}).
		Where("id = ?", id).
		Update("notified", true).Error
}
