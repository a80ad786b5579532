package jobs

import (
	"context"
	"time"

	"github.com/venturis/worktrack-api/internal/domain"
	"github.com/venturis/worktrack-api/internal/repository"
	"go.uber.org/zap"
)

// Notifier delivers a notification about a stage event to its assignee.
// Email/Teams delivery lives behind this interface in the notification
// gateway; the in-process default just logs.
type Notifier interface {
	NotifyStageEvent(ctx context.Context, event *domain.StageEvent) error
}

// LogNotifier is the default Notifier. It records the notification in the
// application log and always succeeds.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyStageEvent(_ context.Context, event *domain.StageEvent) error {
	assignee := ""
	if event.AssignedTo != nil {
		assignee = *event.AssignedTo
	}
	n.logger.Info("stage notification",
		zap.String("stage_event_id", event.ID.String()),
		zap.String("work_order_id", event.WorkOrderID.String()),
		zap.String("stage_name", event.StageName),
		zap.String("status", event.Status),
		zap.String("assigned_to", assignee))
	return nil
}

// StageNotifyJob sweeps the stage log for events in Pending or Submitted
// status whose notification has not gone out yet, delivers them and marks
// them notified. An event that fails delivery stays unnotified and is picked
// up by the next sweep.
type StageNotifyJob struct {
	events    *repository.StageEventRepository
	notifier  Notifier
	batchSize int
	logger    *zap.Logger
}

func NewStageNotifyJob(events *repository.StageEventRepository, notifier Notifier, batchSize int, logger *zap.Logger) *StageNotifyJob {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &StageNotifyJob{
		events:    events,
		notifier:  notifier,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run executes one sweep.
func (j *StageNotifyJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	statuses := []string{domain.StageStatusPending, domain.StageStatusSubmitted}
	events, err := j.events.ListUnnotified(ctx, statuses, j.batchSize)
	if err != nil {
		j.logger.Error("failed to list unnotified stage events", zap.Error(err))
		return
	}
	if len(events) == 0 {
		return
	}

	notified := 0
	for i := range events {
		if err := j.notifier.NotifyStageEvent(ctx, &events[i]); err != nil {
			j.logger.Warn("failed to deliver stage notification",
				zap.String("stage_event_id", events[i].ID.String()),
				zap.Error(err))
			continue
		}
		if err := j.events.MarkNotified(ctx, events[i].ID); err != nil {
			j.logger.Error("failed to mark stage event notified",
				zap.String("stage_event_id", events[i].ID.String()),
				zap.Error(err))
			continue
		}
		notified++
	}

	j.logger.Info("stage notification sweep finished",
		zap.Int("picked_up", len(events)),
		zap.Int("notified", notified))
}
