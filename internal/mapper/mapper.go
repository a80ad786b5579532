package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/venturis/worktrack-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ToStageEventDTO converts a stage event to its API shape.
func ToStageEventDTO(e *domain.StageEvent) *domain.StageEventDTO {
	return &domain.StageEventDTO{
		ID:          e.ID,
		WorkOrderID: e.WorkOrderID,
		StageName:   e.StageName,
		Status:      e.Status,
		AssignedTo:  e.AssignedTo,
		Notified:    e.Notified,
		Remarks:     e.Remarks,
		CreatedAt:   formatTime(e.CreatedAt),
		UpdatedAt:   formatTime(e.UpdatedAt),
	}
}

func ToStageEventDTOs(events []domain.StageEvent) []domain.StageEventDTO {
	dtos := make([]domain.StageEventDTO, len(events))
	for i := range events {
		dtos[i] = *ToStageEventDTO(&events[i])
	}
	return dtos
}

func ToWorkOrderDTO(wo *domain.WorkOrder) *domain.WorkOrderDTO {
	dto := &domain.WorkOrderDTO{
		ID:          wo.ID,
		Code:        wo.Code,
		Description: wo.Description,
		AssignedTo:  wo.AssignedTo,
		StageStatus: wo.StageStatus,
		AccountID:   wo.AccountID,
		CreatedBy:   wo.CreatedBy,
		CreatedAt:   formatTime(wo.CreatedAt),
		UpdatedAt:   formatTime(wo.UpdatedAt),
	}
	if wo.Account != nil {
		dto.AccountName = wo.Account.Name
	}
	return dto
}

func ToWorkOrderDTOs(orders []domain.WorkOrder) []domain.WorkOrderDTO {
	dtos := make([]domain.WorkOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = *ToWorkOrderDTO(&orders[i])
	}
	return dtos
}

func ToAccountDTO(a *domain.Account) *domain.AccountDTO {
	return &domain.AccountDTO{
		ID:            a.ID,
		Code:          a.Code,
		Name:          a.Name,
		Industry:      a.Industry,
		ContactPerson: a.ContactPerson,
		ContactEmail:  a.ContactEmail,
		AssignedTo:    a.AssignedTo,
		StageStatus:   a.StageStatus,
		CreatedAt:     formatTime(a.CreatedAt),
		UpdatedAt:     formatTime(a.UpdatedAt),
	}
}

func ToAccountDTOs(accounts []domain.Account) []domain.AccountDTO {
	dtos := make([]domain.AccountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = *ToAccountDTO(&accounts[i])
	}
	return dtos
}

func ToSalesLeadDTO(sl *domain.SalesLead) *domain.SalesLeadDTO {
	dto := &domain.SalesLeadDTO{
		ID:          sl.ID,
		Code:        sl.Code,
		WorkOrderID: sl.WorkOrderID,
		AccountID:   sl.AccountID,
		Brand:       sl.Brand,
		Description: sl.Description,
		AssignedTo:  sl.AssignedTo,
		StageStatus: sl.StageStatus,
		CreatedAt:   formatTime(sl.CreatedAt),
		UpdatedAt:   formatTime(sl.UpdatedAt),
	}
	if sl.WorkOrder != nil {
		dto.WorkOrderCode = sl.WorkOrder.Code
	}
	if sl.Account != nil {
		dto.AccountName = sl.Account.Name
	}
	return dto
}

func ToSalesLeadDTOs(leads []domain.SalesLead) []domain.SalesLeadDTO {
	dtos := make([]domain.SalesLeadDTO, len(leads))
	for i := range leads {
		dtos[i] = *ToSalesLeadDTO(&leads[i])
	}
	return dtos
}

func ToTechnicalRecommendationDTO(tr *domain.TechnicalRecommendation) *domain.TechnicalRecommendationDTO {
	dto := &domain.TechnicalRecommendationDTO{
		ID:          tr.ID,
		Code:        tr.Code,
		WorkOrderID: tr.WorkOrderID,
		SalesLeadID: tr.SalesLeadID,
		Summary:     tr.Summary,
		AssignedTo:  tr.AssignedTo,
		StageStatus: tr.StageStatus,
		CreatedAt:   formatTime(tr.CreatedAt),
		UpdatedAt:   formatTime(tr.UpdatedAt),
	}
	if tr.WorkOrder != nil {
		dto.WorkOrderCode = tr.WorkOrder.Code
	}
	return dto
}

func ToTechnicalRecommendationDTOs(trs []domain.TechnicalRecommendation) []domain.TechnicalRecommendationDTO {
	dtos := make([]domain.TechnicalRecommendationDTO, len(trs))
	for i := range trs {
		dtos[i] = *ToTechnicalRecommendationDTO(&trs[i])
	}
	return dtos
}

func ToQuotationDTO(q *domain.Quotation) *domain.QuotationDTO {
	dto := &domain.QuotationDTO{
		ID:          q.ID,
		Code:        q.Code,
		WorkOrderID: q.WorkOrderID,
		RFQID:       q.RFQID,
		TRID:        q.TechnicalRecommendationID,
		TotalAmount: q.TotalAmount,
		ValidUntil:  q.ValidUntil,
		AssignedTo:  q.AssignedTo,
		StageStatus: q.StageStatus,
		CreatedAt:   formatTime(q.CreatedAt),
		UpdatedAt:   formatTime(q.UpdatedAt),
	}
	if q.WorkOrder != nil {
		dto.WorkOrderCode = q.WorkOrder.Code
	}
	return dto
}

func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, len(quotations))
	for i := range quotations {
		dtos[i] = *ToQuotationDTO(&quotations[i])
	}
	return dtos
}

// ToRFQDTO converts an RFQ with its child collections. Stored item prices are
// provisional: whenever an item has a selected quote, the quote's unit price
// and lead time win, and the amount is recomputed from them. itemNames and
// vendorNames enrich the rows and may be nil.
func ToRFQDTO(
	rfq *domain.RFQ,
	itemNames map[uuid.UUID]domain.CatalogItem,
	vendorNames map[uuid.UUID]domain.Vendor,
) *domain.RFQDTO {
	dto := &domain.RFQDTO{
		ID:                        rfq.ID,
		Code:                      rfq.Code,
		WorkOrderID:               rfq.WorkOrderID,
		TechnicalRecommendationID: rfq.TechnicalRecommendationID,
		Notes:                     rfq.Notes,
		AssignedTo:                rfq.AssignedTo,
		StageStatus:               rfq.StageStatus,
		Items:                     make([]domain.RFQItemDTO, 0, len(rfq.Items)),
		Vendors:                   make([]domain.RFQVendorDTO, 0, len(rfq.Vendors)),
		Quotes:                    make([]domain.RFQQuoteDTO, 0, len(rfq.Quotes)),
		CreatedAt:                 formatTime(rfq.CreatedAt),
		UpdatedAt:                 formatTime(rfq.UpdatedAt),
	}
	if rfq.WorkOrder != nil {
		dto.WorkOrderCode = rfq.WorkOrder.Code
	}

	selected := make(map[uuid.UUID]*domain.RFQItemVendorQuote, len(rfq.Quotes))
	for i := range rfq.Quotes {
		q := &rfq.Quotes[i]
		if q.IsSelected {
			selected[q.ItemID] = q
		}
	}

	for i := range rfq.Items {
		item := &rfq.Items[i]
		row := domain.RFQItemDTO{
			ID:          item.ID,
			ItemID:      item.ItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			LeadTime:    item.LeadTime,
		}
		if q, ok := selected[item.ItemID]; ok {
			row.UnitPrice = q.UnitPrice
			row.LeadTime = q.LeadTime
			row.Amount = q.UnitPrice * item.Quantity
		}
		if itemNames != nil {
			if ci, ok := itemNames[item.ItemID]; ok {
				row.ItemName = ci.Name
				if row.Description == "" {
					row.Description = ci.Description
				}
			}
		}
		dto.Items = append(dto.Items, row)
	}

	for i := range rfq.Vendors {
		v := &rfq.Vendors[i]
		row := domain.RFQVendorDTO{
			ID:            v.ID,
			VendorID:      v.VendorID,
			ContactPerson: v.ContactPerson,
			PaymentTerms:  v.PaymentTerms,
		}
		if v.Vendor != nil {
			row.VendorName = v.Vendor.Name
		} else if vendorNames != nil {
			if reg, ok := vendorNames[v.VendorID]; ok {
				row.VendorName = reg.Name
			}
		}
		dto.Vendors = append(dto.Vendors, row)
	}

	for i := range rfq.Quotes {
		q := &rfq.Quotes[i]
		dto.Quotes = append(dto.Quotes, domain.RFQQuoteDTO{
			ID:         q.ID,
			ItemID:     q.ItemID,
			VendorID:   q.VendorID,
			UnitPrice:  q.UnitPrice,
			LeadTime:   q.LeadTime,
			IsSelected: q.IsSelected,
			Notes:      q.Notes,
		})
	}

	return dto
}
