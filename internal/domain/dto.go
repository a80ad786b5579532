package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExternalRef is a nested reference to an external catalog or registry row.
// Clients sometimes send {"item": {"id": "..."}} instead of a flat id field.
type ExternalRef struct {
	ID uuid.UUID `json:"id"`
}

// AppendStageRequest creates a new stage event for a work order.
type AppendStageRequest struct {
	WorkOrderID uuid.UUID `json:"workOrderId" validate:"required"`
	StageName   string    `json:"stageName" validate:"required"`
	Status      string    `json:"status" validate:"required"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Notified    bool      `json:"notified"`
	Remarks     string    `json:"remarks,omitempty"`
}

// UpdateStageRequest partially updates a stage event. Only status, assignee,
// notified and remarks are mutable; everything else on the log is immutable.
type UpdateStageRequest struct {
	Status     *string `json:"status,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
	Notified   *bool   `json:"notified,omitempty"`
	Remarks    *string `json:"remarks,omitempty"`
}

// StageEventDTO is the API shape of a stage event.
type StageEventDTO struct {
	ID          uuid.UUID `json:"id"`
	WorkOrderID uuid.UUID `json:"workOrderId"`
	StageName   string    `json:"stageName"`
	Status      string    `json:"status"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	Notified    bool      `json:"notified"`
	Remarks     string    `json:"remarks,omitempty"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
	UpdatedAt   string    `json:"updatedAt"` // ISO 8601
}

// SubmittedStageDTO is one row of the cross-module pending-approval inbox.
// TransactionNo carries the owning module's own code (FSL-..., RFQ-..., etc).
type SubmittedStageDTO struct {
	Module        StageKind `json:"module"`
	StageID       uuid.UUID `json:"stageId"`
	WorkOrderID   uuid.UUID `json:"workOrderId"`
	WorkOrderCode string    `json:"workOrderCode"`
	TransactionNo string    `json:"transactionNo"`
	AccountName   string    `json:"accountName,omitempty"`
	Status        string    `json:"status"`
	AssignedTo    *string   `json:"assignedTo,omitempty"`
	CreatedAt     string    `json:"createdAt"`
}

// AssignedItemDTO is the enriched module row returned by the
// "latest item assigned to user X for stage Y" query.
type AssignedItemDTO struct {
	Module        StageKind `json:"module"`
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	WorkOrderID   uuid.UUID `json:"workOrderId"`
	WorkOrderCode string    `json:"workOrderCode,omitempty"`
	AccountName   string    `json:"accountName,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Description   string    `json:"description,omitempty"`
	StageStatus   string    `json:"stageStatus"`
	AssignedTo    string    `json:"assignedTo"`
	CreatedAt     string    `json:"createdAt"`
}

// CreateWorkOrderRequest creates a work order via intake.
type CreateWorkOrderRequest struct {
	Description string     `json:"description" validate:"required"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
}

// UpdateWorkOrderRequest mutates intake fields; stage_status is owned by the
// stage transition side-effector and cannot be set here.
type UpdateWorkOrderRequest struct {
	Description *string    `json:"description,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
}

// WorkOrderDTO is the API shape of a work order.
type WorkOrderDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	StageStatus string     `json:"stageStatus,omitempty"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	AccountName string     `json:"accountName,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// CreateAccountRequest enrolls a new account (NAEF).
type CreateAccountRequest struct {
	Name          string `json:"name" validate:"required"`
	Industry      string `json:"industry,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	ContactEmail  string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	AssignedTo    string `json:"assignedTo,omitempty"`
}

type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty"`
	Industry      *string `json:"industry,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	ContactEmail  *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	AssignedTo    *string `json:"assignedTo,omitempty"`
}

type AccountDTO struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Industry      string    `json:"industry,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	AssignedTo    string    `json:"assignedTo,omitempty"`
	StageStatus   string    `json:"stageStatus,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// CreateSalesLeadRequest opens a sales lead for a work order.
type CreateSalesLeadRequest struct {
	WorkOrderID uuid.UUID  `json:"workOrderId" validate:"required"`
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

type UpdateSalesLeadRequest struct {
	AccountID   *uuid.UUID `json:"accountId,omitempty"`
	Brand       *string    `json:"brand,omitempty"`
	Description *string    `json:"description,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
}

type SalesLeadDTO struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	WorkOrderID   uuid.UUID  `json:"workOrderId"`
	WorkOrderCode string     `json:"workOrderCode,omitempty"`
	AccountID     *uuid.UUID `json:"accountId,omitempty"`
	AccountName   string     `json:"accountName,omitempty"`
	Brand         string     `json:"brand,omitempty"`
	Description   string     `json:"description,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	StageStatus   string     `json:"stageStatus,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// CreateTechnicalRecommendationRequest opens a TR for a work order.
type CreateTechnicalRecommendationRequest struct {
	WorkOrderID uuid.UUID  `json:"workOrderId" validate:"required"`
	SalesLeadID *uuid.UUID `json:"salesLeadId,omitempty"`
	Summary     string     `json:"summary,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

type UpdateTechnicalRecommendationRequest struct {
	SalesLeadID *uuid.UUID `json:"salesLeadId,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
}

type TechnicalRecommendationDTO struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	WorkOrderID   uuid.UUID  `json:"workOrderId"`
	WorkOrderCode string     `json:"workOrderCode,omitempty"`
	SalesLeadID   *uuid.UUID `json:"salesLeadId,omitempty"`
	Summary       string     `json:"summary,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	StageStatus   string     `json:"stageStatus,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// RFQItemInput is one desired-state line item. The item reference may arrive
// under several alias fields; NormalizeItemID resolves them to one canonical
// catalog id before the diff runs.
type RFQItemInput struct {
	ItemID        *uuid.UUID   `json:"itemId,omitempty"`
	CatalogItemID *uuid.UUID   `json:"catalogItemId,omitempty"`
	Item          *ExternalRef `json:"item,omitempty"`
	Description   string       `json:"description,omitempty"`
	Quantity      float64      `json:"quantity"`
	UnitPrice     float64      `json:"unitPrice"`
	LeadTime      int          `json:"leadTime"`
}

// NormalizeItemID resolves the alias fields to the canonical catalog item id.
// Returns uuid.Nil when no reference was supplied.
func (in *RFQItemInput) NormalizeItemID() uuid.UUID {
	if in.ItemID != nil {
		return *in.ItemID
	}
	if in.CatalogItemID != nil {
		return *in.CatalogItemID
	}
	if in.Item != nil {
		return in.Item.ID
	}
	return uuid.Nil
}

// RFQVendorInput is one desired-state vendor, optionally carrying its quotes
// nested the way the vendor editing UI submits them.
type RFQVendorInput struct {
	VendorID      *uuid.UUID      `json:"vendorId,omitempty"`
	SupplierID    *uuid.UUID      `json:"supplierId,omitempty"`
	Vendor        *ExternalRef    `json:"vendor,omitempty"`
	ContactPerson string          `json:"contactPerson,omitempty"`
	PaymentTerms  string          `json:"paymentTerms,omitempty"`
	Quotes        []RFQQuoteInput `json:"quotes,omitempty"`
}

// NormalizeVendorID resolves the alias fields to the canonical vendor id.
func (in *RFQVendorInput) NormalizeVendorID() uuid.UUID {
	if in.VendorID != nil {
		return *in.VendorID
	}
	if in.SupplierID != nil {
		return *in.SupplierID
	}
	if in.Vendor != nil {
		return in.Vendor.ID
	}
	return uuid.Nil
}

// RFQQuoteInput is one desired-state per-item-per-vendor quote. VendorID may
// be omitted when the quote arrives nested under its vendor.
type RFQQuoteInput struct {
	ItemID        *uuid.UUID   `json:"itemId,omitempty"`
	CatalogItemID *uuid.UUID   `json:"catalogItemId,omitempty"`
	Item          *ExternalRef `json:"item,omitempty"`
	VendorID      *uuid.UUID   `json:"vendorId,omitempty"`
	SupplierID    *uuid.UUID   `json:"supplierId,omitempty"`
	Vendor        *ExternalRef `json:"vendor,omitempty"`
	UnitPrice     float64      `json:"unitPrice"`
	LeadTime      int          `json:"leadTime"`
	IsSelected    bool         `json:"isSelected"`
	Notes         string       `json:"notes,omitempty"`
}

// NormalizeItemID resolves the quote's item reference aliases.
func (in *RFQQuoteInput) NormalizeItemID() uuid.UUID {
	if in.ItemID != nil {
		return *in.ItemID
	}
	if in.CatalogItemID != nil {
		return *in.CatalogItemID
	}
	if in.Item != nil {
		return in.Item.ID
	}
	return uuid.Nil
}

// NormalizeVendorID resolves the quote's vendor reference aliases.
func (in *RFQQuoteInput) NormalizeVendorID() uuid.UUID {
	if in.VendorID != nil {
		return *in.VendorID
	}
	if in.SupplierID != nil {
		return *in.SupplierID
	}
	if in.Vendor != nil {
		return in.Vendor.ID
	}
	return uuid.Nil
}

// CreateRFQRequest opens an RFQ for a work order.
type CreateRFQRequest struct {
	WorkOrderID               uuid.UUID        `json:"workOrderId" validate:"required"`
	TechnicalRecommendationID *uuid.UUID       `json:"technicalRecommendationId,omitempty"`
	Notes                     string           `json:"notes,omitempty"`
	AssignedTo                string           `json:"assignedTo,omitempty"`
	Items                     []RFQItemInput   `json:"items,omitempty"`
	Vendors                   []RFQVendorInput `json:"vendors,omitempty"`
}

// UpdateRFQRequest is the full desired-state payload the reconciliation
// engine consumes. Quotes may arrive flattened here or nested per vendor.
type UpdateRFQRequest struct {
	Notes       *string          `json:"notes,omitempty"`
	AssignedTo  *string          `json:"assignedTo,omitempty"`
	StageStatus *string          `json:"stageStatus,omitempty"`
	Items       []RFQItemInput   `json:"items"`
	Vendors     []RFQVendorInput `json:"vendors"`
	Quotes      []RFQQuoteInput  `json:"quotes,omitempty"`
}

type RFQItemDTO struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"itemId"`
	ItemName    string    `json:"itemName,omitempty"`
	Description string    `json:"description,omitempty"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	Amount      float64   `json:"amount"`
	LeadTime    int       `json:"leadTime"`
}

type RFQVendorDTO struct {
	ID            uuid.UUID `json:"id"`
	VendorID      uuid.UUID `json:"vendorId"`
	VendorName    string    `json:"vendorName,omitempty"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	PaymentTerms  string    `json:"paymentTerms,omitempty"`
}

type RFQQuoteDTO struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"itemId"`
	VendorID   uuid.UUID `json:"vendorId"`
	UnitPrice  float64   `json:"unitPrice"`
	LeadTime   int       `json:"leadTime"`
	IsSelected bool      `json:"isSelected"`
	Notes      string    `json:"notes,omitempty"`
}

type RFQDTO struct {
	ID                        uuid.UUID      `json:"id"`
	Code                      string         `json:"code"`
	WorkOrderID               uuid.UUID      `json:"workOrderId"`
	WorkOrderCode             string         `json:"workOrderCode,omitempty"`
	TechnicalRecommendationID *uuid.UUID     `json:"technicalRecommendationId,omitempty"`
	Notes                     string         `json:"notes,omitempty"`
	AssignedTo                string         `json:"assignedTo,omitempty"`
	StageStatus               string         `json:"stageStatus,omitempty"`
	Items                     []RFQItemDTO   `json:"items"`
	Vendors                   []RFQVendorDTO `json:"vendors"`
	Quotes                    []RFQQuoteDTO  `json:"quotes"`
	CreatedAt                 string         `json:"createdAt"`
	UpdatedAt                 string         `json:"updatedAt"`
}

// CreateQuotationRequest opens a quotation. The work order must already have
// an RFQ or a technical recommendation; otherwise the request fails
// validation naming rfqId and trId.
type CreateQuotationRequest struct {
	WorkOrderID uuid.UUID  `json:"workOrderId" validate:"required"`
	RFQID       *uuid.UUID `json:"rfqId,omitempty"`
	TRID        *uuid.UUID `json:"trId,omitempty"`
	TotalAmount float64    `json:"totalAmount"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
}

type UpdateQuotationRequest struct {
	TotalAmount *float64   `json:"totalAmount,omitempty"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
}

type QuotationDTO struct {
	ID            uuid.UUID  `json:"id"`
	Code          string     `json:"code"`
	WorkOrderID   uuid.UUID  `json:"workOrderId"`
	WorkOrderCode string     `json:"workOrderCode,omitempty"`
	RFQID         *uuid.UUID `json:"rfqId,omitempty"`
	TRID          *uuid.UUID `json:"trId,omitempty"`
	TotalAmount   float64    `json:"totalAmount"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	AssignedTo    string     `json:"assignedTo,omitempty"`
	StageStatus   string     `json:"stageStatus,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}
