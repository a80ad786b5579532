package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate assigns a UUID when the caller has not supplied one.
// IDs are generated application-side so the same models work against
// Postgres in production and sqlite in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// StageStatus is the approval-style status carried by stage events and
// denormalized onto each module row. The domain is open: the log stores
// whatever status string was submitted, these constants only name the values
// the UI sends.
type StageStatus = string

const (
	StageStatusDraft      StageStatus = "Draft"
	StageStatusPending    StageStatus = "Pending"
	StageStatusInProgress StageStatus = "In Progress"
	StageStatusSubmitted  StageStatus = "Submitted"
	StageStatusApproved   StageStatus = "Approved"
	StageStatusRejected   StageStatus = "Rejected"
)

// StageEvent is one immutable row in the append-only workflow log.
// The current stage of a work order is never stored as a pointer: it is the
// event with the greatest created_at (ties broken by highest id) for that
// work order.
type StageEvent struct {
	BaseModel
	WorkOrderID uuid.UUID   `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder  `gorm:"foreignKey:WorkOrderID"`
	StageName   string      `gorm:"type:varchar(100);not null;index;column:stage_name"`
	Status      StageStatus `gorm:"type:varchar(50);not null"`
	AssignedTo  *string     `gorm:"type:varchar(100);index;column:assigned_to"`
	Notified    bool        `gorm:"not null;default:false"`
	Remarks     string      `gorm:"type:text"`
}

// WorkOrder is the root entity the multi-stage process is attached to.
type WorkOrder struct {
	BaseModel
	Code        string      `gorm:"type:varchar(50);unique;index"`
	Description string      `gorm:"type:text"`
	AssignedTo  string      `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus StageStatus `gorm:"type:varchar(50);column:stage_status"`
	AccountID   *uuid.UUID  `gorm:"type:uuid;index;column:account_id"`
	Account     *Account    `gorm:"foreignKey:AccountID"`
	CreatedBy   string      `gorm:"type:varchar(100);column:created_by"`
}

// Account is the NAEF (account enrollment) module row.
type Account struct {
	BaseModel
	Code          string      `gorm:"type:varchar(50);unique;index"`
	Name          string      `gorm:"type:varchar(200);not null;index"`
	Industry      string      `gorm:"type:varchar(100)"`
	ContactPerson string      `gorm:"type:varchar(200);column:contact_person"`
	ContactEmail  string      `gorm:"type:varchar(255);column:contact_email"`
	AssignedTo    string      `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus   StageStatus `gorm:"type:varchar(50);column:stage_status"`
	CreatedBy     string      `gorm:"type:varchar(100);column:created_by"`
}

// SalesLead is the sales-lead stage module row.
type SalesLead struct {
	BaseModel
	Code        string      `gorm:"type:varchar(50);unique;index"`
	WorkOrderID uuid.UUID   `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder  `gorm:"foreignKey:WorkOrderID"`
	AccountID   *uuid.UUID  `gorm:"type:uuid;index;column:account_id"`
	Account     *Account    `gorm:"foreignKey:AccountID"`
	Brand       string      `gorm:"type:varchar(200)"`
	Description string      `gorm:"type:text"`
	AssignedTo  string      `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus StageStatus `gorm:"type:varchar(50);column:stage_status"`
	CreatedBy   string      `gorm:"type:varchar(100);column:created_by"`
}

// TechnicalRecommendation is the TR stage module row.
type TechnicalRecommendation struct {
	BaseModel
	Code        string      `gorm:"type:varchar(50);unique;index"`
	WorkOrderID uuid.UUID   `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder  `gorm:"foreignKey:WorkOrderID"`
	SalesLeadID *uuid.UUID  `gorm:"type:uuid;index;column:sales_lead_id"`
	SalesLead   *SalesLead  `gorm:"foreignKey:SalesLeadID"`
	Summary     string      `gorm:"type:text"`
	AssignedTo  string      `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus StageStatus `gorm:"type:varchar(50);column:stage_status"`
	CreatedBy   string      `gorm:"type:varchar(100);column:created_by"`
}

// RFQ is the request-for-quote stage module row. Items, vendors and quotes
// are owned child collections maintained by the reconciliation engine.
type RFQ struct {
	BaseModel
	Code                      string               `gorm:"type:varchar(50);unique;index"`
	WorkOrderID               uuid.UUID            `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder                 *WorkOrder           `gorm:"foreignKey:WorkOrderID"`
	TechnicalRecommendationID *uuid.UUID           `gorm:"type:uuid;index;column:technical_recommendation_id"`
	Notes                     string               `gorm:"type:text"`
	AssignedTo                string               `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus               StageStatus          `gorm:"type:varchar(50);column:stage_status"`
	CreatedBy                 string               `gorm:"type:varchar(100);column:created_by"`
	Items                     []RFQItem            `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE"`
	Vendors                   []RFQVendor          `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE"`
	Quotes                    []RFQItemVendorQuote `gorm:"foreignKey:RFQID;constraint:OnDelete:CASCADE"`
}

// RFQItem is a line item on an RFQ. ItemID references the external catalog
// and is the natural key used when reconciling an incoming payload.
type RFQItem struct {
	BaseModel
	RFQID       uuid.UUID `gorm:"type:uuid;not null;index;column:rfq_id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index;column:item_id"`
	Description string    `gorm:"type:varchar(500)"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null;default:0"`
	UnitPrice   float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	Amount      float64   `gorm:"type:decimal(15,2);not null;default:0"`
	LeadTime    int       `gorm:"not null;default:0;column:lead_time"`
}

// TableName overrides the default pluralization (gorm would produce rfqitems)
func (RFQItem) TableName() string {
	return "rfq_items"
}

// RFQVendor is a vendor invited to quote on an RFQ. VendorID references the
// external vendor registry and is the natural key during reconciliation.
type RFQVendor struct {
	BaseModel
	RFQID         uuid.UUID `gorm:"type:uuid;not null;index;column:rfq_id"`
	VendorID      uuid.UUID `gorm:"type:uuid;not null;index;column:vendor_id"`
	Vendor        *Vendor   `gorm:"foreignKey:VendorID"`
	ContactPerson string    `gorm:"type:varchar(200);column:contact_person"`
	PaymentTerms  string    `gorm:"type:varchar(200);column:payment_terms"`
}

func (RFQVendor) TableName() string {
	return "rfq_vendors"
}

// RFQItemVendorQuote is one vendor's quote for one item on an RFQ.
// Clients may omit the surrogate id for brand-new quotes, so the natural key
// is (vendor_id, item_id) within the RFQ.
type RFQItemVendorQuote struct {
	BaseModel
	RFQID      uuid.UUID `gorm:"type:uuid;not null;index;column:rfq_id"`
	ItemID     uuid.UUID `gorm:"type:uuid;not null;index;column:item_id"`
	VendorID   uuid.UUID `gorm:"type:uuid;not null;index;column:vendor_id"`
	UnitPrice  float64   `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	LeadTime   int       `gorm:"not null;default:0;column:lead_time"`
	IsSelected bool      `gorm:"not null;default:false;column:is_selected"`
	Notes      string    `gorm:"type:text"`
}

func (RFQItemVendorQuote) TableName() string {
	return "rfq_item_vendor_quotes"
}

// QuoteKey is the natural key of a quote within one RFQ.
type QuoteKey struct {
	VendorID uuid.UUID
	ItemID   uuid.UUID
}

// Key returns the quote's natural key.
func (q *RFQItemVendorQuote) Key() QuoteKey {
	return QuoteKey{VendorID: q.VendorID, ItemID: q.ItemID}
}

// Quotation is the final stage module row. It must trace back to either an
// RFQ or a technical recommendation for its work order.
type Quotation struct {
	BaseModel
	Code                      string      `gorm:"type:varchar(50);unique;index"`
	WorkOrderID               uuid.UUID   `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder                 *WorkOrder  `gorm:"foreignKey:WorkOrderID"`
	RFQID                     *uuid.UUID  `gorm:"type:uuid;index;column:rfq_id"`
	TechnicalRecommendationID *uuid.UUID  `gorm:"type:uuid;index;column:technical_recommendation_id"`
	TotalAmount               float64     `gorm:"type:decimal(15,2);not null;default:0;column:total_amount"`
	ValidUntil                *time.Time  `gorm:"type:date;column:valid_until"`
	AssignedTo                string      `gorm:"type:varchar(100);index;column:assigned_to"`
	StageStatus               StageStatus `gorm:"type:varchar(50);column:stage_status"`
	CreatedBy                 string      `gorm:"type:varchar(100);column:created_by"`
}

// Vendor is an entry in the vendor registry, used to enrich RFQ responses.
type Vendor struct {
	BaseModel
	Name          string `gorm:"type:varchar(200);not null;index"`
	ContactPerson string `gorm:"type:varchar(200);column:contact_person"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
}

// CatalogItem is an entry in the item catalog RFQ items point at.
type CatalogItem struct {
	BaseModel
	Name        string  `gorm:"type:varchar(200);not null;index"`
	PartNumber  string  `gorm:"type:varchar(100);index;column:part_number"`
	Unit        string  `gorm:"type:varchar(50)"`
	ListPrice   float64 `gorm:"type:decimal(15,2);not null;default:0;column:list_price"`
	Description string  `gorm:"type:text"`
}

// NumberSequence is the per-prefix, per-year counter backing code generation.
// The row is locked while a code is handed out, which turns the
// read-then-insert race of naive max-suffix scanning into a serialized
// increment.
type NumberSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_number_sequences_prefix_year"`
	Year         int       `gorm:"not null;uniqueIndex:idx_number_sequences_prefix_year"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (s *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// User represents a user in the system
type User struct {
	ID          string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:display_name" json:"displayName"`
	Roles       pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	Department  string         `gorm:"type:varchar(100)" json:"department,omitempty"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}
