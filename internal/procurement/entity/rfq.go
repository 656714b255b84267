package entity

import "time"

// RFQ 询价单。一个询价单对应项目里一批待采购的FF&E条目，
// 向多家供应商收报价，选定其中一份后关闭。
type RFQ struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Code        string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID   string     `json:"project_id" gorm:"size:32;not null;index"`
	RoomID      *string    `json:"room_id" gorm:"size:32"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Status      string     `json:"status" gorm:"size:20;default:open"`
	DueDate     *time.Time `json:"due_date"`
	RequestedBy string     `json:"requested_by" gorm:"size:32"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items  []RFQItem  `json:"items,omitempty" gorm:"foreignKey:RFQID"`
	Quotes []RFQQuote `json:"quotes,omitempty" gorm:"foreignKey:RFQID"`
}

func (RFQ) TableName() string {
	return "procurement_rfqs"
}

// 询价单状态
const (
	RFQStatusOpen     = "open"
	RFQStatusAwarded  = "awarded"
	RFQStatusCanceled = "canceled"
)

// RFQItem 询价行项
type RFQItem struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	RFQID         string    `json:"rfq_id" gorm:"size:32;not null;index"`
	ItemName      string    `json:"item_name" gorm:"size:200;not null"`
	Specification string    `json:"specification" gorm:"type:text"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,2);not null"`
	Unit          string    `json:"unit" gorm:"size:20;default:pcs"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (RFQItem) TableName() string {
	return "procurement_rfq_items"
}

// RFQQuote 供应商报价
type RFQQuote struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	RFQID        string     `json:"rfq_id" gorm:"size:32;not null;index"`
	SupplierID   string     `json:"supplier_id" gorm:"size:32;not null;index"`
	TotalAmount  float64    `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	Currency     string     `json:"currency" gorm:"size:10;default:USD"`
	LeadTimeDays *int       `json:"lead_time_days"`
	ValidUntil   *time.Time `json:"valid_until"`
	Selected     bool       `json:"selected" gorm:"default:false"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (RFQQuote) TableName() string {
	return "procurement_rfq_quotes"
}
