package entity

import "time"

// Invoice 采购发票，由选定的报价生成，记录开票与付款
type Invoice struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	Code       string     `json:"code" gorm:"size:32;uniqueIndex;not null"`
	ProjectID  string     `json:"project_id" gorm:"size:32;not null;index"`
	RFQID      *string    `json:"rfq_id" gorm:"size:32"`
	SupplierID string     `json:"supplier_id" gorm:"size:32;not null;index"`
	Amount     float64    `json:"amount" gorm:"type:decimal(14,2);not null"`
	Currency   string     `json:"currency" gorm:"size:10;default:USD"`
	Status     string     `json:"status" gorm:"size:20;default:issued"`
	IssuedAt   time.Time  `json:"issued_at"`
	DueDate    *time.Time `json:"due_date"`
	PaidAt     *time.Time `json:"paid_at"`
	CreatedBy  string     `json:"created_by" gorm:"size:32"`
	Notes      string     `json:"notes" gorm:"type:text"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Invoice) TableName() string {
	return "procurement_invoices"
}

// 发票状态
const (
	InvoiceStatusIssued   = "issued"
	InvoiceStatusPaid     = "paid"
	InvoiceStatusCanceled = "canceled"
)
