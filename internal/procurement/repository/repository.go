package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// Repositories 采购仓库集合
type Repositories struct {
	Supplier *SupplierRepository
	RFQ      *RFQRepository
	Invoice  *InvoiceRepository
}

// NewRepositories 创建采购仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier: NewSupplierRepository(db),
		RFQ:      NewRFQRepository(db),
		Invoice:  NewInvoiceRepository(db),
	}
}
