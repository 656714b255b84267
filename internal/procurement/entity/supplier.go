package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONBArray JSONB数组类型
type JSONBArray []interface{}

func (j JSONBArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONBArray: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// Supplier FF&E供应商（家具、灯具、面料、定制木作等）
type Supplier struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	Code     string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Category string `json:"category" gorm:"size:50;not null"` // furniture/lighting/textiles/millwork/other
	Status   string `json:"status" gorm:"size:20;default:active"`

	// 基本信息
	Country string `json:"country" gorm:"size:50"`
	City    string `json:"city" gorm:"size:50"`
	Address string `json:"address" gorm:"size:500"`
	Website string `json:"website" gorm:"size:200"`

	// 业务信息
	LeadTimeDays *int        `json:"lead_time_days"`
	PaymentTerms string      `json:"payment_terms" gorm:"size:100"`
	Tags         *JSONBArray `json:"tags" gorm:"type:jsonb"`

	// 管理信息
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Contacts []SupplierContact `json:"contacts,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "procurement_suppliers"
}

// 供应商分类
const (
	SupplierCategoryFurniture = "furniture"
	SupplierCategoryLighting  = "lighting"
	SupplierCategoryTextiles  = "textiles"
	SupplierCategoryMillwork  = "millwork"
	SupplierCategoryOther     = "other"
)

// 供应商状态
const (
	SupplierStatusActive      = "active"
	SupplierStatusSuspended   = "suspended"
	SupplierStatusBlacklisted = "blacklisted"
)

// SupplierContact 供应商联系人
type SupplierContact struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string    `json:"supplier_id" gorm:"size:32;not null;index"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Title      string    `json:"title" gorm:"size:100"`
	Phone      string    `json:"phone" gorm:"size:50"`
	Email      string    `json:"email" gorm:"size:200"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SupplierContact) TableName() string {
	return "procurement_supplier_contacts"
}
