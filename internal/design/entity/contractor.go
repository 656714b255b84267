package entity

import "time"

// Contractor 施工/供货承包商，trade为工种标签（木作/电气/石材等）
type Contractor struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"size:128;not null;index"`
	Phone        string    `json:"phone" gorm:"size:32"`
	Organization string    `json:"organization" gorm:"size:128"`
	Trade        string    `json:"trade" gorm:"size:64"`
	Status       string    `json:"status" gorm:"size:16;default:active"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Contractor) TableName() string {
	return "contractors"
}

// 承包商状态
const (
	ContractorStatusActive   = "active"
	ContractorStatusInactive = "inactive"
)

// ProjectContractor 项目-承包商关联
type ProjectContractor struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID    string    `json:"project_id" gorm:"size:32;not null;index"`
	ContractorID string    `json:"contractor_id" gorm:"size:32;not null;index"`
	Active       bool      `json:"active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Contractor *Contractor `json:"contractor,omitempty" gorm:"foreignKey:ContractorID"`
}

func (ProjectContractor) TableName() string {
	return "project_contractors"
}
