package entity

import "time"

// Project 设计项目
type Project struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	Code        string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name        string     `json:"name" gorm:"size:128;not null"`
	ClientID    *string    `json:"client_id" gorm:"size:32"`
	Status      string     `json:"status" gorm:"size:16;not null;default:active"`
	Description string     `json:"description" gorm:"type:text"`
	ManagerID   string     `json:"manager_id" gorm:"size:32"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	CreatedBy   string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`

	// 关联
	Client      *Client             `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Manager     *User               `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Rooms       []Room              `json:"rooms,omitempty" gorm:"foreignKey:ProjectID"`
	Stages      []DesignStage       `json:"stages,omitempty" gorm:"foreignKey:ProjectID"`
	Contractors []ProjectContractor `json:"contractors,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

// 项目状态
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Room 项目房间
type Room struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string    `json:"project_id" gorm:"size:32;not null;index"`
	Name      string    `json:"name" gorm:"size:64;not null"`
	Type      string    `json:"type" gorm:"size:32"` // bedroom/kitchen/bathroom/living...
	AreaSqm   *float64  `json:"area_sqm" gorm:"type:decimal(8,2)"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// DesignStage 设计阶段（概念/深化/施工图/软装）
type DesignStage struct {
	ID        string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID string     `json:"project_id" gorm:"size:32;not null;index"`
	Name      string     `json:"name" gorm:"size:64;not null"`
	Status    string     `json:"status" gorm:"size:16;default:pending"` // pending/in_progress/done
	Sequence  int        `json:"sequence" gorm:"not null;default:0"`
	DueDate   *time.Time `json:"due_date" gorm:"type:date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (DesignStage) TableName() string {
	return "design_stages"
}
