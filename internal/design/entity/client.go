package entity

import "time"

// Client 业主/客户
type Client struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"size:128;not null;index"`
	Phone        string    `json:"phone" gorm:"size:32"`
	Organization string    `json:"organization" gorm:"size:128"`
	Address      string    `json:"address" gorm:"size:256"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedBy    string    `json:"created_by" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}
