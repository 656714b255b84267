package entity

import "time"

// Transmittal 图纸发放单：一次发送事件，一个收件人，多条图纸/版本行项。
// 状态只允许 draft→sent 单向流转，重发=新建一张发放单。
type Transmittal struct {
	ID        string     `json:"id" gorm:"primaryKey;size:32"`
	Code      string     `json:"code" gorm:"size:32;not null;uniqueIndex:idx_transmittal_project_code"` // TX-0001，项目内顺序号
	ProjectID string     `json:"project_id" gorm:"size:32;not null;index;uniqueIndex:idx_transmittal_project_code"`
	Status    string     `json:"status" gorm:"size:16;not null;default:draft"`
	SentAt    *time.Time `json:"sent_at"`
	Notes     string     `json:"notes" gorm:"type:text"`

	// 收件人联系信息（随单快照，不引用目录表）
	RecipientName     string `json:"recipient_name" gorm:"size:128;not null"`
	RecipientEmail    string `json:"recipient_email" gorm:"size:128;not null;index"`
	RecipientOrg      string `json:"recipient_org" gorm:"size:128"`
	RecipientCategory string `json:"recipient_category" gorm:"size:16"` // client/contractor/other

	CreatedBy string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Items []TransmittalItem `json:"items,omitempty" gorm:"foreignKey:TransmittalID"`
}

func (Transmittal) TableName() string {
	return "transmittals"
}

// 发放单状态
const (
	TransmittalStatusDraft = "draft"
	TransmittalStatusSent  = "sent"
)

// 收件人类别
const (
	RecipientCategoryClient     = "client"
	RecipientCategoryContractor = "contractor"
	RecipientCategoryOther      = "other"
)

// TransmittalItem 发放单行项。RevisionID为空表示"发送当时的最新版"，
// RevisionNumber是发送时刻的版本号快照，MarkSent时冻结，之后不再改动。
type TransmittalItem struct {
	ID             string  `json:"id" gorm:"primaryKey;size:32"`
	TransmittalID  string  `json:"transmittal_id" gorm:"size:32;not null;index"`
	DrawingID      string  `json:"drawing_id" gorm:"size:32;not null;index"`
	RevisionID     *string `json:"revision_id" gorm:"size:32"`
	RevisionNumber int     `json:"revision_number" gorm:"not null"`

	// 关联
	Drawing  *Drawing         `json:"drawing,omitempty" gorm:"foreignKey:DrawingID"`
	Revision *DrawingRevision `json:"revision,omitempty" gorm:"foreignKey:RevisionID"`
}

func (TransmittalItem) TableName() string {
	return "transmittal_items"
}
