package entity

import "time"

// Drawing 图纸登记项。CurrentRevision始终等于该图纸已有版本的最大编号，
// 修订通过DrawingRepository.AddRevision在行锁内推进。
type Drawing struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID       string     `json:"project_id" gorm:"size:32;not null;index;uniqueIndex:idx_drawing_project_number"`
	Number          string     `json:"number" gorm:"size:64;not null;uniqueIndex:idx_drawing_project_number"` // 项目内唯一图号，如 A-101
	Title           string     `json:"title" gorm:"size:256;not null"`
	Discipline      string     `json:"discipline" gorm:"size:32"` // architectural/electrical/plumbing/millwork...
	CurrentRevision int        `json:"current_revision" gorm:"not null;default:1"`
	Status          string     `json:"status" gorm:"size:16;not null;default:active"`
	CreatedBy       string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ArchivedAt      *time.Time `json:"archived_at"`

	// 关联
	Revisions []DrawingRevision `json:"revisions,omitempty" gorm:"foreignKey:DrawingID"`
}

func (Drawing) TableName() string {
	return "drawings"
}

// 图纸状态
const (
	DrawingStatusActive   = "active"
	DrawingStatusArchived = "archived"
)

// DrawingRevision 图纸的一个不可变版本，Number在图纸内从1起严格递增
type DrawingRevision struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	DrawingID   string    `json:"drawing_id" gorm:"size:32;not null;uniqueIndex:idx_drawing_rev_number"`
	Number      int       `json:"number" gorm:"not null;uniqueIndex:idx_drawing_rev_number"`
	Description string    `json:"description" gorm:"size:512"`
	FileRef     string    `json:"file_ref" gorm:"size:256"` // 存储对象key，由上传接口返回
	IssuedBy    string    `json:"issued_by" gorm:"size:32"`
	IssuedAt    time.Time `json:"issued_at"`

	// 关联
	Issuer *User `json:"issuer,omitempty" gorm:"foreignKey:IssuedBy"`
}

func (DrawingRevision) TableName() string {
	return "drawing_revisions"
}
