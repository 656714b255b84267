package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("concurrent update conflict")
)

// Repositories 仓库集合
type Repositories struct {
	User        *UserRepository
	Client      *ClientRepository
	Contractor  *ContractorRepository
	Project     *ProjectRepository
	Drawing     *DrawingRepository
	Transmittal *TransmittalRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Client:      NewClientRepository(db),
		Contractor:  NewContractorRepository(db),
		Project:     NewProjectRepository(db),
		Drawing:     NewDrawingRepository(db),
		Transmittal: NewTransmittalRepository(db),
	}
}
