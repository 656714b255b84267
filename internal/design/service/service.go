package service

import (
	"github.com/atelierline/studio/internal/design/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Project      *ProjectService
	Directory    *DirectoryService
	Drawing      *DrawingService
	Transmittal  *TransmittalService
	Distribution *DistributionService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Services {
	cache := NewMatrixCache(rdb, logger)

	return &Services{
		Project:      NewProjectService(repos.Project, repos.Client),
		Directory:    NewDirectoryService(repos.Client, repos.Contractor, repos.Project),
		Drawing:      NewDrawingService(repos.Drawing, repos.Project, cache),
		Transmittal:  NewTransmittalService(repos.Transmittal, repos.Drawing, repos.Project, cache, logger, db),
		Distribution: NewDistributionService(repos.Drawing, repos.Transmittal, repos.Project, repos.Contractor, cache),
	}
}
