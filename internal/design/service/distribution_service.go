package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/atelierline/studio/internal/design/repository"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const matrixCacheTTL = 5 * time.Minute

// MatrixCache 发放矩阵的redis缓存。rdb为nil时全部操作直通。
// 只缓存默认视图（不含归档图纸），写路径负责失效。
type MatrixCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewMatrixCache 创建矩阵缓存
func NewMatrixCache(rdb *redis.Client, logger *zap.Logger) *MatrixCache {
	return &MatrixCache{rdb: rdb, logger: logger}
}

func matrixCacheKey(projectID string) string {
	return "studio:distmatrix:" + projectID
}

// Get 读取缓存，未命中或解码失败返回nil
func (c *MatrixCache) Get(ctx context.Context, projectID string) []DistributionCell {
	if c == nil || c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, matrixCacheKey(projectID)).Bytes()
	if err != nil {
		return nil
	}
	var cells []DistributionCell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil
	}
	return cells
}

// Set 写入缓存（尽力而为）
func (c *MatrixCache) Set(ctx context.Context, projectID string, cells []DistributionCell) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, matrixCacheKey(projectID), raw, matrixCacheTTL).Err(); err != nil {
		c.logger.Debug("Matrix cache set failed", zap.String("project_id", projectID), zap.Error(err))
	}
}

// Invalidate 删除项目的矩阵缓存，新版本发布/发放单发出/图纸归档时调用
func (c *MatrixCache) Invalidate(ctx context.Context, projectID string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, matrixCacheKey(projectID)).Err(); err != nil {
		c.logger.Debug("Matrix cache invalidate failed", zap.String("project_id", projectID), zap.Error(err))
	}
}

// DistributionService 发放矩阵与收件人目录。纯计算在distribution.go，
// 这里负责取数、缓存和导出。
type DistributionService struct {
	drawingRepo     *repository.DrawingRepository
	transmittalRepo *repository.TransmittalRepository
	projectRepo     *repository.ProjectRepository
	contractorRepo  *repository.ContractorRepository
	cache           *MatrixCache
}

// NewDistributionService 创建发放矩阵服务
func NewDistributionService(
	drawingRepo *repository.DrawingRepository,
	transmittalRepo *repository.TransmittalRepository,
	projectRepo *repository.ProjectRepository,
	contractorRepo *repository.ContractorRepository,
	cache *MatrixCache,
) *DistributionService {
	return &DistributionService{
		drawingRepo:     drawingRepo,
		transmittalRepo: transmittalRepo,
		projectRepo:     projectRepo,
		contractorRepo:  contractorRepo,
		cache:           cache,
	}
}

// BuildMatrix 计算项目发放矩阵。includeArchived=true时把归档图纸
// 也纳入（审计视图），该视图不走缓存。
func (s *DistributionService) BuildMatrix(ctx context.Context, projectID string, includeArchived bool) ([]DistributionCell, error) {
	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !includeArchived {
		if cells := s.cache.Get(ctx, projectID); cells != nil {
			return cells, nil
		}
	}

	drawings, err := s.drawingRepo.ListByProject(ctx, projectID, includeArchived)
	if err != nil {
		return nil, err
	}
	sent, err := s.transmittalRepo.ListSentByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	cells := BuildDistributionMatrix(drawings, sent)
	if !includeArchived {
		s.cache.Set(ctx, projectID, cells)
	}
	return cells, nil
}

// ListRecipients 合并项目收件人目录
func (s *DistributionService) ListRecipients(ctx context.Context, projectID string) ([]Recipient, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	links, err := s.contractorRepo.ListByProject(ctx, projectID, true)
	if err != nil {
		return nil, err
	}
	sent, err := s.transmittalRepo.ListSentByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return MergeRecipients(project.Client, links, sent), nil
}

// ExportMatrix 把发放矩阵导出为xlsx
func (s *DistributionService) ExportMatrix(ctx context.Context, projectID string, includeArchived bool) (*excelize.File, error) {
	cells, err := s.BuildMatrix(ctx, projectID, includeArchived)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Distribution"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Drawing No.", "Title", "Recipient", "Rev", "Transmittal", "Sent At", "Current"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, c := range cells {
		current := "yes"
		if !c.IsCurrent {
			current = "STALE"
		}
		values := []interface{}{
			c.DrawingNumber,
			c.DrawingTitle,
			c.RecipientAddress,
			c.RevisionNumber,
			c.TransmittalCode,
			c.SentAt.Format("2006-01-02 15:04"),
			current,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "E", "F", 18)
	return f, nil
}
