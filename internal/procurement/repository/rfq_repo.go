package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/atelierline/studio/internal/procurement/entity"
	"gorm.io/gorm"
)

// RFQRepository 询价单仓库
type RFQRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) *RFQRepository {
	return &RFQRepository{db: db}
}

// FindAll 查询询价单列表
func (r *RFQRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.RFQ, int64, error) {
	var items []entity.RFQ
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RFQ{})

	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找询价单（含行项与报价）
func (r *RFQRepository) FindByID(ctx context.Context, id string) (*entity.RFQ, error) {
	var rfq entity.RFQ
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Quotes").
		Preload("Quotes.Supplier").
		Where("id = ?", id).
		First(&rfq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rfq, nil
}

// CreateWithItems 创建询价单及行项
func (r *RFQRepository) CreateWithItems(ctx context.Context, rfq *entity.RFQ, items []entity.RFQItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rfq).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].RFQID = rfq.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		rfq.Items = items
		return nil
	})
}

// Update 更新询价单
func (r *RFQRepository) Update(ctx context.Context, rfq *entity.RFQ) error {
	return r.db.WithContext(ctx).Save(rfq).Error
}

// CreateQuote 录入报价
func (r *RFQRepository) CreateQuote(ctx context.Context, quote *entity.RFQQuote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// FindQuote 查找报价
func (r *RFQRepository) FindQuote(ctx context.Context, id string) (*entity.RFQQuote, error) {
	var quote entity.RFQQuote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

// SelectQuote 选定报价：一个事务里清掉同单其他选中标记、
// 置选中报价、关闭询价单。
func (r *RFQRepository) SelectQuote(ctx context.Context, rfqID, quoteID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.RFQQuote{}).
			Where("rfq_id = ?", rfqID).
			Update("selected", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&entity.RFQQuote{}).
			Where("id = ? AND rfq_id = ?", quoteID, rfqID).
			Update("selected", true).Error; err != nil {
			return err
		}
		return tx.Model(&entity.RFQ{}).
			Where("id = ?", rfqID).
			Update("status", entity.RFQStatusAwarded).Error
	})
}

// GenerateCode 生成询价单编码 RFQ-{4位}
func (r *RFQRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.RFQ{}).
		Select("COALESCE(MAX(code), 'RFQ-0000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "RFQ-%04d", &seq)
	seq++
	return fmt.Sprintf("RFQ-%04d", seq), nil
}
