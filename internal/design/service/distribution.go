package service

import (
	"sort"
	"strings"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
)

// Recipient 项目的一个发放对象，由客户/承包商/历史发放单合并得出，
// 按小写邮箱地址去重，先出现者保留展示信息。
type Recipient struct {
	Address      string `json:"address"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Category     string `json:"category"`
	Trade        string `json:"trade,omitempty"`
}

// DistributionCell 发放矩阵单元：某收件人收到某图纸的最高版本。
// 没有发放历史的(图纸,收件人)对不出现在矩阵里。
type DistributionCell struct {
	DrawingID        string    `json:"drawing_id"`
	DrawingNumber    string    `json:"drawing_number"`
	DrawingTitle     string    `json:"drawing_title"`
	RecipientAddress string    `json:"recipient_address"`
	RevisionNumber   int       `json:"revision_number"`
	TransmittalID    string    `json:"transmittal_id"`
	TransmittalCode  string    `json:"transmittal_code"`
	SentAt           time.Time `json:"sent_at"`
	IsCurrent        bool      `json:"is_current"`
}

// MergeRecipients 合并收件人目录。合并顺序（地址冲突时先到先得）：
// 项目客户 → 在用项目承包商 → 历史已发送发放单（旧在前）。
// 承包商地址命中时补全trade标签，即使该地址先以其他来源入场。
func MergeRecipients(client *entity.Client, links []entity.ProjectContractor, sent []entity.Transmittal) []Recipient {
	byAddress := make(map[string]*Recipient)
	var order []string

	add := func(rec Recipient) {
		key := strings.ToLower(rec.Address)
		if key == "" {
			return
		}
		if _, ok := byAddress[key]; ok {
			return
		}
		rec.Address = key
		byAddress[key] = &rec
		order = append(order, key)
	}

	if client != nil && client.Email != "" {
		add(Recipient{
			Address:      client.Email,
			Name:         client.Name,
			Organization: client.Organization,
			Category:     entity.RecipientCategoryClient,
		})
	}

	tradeByAddress := make(map[string]string)
	for _, link := range links {
		if link.Contractor == nil || !link.Active {
			continue
		}
		c := link.Contractor
		if c.Email != "" && c.Trade != "" {
			tradeByAddress[strings.ToLower(c.Email)] = c.Trade
		}
		add(Recipient{
			Address:      c.Email,
			Name:         c.Name,
			Organization: c.Organization,
			Category:     entity.RecipientCategoryContractor,
			Trade:        c.Trade,
		})
	}

	// 历史发放单按发送时间升序遍历，最早记录的称呼优先
	historical := make([]entity.Transmittal, len(sent))
	copy(historical, sent)
	sort.SliceStable(historical, func(i, j int) bool {
		ti, tj := historical[i].SentAt, historical[j].SentAt
		if ti == nil || tj == nil {
			// 未发送的记录排在已发送之后，彼此保持原有顺序
			return ti != nil && tj == nil
		}
		return ti.Before(*tj)
	})
	for _, t := range historical {
		category := t.RecipientCategory
		if category == "" {
			category = entity.RecipientCategoryOther
		}
		add(Recipient{
			Address:      t.RecipientEmail,
			Name:         t.RecipientName,
			Organization: t.RecipientOrg,
			Category:     category,
		})
	}

	recipients := make([]Recipient, 0, len(order))
	for _, key := range order {
		rec := byAddress[key]
		if rec.Trade == "" {
			rec.Trade = tradeByAddress[key]
		}
		recipients = append(recipients, *rec)
	}
	return recipients
}

// BuildDistributionMatrix 把已发送发放单折叠成发放矩阵。
// 每个(图纸,收件人地址)保留快照版本号最大的行项，版本号相同时
// 保留发送时间更晚的那张单。IsCurrent = 快照版本 >= 图纸当前版本。
// 不在drawings里的图纸（归档被排除时）不产出单元。
func BuildDistributionMatrix(drawings []entity.Drawing, sent []entity.Transmittal) []DistributionCell {
	drawingByID := make(map[string]*entity.Drawing, len(drawings))
	for i := range drawings {
		drawingByID[drawings[i].ID] = &drawings[i]
	}

	type cellKey struct {
		drawingID string
		address   string
	}
	cells := make(map[cellKey]*DistributionCell)
	var order []cellKey

	for _, t := range sent {
		if t.SentAt == nil {
			continue
		}
		address := strings.ToLower(t.RecipientEmail)
		if address == "" {
			continue
		}
		for _, item := range t.Items {
			drawing, ok := drawingByID[item.DrawingID]
			if !ok {
				continue
			}
			key := cellKey{drawingID: item.DrawingID, address: address}
			existing, ok := cells[key]
			if ok {
				if item.RevisionNumber < existing.RevisionNumber {
					continue
				}
				if item.RevisionNumber == existing.RevisionNumber && !t.SentAt.After(existing.SentAt) {
					continue
				}
			} else {
				order = append(order, key)
			}
			cells[key] = &DistributionCell{
				DrawingID:        drawing.ID,
				DrawingNumber:    drawing.Number,
				DrawingTitle:     drawing.Title,
				RecipientAddress: address,
				RevisionNumber:   item.RevisionNumber,
				TransmittalID:    t.ID,
				TransmittalCode:  t.Code,
				SentAt:           *t.SentAt,
			}
		}
	}

	result := make([]DistributionCell, 0, len(order))
	for _, key := range order {
		cell := cells[key]
		cell.IsCurrent = cell.RevisionNumber >= drawingByID[key.drawingID].CurrentRevision
		result = append(result, *cell)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DrawingNumber != result[j].DrawingNumber {
			return result[i].DrawingNumber < result[j].DrawingNumber
		}
		return result[i].RecipientAddress < result[j].RecipientAddress
	})
	return result
}
