package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierline/studio/internal/design/entity"
	"github.com/go-resty/resty/v2"
)

// Client 送发通知客户端，把已发出的发图单推送到外部webhook（邮件网关等）
type Client struct {
	http       *resty.Client
	webhookURL string
}

// NewClient 创建通知客户端
func NewClient(webhookURL string) *Client {
	http := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{http: http, webhookURL: webhookURL}
}

type transmittalPayload struct {
	TransmittalID  string        `json:"transmittal_id"`
	Code           string        `json:"code"`
	ProjectID      string        `json:"project_id"`
	RecipientName  string        `json:"recipient_name"`
	RecipientEmail string        `json:"recipient_email"`
	SentAt         *time.Time    `json:"sent_at"`
	Items          []itemPayload `json:"items"`
}

type itemPayload struct {
	DrawingID      string `json:"drawing_id"`
	RevisionNumber int    `json:"revision_number"`
}

// NotifyTransmittal 推送发图通知，失败由调用方记日志（尽力而为，不影响发出状态）
func (c *Client) NotifyTransmittal(ctx context.Context, t *entity.Transmittal) error {
	if c.webhookURL == "" {
		return nil
	}

	payload := transmittalPayload{
		TransmittalID:  t.ID,
		Code:           t.Code,
		ProjectID:      t.ProjectID,
		RecipientName:  t.RecipientName,
		RecipientEmail: t.RecipientEmail,
		SentAt:         t.SentAt,
	}
	for _, item := range t.Items {
		payload.Items = append(payload.Items, itemPayload{
			DrawingID:      item.DrawingID,
			RevisionNumber: item.RevisionNumber,
		})
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post transmittal notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode())
	}
	return nil
}
