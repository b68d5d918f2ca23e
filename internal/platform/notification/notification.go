// Package notification delivers donation status-change notifications to
// donors, with template rendering, in-memory storage, and pluggable senders.
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification represents a single outbound notification.
type Notification struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	RegistrationID string            `json:"registration_id,omitempty"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Status         string            `json:"status"`
	Error          string            `json:"error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	SentAt         *time.Time        `json:"sent_at,omitempty"`
	Data           map[string]string `json:"data,omitempty"`
}

// Sender is the delivery channel (push, email, SMS — decided by the caller's
// wiring). Delivery failures are recorded but never fail the triggering
// request.
type Sender interface {
	Send(ctx context.Context, userID, title, body string) error
}

// statusTemplates maps a registration status to the notification shown to the
// donor when the registration enters that status.
var statusTemplates = map[string]struct{ Title, Body string }{
	"IN_CONSULT": {
		Title: "Đang khám sức khỏe",
		Body:  "Đơn đăng ký hiến máu của bạn tại {{facility}} đang được khám sàng lọc.",
	},
	"WAITING_DONATION": {
		Title: "Đủ điều kiện hiến máu",
		Body:  "Bạn đã đủ điều kiện hiến máu tại {{facility}}. Vui lòng chờ đến lượt hiến.",
	},
	"REGISTERED": {
		Title: "Chưa đủ điều kiện hiến máu",
		Body:  "Rất tiếc, bạn chưa đủ điều kiện hiến máu tại {{facility}} lần này.",
	},
}

// render performs {{key}} replacement. Unknown statuses get a generic message
// so a new workflow state never silently drops the donor notification.
func render(status, facilityName string) (title, body string) {
	tpl, ok := statusTemplates[status]
	if !ok {
		return "Cập nhật đăng ký hiến máu",
			fmt.Sprintf("Đơn đăng ký hiến máu của bạn chuyển sang trạng thái %s.", status)
	}
	return tpl.Title, strings.ReplaceAll(tpl.Body, "{{facility}}", facilityName)
}

// Service orchestrates rendering, delivery, and in-memory retention of
// notifications.
type Service struct {
	sender Sender

	mu   sync.RWMutex
	sent map[string]*Notification
}

func NewService(sender Sender) *Service {
	return &Service{
		sender: sender,
		sent:   make(map[string]*Notification),
	}
}

// SendStatusChange notifies a donor that their registration moved to a new
// status. One notification per status transition.
func (s *Service) SendStatusChange(ctx context.Context, userID, newStatus, facilityName, registrationID string) error {
	title, body := render(newStatus, facilityName)

	n := &Notification{
		ID:             uuid.NewString(),
		UserID:         userID,
		RegistrationID: registrationID,
		Title:          title,
		Body:           body,
		Status:         "pending",
		CreatedAt:      time.Now().UTC(),
		Data: map[string]string{
			"status":          newStatus,
			"facility":        facilityName,
			"registration_id": registrationID,
		},
	}

	err := s.sender.Send(ctx, userID, title, body)
	if err != nil {
		n.Status = "failed"
		n.Error = err.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	s.mu.Lock()
	s.sent[n.ID] = n
	s.mu.Unlock()

	return err
}

// ForUser returns all retained notifications for a user, newest last.
func (s *Service) ForUser(userID string) []*Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Notification
	for _, n := range s.sent {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// NopSender discards notifications; used in development and tests.
type NopSender struct{}

func (NopSender) Send(context.Context, string, string, string) error { return nil }
