package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"customscrm/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, skip, limit int) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
	Delete(ctx context.Context, userID, id int64) error
	ClearAll(ctx context.Context, userID int64) error
}

type Service struct {
	repo NotificationRepository
	hub  *Hub
	log  *slog.Logger
}

func NewService(repo NotificationRepository, hub *Hub, log *slog.Logger) *Service {
	return &Service{repo: repo, hub: hub, log: log}
}

// Notify persists a notification and pushes it to a connected client.
// Best-effort: a failed write is logged and swallowed, it must never fail
// the workflow transition that emitted it.
func (s *Service) Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any) {
	var payload string
	if len(data) > 0 {
		if b, err := json.Marshal(data); err == nil {
			payload = string(b)
		}
	}

	n := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    payload,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("notification write failed", "user_id", userID, "type", typ, "error", err)
		return
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
}

func (s *Service) List(ctx context.Context, userID int64, skip, limit int) ([]domain.Notification, error) {
	return s.repo.ListByUser(ctx, userID, skip, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	return s.repo.MarkRead(ctx, userID, ids)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) ClearAll(ctx context.Context, userID int64) error {
	return s.repo.ClearAll(ctx, userID)
}
