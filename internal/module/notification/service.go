package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrimart/server/internal/shared/metrics"
	"github.com/agrimart/server/internal/shared/pagination"
)

// Service implements notification operations.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger.Named("notification"),
	}
}

// Notify creates a notification for a user.
func (s *Service) Notify(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.metrics.NotificationsTotal.WithLabelValues(n.Type).Inc()
	s.logger.Debug("notification created",
		zap.String("user_id", n.UserID.String()),
		zap.String("type", n.Type))
	return nil
}

// List returns a page of the user's notifications along with their
// unread count.
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, query *ListQuery) (*ListResponse, error) {
	page := pagination.New()
	if query.Page > 0 {
		page.Page = query.Page
	}
	if query.PageSize > 0 {
		page.PageSize = query.PageSize
	}

	notifications, total, err := s.repo.ListByUser(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          page.Page,
		TotalPages:    page.TotalPages(total),
	}, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
