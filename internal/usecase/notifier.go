package usecase

import (
	"context"
	"time"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/internal/data/repository"
	"marketplace-booking/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by mq.Publisher. Nil disables publishing.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Notifier stores a notification row and emits the matching domain event.
// Fire-and-forget: it runs after commit, on its own goroutine and timeout,
// and never reports failure to the operation that triggered it.
type Notifier struct {
	repo *repository.Repository
	pub  EventPublisher
	log  *zap.Logger
}

func NewNotifier(repo *repository.Repository, pub EventPublisher, log *zap.Logger) *Notifier {
	return &Notifier{
		repo: repo,
		pub:  pub,
		log:  log.With(zap.String("service", "notifier")),
	}
}

// DispatchAsync detaches from the request context; the caller must not wait.
func (n *Notifier) DispatchAsync(notification *entity.Notification, routingKey string, event any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		n.dispatch(ctx, notification, routingKey, event)
	}()
}

func (n *Notifier) dispatch(ctx context.Context, notification *entity.Notification, routingKey string, event any) {
	// A nil notification means publish-only: the event still goes out but
	// no user is addressed, e.g. guest bookings.
	if notification != nil {
		if notification.ID == uuid.Nil {
			notification.ID = uuid.New()
		}
		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = time.Now()
		}

		if err := n.repo.Notification.Create(ctx, notification); err != nil {
			n.log.Warn("Failed to store notification",
				zap.Error(err),
				zap.String("user_id", notification.UserID.String()),
				zap.String("type", string(notification.Type)),
			)
			metrics.NotificationFailures.Inc()
		}
	}

	if n.pub == nil || routingKey == "" {
		return
	}

	if err := n.pub.PublishJSON(ctx, routingKey, event); err != nil {
		n.log.Warn("Failed to publish domain event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
		)
		metrics.NotificationFailures.Inc()
	}
}
