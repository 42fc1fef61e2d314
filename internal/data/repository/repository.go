package repository

import (
	"context"
	"errors"
	"fmt"

	"marketplace-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	Tenant       TenantRepository
	Session      SessionRepository
	Provider     ProviderRepository
	Service      ServiceRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Review       ReviewRepository
	Audit        AuditRepository
	Notification NotificationRepository
	Stats        StatsRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	r := build(db, log)
	r.db = db
	return r
}

func build(exec database.Executor, log *zap.Logger) *Repository {
	return &Repository{
		log:          log,
		Tenant:       NewTenantRepository(exec, log),
		Session:      NewSessionRepository(exec, log),
		Provider:     NewProviderRepository(exec, log),
		Service:      NewServiceRepository(exec, log),
		Booking:      NewBookingRepository(exec, log),
		Payment:      NewPaymentRepository(exec, log),
		Review:       NewReviewRepository(exec, log),
		Audit:        NewAuditRepository(exec, log),
		Notification: NewNotificationRepository(exec, log),
		Stats:        NewStatsRepository(exec, log),
	}
}

// InTx runs fn with a Repository bound to a single transaction. Rollback on
// error, commit otherwise. Not reentrant.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return errors.New("repository is already transaction-bound")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(build(tx, r.log)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
