// Package worker runs the background jobs: expiring unpaid pending
// bookings past their payment window and sweeping dead sessions.
package worker

import (
	"context"
	"time"

	"marketplace-booking/internal/data/repository"
	"marketplace-booking/internal/usecase"
	"marketplace-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const expireBatchSize = 100

type Expirer struct {
	bookings usecase.BookingService
	sessions repository.SessionRepository
	cfg      utils.BookingConfig
	cron     *cron.Cron
	log      *zap.Logger
}

func NewExpirer(bookings usecase.BookingService, sessions repository.SessionRepository, cfg utils.BookingConfig, log *zap.Logger) *Expirer {
	return &Expirer{
		bookings: bookings,
		sessions: sessions,
		cfg:      cfg,
		cron:     cron.New(),
		log:      log.With(zap.String("worker", "expirer")),
	}
}

func (e *Expirer) Start() error {
	if _, err := e.cron.AddFunc(e.cfg.ExpireEvery, e.expireBookings); err != nil {
		return err
	}
	if _, err := e.cron.AddFunc("@hourly", e.cleanSessions); err != nil {
		return err
	}

	e.cron.Start()
	e.log.Info("Expiry worker started",
		zap.String("schedule", e.cfg.ExpireEvery),
		zap.Duration("payment_window", e.cfg.PaymentWindow),
	)
	return nil
}

// Stop waits for a running job to finish.
func (e *Expirer) Stop() {
	<-e.cron.Stop().Done()
	e.log.Info("Expiry worker stopped")
}

func (e *Expirer) expireBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired, err := e.bookings.ExpireStalePending(ctx, e.cfg.PaymentWindow, expireBatchSize)
	if err != nil {
		e.log.Error("Booking expiry run failed", zap.Error(err))
		return
	}
	if expired > 0 {
		e.log.Info("Booking expiry run finished", zap.Int("expired", expired))
	}
}

func (e *Expirer) cleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := e.sessions.CleanExpiredSessions(ctx)
	if err != nil {
		e.log.Error("Session cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		e.log.Info("Expired sessions removed", zap.Int64("count", removed))
	}
}
