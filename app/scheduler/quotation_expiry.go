// Package scheduler runs background maintenance jobs alongside the API server
package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/pitline/pitline/models"
	"github.com/pitline/pitline/utils"
)

// QuotationExpiryScheduler periodically marks sent quotations whose validity
// window has passed as expired. Expired quotations can no longer be accepted
// or converted into job cards.
type QuotationExpiryScheduler struct {
	db       *gorm.DB
	logger   *log.Logger
	interval time.Duration
}

func NewQuotationExpiryScheduler(db *gorm.DB, logger *log.Logger, interval time.Duration) *QuotationExpiryScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}

	return &QuotationExpiryScheduler{
		db:       db,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *QuotationExpiryScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *QuotationExpiryScheduler) runOnce(ctx context.Context) {
	now := utils.UTCNow()

	res := s.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			[]models.QuotationStatus{models.QuotationStatusDraft, models.QuotationStatusSent}, now).
		Updates(map[string]any{
			"status":     models.QuotationStatusExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		s.logger.Printf("scheduler: quotation expiry sweep failed: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		s.logger.Printf("scheduler: expired %d quotations", res.RowsAffected)
	}
}
