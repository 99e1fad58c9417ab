// Package catalog manages products, coupons, promotions, campaigns and the
// settings record.
package catalog

import (
	"time"

	"pos_core/internal/pos"

	"go.uber.org/zap"
)

type Service struct {
	store  *pos.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store *pos.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger.Named("catalog"),
		now:    time.Now,
	}
}

// parseDate accepts a calendar date (YYYY-MM-DD, read as UTC midnight) or an
// RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, pos.Validation(pos.ErrInvalidDate, "start date %q", start)
	}
	to, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, pos.Validation(pos.ErrInvalidDate, "end date %q", end)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, pos.Validation(pos.ErrInvalidDateRange, "")
	}
	return from, to, nil
}
