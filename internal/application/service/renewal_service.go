package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

// renewalWindow is how far ahead contract expirations count as upcoming
const renewalWindow = 30 * 24 * time.Hour

// RenewalService surfaces requests whose contracts need attention soon
type RenewalService interface {
	// UpcomingRenewals returns requests expiring within the renewal
	// window or carrying an adjustment month of this or next month.
	// Results are deduplicated and ordered by expiration date, then id.
	UpcomingRenewals(ctx context.Context) ([]*entity.Request, error)
}

type renewalServiceImpl struct {
	requestRepo port.RequestRepository
	logger      Logger
	now         func() time.Time
}

// NewRenewalService creates a new RenewalService
func NewRenewalService(requestRepo port.RequestRepository, logger Logger) RenewalService {
	return &renewalServiceImpl{
		requestRepo: requestRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// UpcomingRenewals returns the merged, deduplicated renewal set
func (s *renewalServiceImpl) UpcomingRenewals(ctx context.Context) ([]*entity.Request, error) {
	now := s.now()

	expiring, err := s.requestRepo.ListExpiringBetween(ctx, now, now.Add(renewalWindow))
	if err != nil {
		return nil, fmt.Errorf("list expiring requests: %w", err)
	}

	currentMonth := int(now.Month())
	nextMonth := currentMonth%12 + 1
	adjusting, err := s.requestRepo.ListByAdjustmentMonths(ctx, []int{currentMonth, nextMonth})
	if err != nil {
		return nil, fmt.Errorf("list adjusting requests: %w", err)
	}

	seen := make(map[int64]bool, len(expiring)+len(adjusting))
	merged := make([]*entity.Request, 0, len(expiring)+len(adjusting))
	for _, r := range append(expiring, adjusting...) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
	}

	// Expiring contracts first; requests matched only on adjustment
	// month have no expiration and sort last.
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i].ContractExpiration, merged[j].ContractExpiration
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		default:
			return merged[i].ID < merged[j].ID
		}
	})

	s.logger.Info("Upcoming renewals computed", "count", len(merged))
	return merged, nil
}
