package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

type renewalRepo struct {
	port.RequestRepository
	expiring     []*entity.Request
	adjusting    []*entity.Request
	gotFrom      time.Time
	gotTo        time.Time
	gotMonths    []int
	expiringErr  error
	adjustingErr error
}

func (r *renewalRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Request, error) {
	r.gotFrom, r.gotTo = from, to
	return r.expiring, r.expiringErr
}

func (r *renewalRepo) ListByAdjustmentMonths(ctx context.Context, months []int) ([]*entity.Request, error) {
	r.gotMonths = months
	return r.adjusting, r.adjustingErr
}

func renewalRequest(id int64, expiration *time.Time) *entity.Request {
	return &entity.Request{ID: id, ClientID: "client", Status: "CONTRACTING", ContractExpiration: expiration}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestRenewalService_UpcomingRenewals(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	soon := datePtr(now.AddDate(0, 0, 5))
	later := datePtr(now.AddDate(0, 0, 20))

	repo := &renewalRepo{
		expiring: []*entity.Request{
			renewalRequest(2, later),
			renewalRequest(1, soon),
		},
		adjusting: []*entity.Request{
			renewalRequest(1, soon), // also expiring, must not appear twice
			renewalRequest(5, nil),
			renewalRequest(3, nil),
		},
	}

	svc := NewRenewalService(repo, nopLogger{})
	svc.(*renewalServiceImpl).now = func() time.Time { return now }

	requests, err := svc.UpcomingRenewals(context.Background())
	if err != nil {
		t.Fatalf("UpcomingRenewals() error = %v", err)
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	// Expiring first by date, then adjustment-only matches by id
	want := []int64{1, 2, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("result ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("result ids = %v, want %v", ids, want)
		}
	}

	if !repo.gotFrom.Equal(now) || !repo.gotTo.Equal(now.Add(30*24*time.Hour)) {
		t.Errorf("expiration window = [%v, %v], want 30 days from now", repo.gotFrom, repo.gotTo)
	}
	if len(repo.gotMonths) != 2 || repo.gotMonths[0] != 3 || repo.gotMonths[1] != 4 {
		t.Errorf("adjustment months = %v, want [3 4]", repo.gotMonths)
	}
}

func TestRenewalService_UpcomingRenewals_DecemberWrapsToJanuary(t *testing.T) {
	repo := &renewalRepo{}
	svc := NewRenewalService(repo, nopLogger{})
	svc.(*renewalServiceImpl).now = func() time.Time {
		return time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)
	}

	if _, err := svc.UpcomingRenewals(context.Background()); err != nil {
		t.Fatalf("UpcomingRenewals() error = %v", err)
	}
	if len(repo.gotMonths) != 2 || repo.gotMonths[0] != 12 || repo.gotMonths[1] != 1 {
		t.Errorf("adjustment months = %v, want [12 1]", repo.gotMonths)
	}
}

func TestRenewalService_UpcomingRenewals_Empty(t *testing.T) {
	svc := NewRenewalService(&renewalRepo{}, nopLogger{})

	requests, err := svc.UpcomingRenewals(context.Background())
	if err != nil {
		t.Fatalf("UpcomingRenewals() error = %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("result = %v, want empty", requests)
	}
}

func TestRenewalService_UpcomingRenewals_RepoError(t *testing.T) {
	repoErr := errors.New("db gone")
	svc := NewRenewalService(&renewalRepo{expiringErr: repoErr}, nopLogger{})

	if _, err := svc.UpcomingRenewals(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("UpcomingRenewals() error = %v, want %v", err, repoErr)
	}
}
