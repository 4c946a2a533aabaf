package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

type memPartnerRepo struct {
	partners  map[int64]*entity.Partner
	nextID    int64
	createErr error
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{partners: make(map[int64]*entity.Partner), nextID: 1}
}

func (r *memPartnerRepo) Create(ctx context.Context, partner *entity.Partner) error {
	if r.createErr != nil {
		return r.createErr
	}
	partner.ID = r.nextID
	r.nextID++
	r.partners[partner.ID] = partner
	return nil
}

func (r *memPartnerRepo) GetByID(ctx context.Context, id int64) (*entity.Partner, error) {
	return r.partners[id], nil
}

func (r *memPartnerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Partner, error) {
	var out []*entity.Partner
	for id := int64(1); id < r.nextID; id++ {
		if p, ok := r.partners[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestPartnerService_CreatePartner(t *testing.T) {
	repo := newMemPartnerRepo()
	svc := NewPartnerService(repo, nopLogger{})

	partner, err := svc.CreatePartner(context.Background(), "Acme Supply", "sales@acme.test")
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}
	if partner.ID == 0 {
		t.Error("CreatePartner() did not assign an ID")
	}
	if partner.Name != "Acme Supply" {
		t.Errorf("Name = %q, want %q", partner.Name, "Acme Supply")
	}
}

func TestPartnerService_CreatePartner_EmptyName(t *testing.T) {
	svc := NewPartnerService(newMemPartnerRepo(), nopLogger{})

	if _, err := svc.CreatePartner(context.Background(), "", "sales@acme.test"); err == nil {
		t.Fatal("CreatePartner() with empty name should fail")
	}
}

func TestPartnerService_CreatePartner_RepoError(t *testing.T) {
	repo := newMemPartnerRepo()
	repo.createErr = errors.New("disk full")
	svc := NewPartnerService(repo, nopLogger{})

	if _, err := svc.CreatePartner(context.Background(), "Acme Supply", ""); err == nil {
		t.Fatal("CreatePartner() should surface repository errors")
	}
}

func TestPartnerService_GetPartner(t *testing.T) {
	repo := newMemPartnerRepo()
	svc := NewPartnerService(repo, nopLogger{})

	created, err := svc.CreatePartner(context.Background(), "Acme Supply", "")
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}

	got, err := svc.GetPartner(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetPartner() error = %v", err)
	}
	if got.Name != "Acme Supply" {
		t.Errorf("Name = %q, want %q", got.Name, "Acme Supply")
	}

	if _, err := svc.GetPartner(context.Background(), 999); err == nil {
		t.Error("GetPartner() for a missing partner should fail")
	}
}

func TestPartnerService_ListPartners(t *testing.T) {
	repo := newMemPartnerRepo()
	svc := NewPartnerService(repo, nopLogger{})

	for _, name := range []string{"Acme Supply", "Globex", "Initech"} {
		if _, err := svc.CreatePartner(context.Background(), name, ""); err != nil {
			t.Fatalf("CreatePartner(%q) error = %v", name, err)
		}
	}

	partners, err := svc.ListPartners(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListPartners() error = %v", err)
	}
	if len(partners) != 3 {
		t.Fatalf("ListPartners() returned %d partners, want 3", len(partners))
	}
}
