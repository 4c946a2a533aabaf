package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

// PartnerService manages supplier partners
type PartnerService interface {
	CreatePartner(ctx context.Context, name, contactInfo string) (*entity.Partner, error)
	GetPartner(ctx context.Context, id int64) (*entity.Partner, error)
	ListPartners(ctx context.Context, limit, offset int) ([]*entity.Partner, error)
}

type partnerServiceImpl struct {
	partnerRepo port.PartnerRepository
	logger      Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo port.PartnerRepository, logger Logger) PartnerService {
	return &partnerServiceImpl{
		partnerRepo: partnerRepo,
		logger:      logger,
	}
}

// CreatePartner registers a supplier
func (s *partnerServiceImpl) CreatePartner(ctx context.Context, name, contactInfo string) (*entity.Partner, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	partner := &entity.Partner{
		Name:        name,
		ContactInfo: contactInfo,
		CreatedAt:   time.Now(),
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		s.logger.Error("Failed to create partner", "error", err, "name", name)
		return nil, err
	}

	s.logger.Info("Partner created", "id", partner.ID, "name", name)
	return partner, nil
}

// GetPartner retrieves a partner by ID
func (s *partnerServiceImpl) GetPartner(ctx context.Context, id int64) (*entity.Partner, error) {
	partner, err := s.partnerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get partner", "error", err, "id", id)
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("partner not found")
	}
	return partner, nil
}

// ListPartners retrieves a paginated list of partners
func (s *partnerServiceImpl) ListPartners(ctx context.Context, limit, offset int) ([]*entity.Partner, error) {
	partners, err := s.partnerRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list partners", "error", err)
		return nil, err
	}
	return partners, nil
}
