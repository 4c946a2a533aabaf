package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// PartnerRepository implements port.PartnerRepository
type PartnerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *sql.DB, logger *zap.Logger) port.PartnerRepository {
	return &PartnerRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new partner
func (r *PartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	query := `INSERT INTO partners (name, contact_info, created_at) VALUES (?, ?, ?)`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		partner.Name,
		partner.ContactInfo,
		partner.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create partner", zap.Error(err))
		return fmt.Errorf("failed to create partner: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	partner.ID = id
	return nil
}

// GetByID retrieves a partner by ID
func (r *PartnerRepository) GetByID(ctx context.Context, id int64) (*entity.Partner, error) {
	query := `SELECT id, name, contact_info, created_at FROM partners WHERE id = ?`

	var partner entity.Partner
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&partner.ID,
		&partner.Name,
		&partner.ContactInfo,
		&partner.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get partner by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return &partner, nil
}

// List retrieves partners with pagination
func (r *PartnerRepository) List(ctx context.Context, limit, offset int) ([]*entity.Partner, error) {
	query := `SELECT id, name, contact_info, created_at FROM partners ORDER BY name ASC LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list partners", zap.Error(err))
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	var partners []*entity.Partner
	for rows.Next() {
		var partner entity.Partner
		err := rows.Scan(
			&partner.ID,
			&partner.Name,
			&partner.ContactInfo,
			&partner.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, &partner)
	}

	return partners, rows.Err()
}

// Verify interface compliance
var _ port.PartnerRepository = (*PartnerRepository)(nil)
