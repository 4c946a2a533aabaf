package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// QuoteRepository implements port.QuoteRepository
type QuoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *sql.DB, logger *zap.Logger) port.QuoteRepository {
	return &QuoteRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new quote
func (r *QuoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	query := `
		INSERT INTO quotes (request_id, partner_id, price, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		quote.RequestID,
		quote.PartnerID,
		quote.Price,
		quote.Details,
		quote.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create quote", zap.Error(err))
		return fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	quote.ID = id
	return nil
}

// GetByID retrieves a quote by ID
func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*entity.Quote, error) {
	query := `SELECT id, request_id, partner_id, price, details, created_at FROM quotes WHERE id = ?`

	var quote entity.Quote
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&quote.ID,
		&quote.RequestID,
		&quote.PartnerID,
		&quote.Price,
		&quote.Details,
		&quote.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get quote by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	return &quote, nil
}

// GetByRequestID retrieves all quotes for a request
func (r *QuoteRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Quote, error) {
	query := `SELECT id, request_id, partner_id, price, details, created_at
		FROM quotes WHERE request_id = ? ORDER BY created_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get quotes by request ID", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*entity.Quote
	for rows.Next() {
		var quote entity.Quote
		err := rows.Scan(
			&quote.ID,
			&quote.RequestID,
			&quote.PartnerID,
			&quote.Price,
			&quote.Details,
			&quote.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, &quote)
	}

	return quotes, rows.Err()
}

// Verify interface compliance
var _ port.QuoteRepository = (*QuoteRepository)(nil)
