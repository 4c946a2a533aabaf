package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/domain/workflow"
	"github.com/rcamargo/equiptrack/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

const requestColumns = `id, description, client_id, status, contract_expiration,
	adjustment_month, machine_id, selected_quote_id, created_at, updated_at`

// RequestRepository implements port.RequestRepository
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new request
func (r *RequestRepository) Create(ctx context.Context, request *entity.Request) error {
	query := `
		INSERT INTO requests (
			description, client_id, status, contract_expiration,
			adjustment_month, machine_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		request.Description,
		request.ClientID,
		request.Status,
		request.ContractExpiration,
		request.AdjustmentMonth,
		request.MachineID,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	request.ID = id
	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	request, err := scanRequest(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return request, nil
}

// List retrieves requests with pagination
func (r *RequestRepository) List(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryRequests(ctx, query, limit, offset)
}

// ListRecent retrieves the most recently created requests
func (r *RequestRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ORDER BY created_at DESC LIMIT ?`
	return r.queryRequests(ctx, query, limit)
}

// UpdateStatus swaps the status only if the stored value still equals from
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	query := `UPDATE requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		r.logger.Error("Failed to update status", zap.Int64("id", id), zap.String("status", to), zap.Error(err))
		return false, fmt.Errorf("failed to update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected == 1, nil
}

// SetSelectedQuote records the winning quote on the request
func (r *RequestRepository) SetSelectedQuote(ctx context.Context, id, quoteID int64) error {
	query := `UPDATE requests SET selected_quote_id = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, quoteID, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set selected quote", zap.Int64("id", id), zap.Int64("quote_id", quoteID), zap.Error(err))
		return fmt.Errorf("failed to set selected quote: %w", err)
	}

	return nil
}

// UpdateContract records contract expiration and adjustment month
func (r *RequestRepository) UpdateContract(ctx context.Context, id int64, expiration *time.Time, adjustmentMonth *int) error {
	query := `UPDATE requests SET contract_expiration = ?, adjustment_month = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, expiration, adjustmentMonth, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update contract details", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update contract details: %w", err)
	}

	return nil
}

// ListExpiringBetween returns requests whose contract expires in [from, to]
func (r *RequestRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE contract_expiration IS NOT NULL AND contract_expiration >= ? AND contract_expiration <= ?
		ORDER BY contract_expiration ASC, id ASC`
	return r.queryRequests(ctx, query, from, to)
}

// ListByAdjustmentMonths returns requests whose adjustment month is in months
func (r *RequestRepository) ListByAdjustmentMonths(ctx context.Context, months []int) ([]*entity.Request, error) {
	if len(months) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(months)), ",")
	query := `SELECT ` + requestColumns + ` FROM requests
		WHERE adjustment_month IN (` + placeholders + `) ORDER BY id ASC`

	args := make([]interface{}, len(months))
	for i, m := range months {
		args[i] = m
	}

	return r.queryRequests(ctx, query, args...)
}

// Count returns the total number of requests
func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM requests`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

// CountOpen returns the number of requests not yet completed
func (r *RequestRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requests WHERE status != ?`, workflow.StateCompleted.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open requests: %w", err)
	}
	return count, nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]*entity.Request, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query requests", zap.Error(err))
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*entity.Request, error) {
	var request entity.Request
	var expiration sql.NullTime
	var adjustmentMonth sql.NullInt64
	var machineID, selectedQuoteID sql.NullInt64

	err := row.Scan(
		&request.ID,
		&request.Description,
		&request.ClientID,
		&request.Status,
		&expiration,
		&adjustmentMonth,
		&machineID,
		&selectedQuoteID,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiration.Valid {
		request.ContractExpiration = &expiration.Time
	}
	if adjustmentMonth.Valid {
		m := int(adjustmentMonth.Int64)
		request.AdjustmentMonth = &m
	}
	if machineID.Valid {
		request.MachineID = &machineID.Int64
	}
	if selectedQuoteID.Valid {
		request.SelectedQuoteID = &selectedQuoteID.Int64
	}

	return &request, nil
}

// getExecutor returns the context's transaction when one is active,
// otherwise the bare connection
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx := sqlite.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
