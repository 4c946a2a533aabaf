package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// AuditLogRepository implements port.AuditLogRepository
type AuditLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *sql.DB, logger *zap.Logger) port.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.Details,
		log.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create audit log", zap.Error(err))
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// GetByResource retrieves audit entries for a resource, oldest first
func (r *AuditLogRepository) GetByResource(ctx context.Context, resourceType string, resourceID int64) ([]*entity.AuditLog, error) {
	query := `SELECT id, user_id, action, resource_type, resource_id, details, timestamp
		FROM audit_logs WHERE resource_type = ? AND resource_id = ? ORDER BY timestamp ASC, id ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, resourceType, resourceID)
	if err != nil {
		r.logger.Error("Failed to get audit logs",
			zap.String("resource_type", resourceType),
			zap.Int64("resource_id", resourceID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.AuditLog
	for rows.Next() {
		var log entity.AuditLog
		var userID sql.NullInt64

		err := rows.Scan(
			&log.ID,
			&userID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.Details,
			&log.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		if userID.Valid {
			log.UserID = &userID.Int64
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// Verify interface compliance
var _ port.AuditLogRepository = (*AuditLogRepository)(nil)
