package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new document row. Documents are never updated in
// place; a re-upload produces a new row.
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (
			request_id, category, locator, filename,
			content_hash, review_status, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.RequestID,
		doc.Category.String(),
		doc.Locator,
		doc.Filename,
		doc.ContentHash,
		doc.ReviewStatus,
		doc.UploadedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	doc.ID = id
	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id int64) (*entity.Document, error) {
	query := `SELECT id, request_id, category, locator, filename, content_hash, review_status, uploaded_at
		FROM documents WHERE id = ?`

	var doc entity.Document
	var category string
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.RequestID,
		&category,
		&doc.Locator,
		&doc.Filename,
		&doc.ContentHash,
		&doc.ReviewStatus,
		&doc.UploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.Category = entity.DocumentCategory(category)
	return &doc, nil
}

// GetByRequestID retrieves all documents for a request
func (r *DocumentRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Document, error) {
	query := `SELECT id, request_id, category, locator, filename, content_hash, review_status, uploaded_at
		FROM documents WHERE request_id = ? ORDER BY uploaded_at ASC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get documents by request ID", zap.Int64("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var doc entity.Document
		var category string
		err := rows.Scan(
			&doc.ID,
			&doc.RequestID,
			&category,
			&doc.Locator,
			&doc.Filename,
			&doc.ContentHash,
			&doc.ReviewStatus,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Category = entity.DocumentCategory(category)
		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
