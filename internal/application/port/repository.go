package port

import (
	"context"
	"time"

	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

// RequestRepository defines persistence operations for Request.
// Lookups return (nil, nil) when the row does not exist.
type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id int64) (*entity.Request, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Request, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Request, error)

	// UpdateStatus swaps the status only if the stored value still equals from.
	// Returns false when the row was concurrently moved away from `from`.
	UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error)

	SetSelectedQuote(ctx context.Context, id, quoteID int64) error
	UpdateContract(ctx context.Context, id int64, expiration *time.Time, adjustmentMonth *int) error

	// Renewal report queries
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Request, error)
	ListByAdjustmentMonths(ctx context.Context, months []int) ([]*entity.Request, error)

	Count(ctx context.Context) (int64, error)
	CountOpen(ctx context.Context) (int64, error)
}

// QuoteRepository defines persistence operations for Quote
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id int64) (*entity.Quote, error)
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Quote, error)
}

// DocumentRepository defines persistence operations for Document
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id int64) (*entity.Document, error)
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Document, error)
}

// MachineRepository defines persistence operations for Machine
type MachineRepository interface {
	Create(ctx context.Context, machine *entity.Machine) error
	GetByID(ctx context.Context, id int64) (*entity.Machine, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Machine, error)

	// Activate marks the machine ACTIVE and stamps its installation date
	Activate(ctx context.Context, id int64, installationDate time.Time) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// MaintenanceRepository defines persistence operations for Maintenance
type MaintenanceRepository interface {
	Create(ctx context.Context, m *entity.Maintenance) error
	GetByMachineID(ctx context.Context, machineID int64) ([]*entity.Maintenance, error)
}

// PartnerRepository defines persistence operations for Partner
type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id int64) (*entity.Partner, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Partner, error)
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuditLogRepository defines persistence operations for AuditLog.
// Entries are append-only; there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	GetByResource(ctx context.Context, resourceType string, resourceID int64) ([]*entity.AuditLog, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
