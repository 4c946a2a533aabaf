package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// MachineRepository implements port.MachineRepository
type MachineRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMachineRepository creates a new machine repository
func NewMachineRepository(db *sql.DB, logger *zap.Logger) port.MachineRepository {
	return &MachineRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new machine
func (r *MachineRepository) Create(ctx context.Context, machine *entity.Machine) error {
	query := `
		INSERT INTO machines (serial_number, model, brand, installation_date, status, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		machine.SerialNumber,
		machine.Model,
		machine.Brand,
		machine.InstallationDate,
		machine.Status,
		machine.Location,
		machine.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create machine", zap.Error(err))
		return fmt.Errorf("failed to create machine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	machine.ID = id
	return nil
}

// GetByID retrieves a machine by ID
func (r *MachineRepository) GetByID(ctx context.Context, id int64) (*entity.Machine, error) {
	query := `SELECT id, serial_number, model, brand, installation_date, status, location, created_at
		FROM machines WHERE id = ?`

	machine, err := scanMachine(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get machine by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get machine: %w", err)
	}

	return machine, nil
}

// List retrieves machines with pagination
func (r *MachineRepository) List(ctx context.Context, limit, offset int) ([]*entity.Machine, error) {
	query := `SELECT id, serial_number, model, brand, installation_date, status, location, created_at
		FROM machines ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list machines", zap.Error(err))
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	defer rows.Close()

	var machines []*entity.Machine
	for rows.Next() {
		machine, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", err)
		}
		machines = append(machines, machine)
	}

	return machines, rows.Err()
}

// Activate marks the machine ACTIVE and stamps its installation date
func (r *MachineRepository) Activate(ctx context.Context, id int64, installationDate time.Time) error {
	query := `UPDATE machines SET status = ?, installation_date = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entity.MachineStatusActive, installationDate, id)
	if err != nil {
		r.logger.Error("Failed to activate machine", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to activate machine: %w", err)
	}

	return nil
}

// Count returns the total number of machines
func (r *MachineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM machines`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count machines: %w", err)
	}
	return count, nil
}

// CountByStatus returns the number of machines in a given status
func (r *MachineRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := getExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM machines WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count machines by status: %w", err)
	}
	return count, nil
}

func scanMachine(row rowScanner) (*entity.Machine, error) {
	var machine entity.Machine
	var installationDate sql.NullTime

	err := row.Scan(
		&machine.ID,
		&machine.SerialNumber,
		&machine.Model,
		&machine.Brand,
		&installationDate,
		&machine.Status,
		&machine.Location,
		&machine.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if installationDate.Valid {
		machine.InstallationDate = &installationDate.Time
	}

	return &machine, nil
}

// Verify interface compliance
var _ port.MachineRepository = (*MachineRepository)(nil)
