package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"go.uber.org/zap"
)

// MaintenanceRepository implements port.MaintenanceRepository
type MaintenanceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *sql.DB, logger *zap.Logger) port.MaintenanceRepository {
	return &MaintenanceRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new maintenance record
func (r *MaintenanceRepository) Create(ctx context.Context, m *entity.Maintenance) error {
	query := `
		INSERT INTO maintenance_logs (machine_id, date, description, technician, cost, next_maintenance_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		m.MachineID,
		m.Date,
		m.Description,
		m.Technician,
		m.Cost,
		m.NextMaintenanceDate,
	)
	if err != nil {
		r.logger.Error("Failed to create maintenance record", zap.Error(err))
		return fmt.Errorf("failed to create maintenance record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	m.ID = id
	return nil
}

// GetByMachineID retrieves maintenance records for a machine, newest first
func (r *MaintenanceRepository) GetByMachineID(ctx context.Context, machineID int64) ([]*entity.Maintenance, error) {
	query := `SELECT id, machine_id, date, description, technician, cost, next_maintenance_date
		FROM maintenance_logs WHERE machine_id = ? ORDER BY date DESC`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, machineID)
	if err != nil {
		r.logger.Error("Failed to get maintenance records", zap.Int64("machine_id", machineID), zap.Error(err))
		return nil, fmt.Errorf("failed to get maintenance records: %w", err)
	}
	defer rows.Close()

	var records []*entity.Maintenance
	for rows.Next() {
		var m entity.Maintenance
		var cost sql.NullFloat64
		var nextDate sql.NullTime

		err := rows.Scan(
			&m.ID,
			&m.MachineID,
			&m.Date,
			&m.Description,
			&m.Technician,
			&cost,
			&nextDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance record: %w", err)
		}

		if cost.Valid {
			m.Cost = &cost.Float64
		}
		if nextDate.Valid {
			m.NextMaintenanceDate = &nextDate.Time
		}

		records = append(records, &m)
	}

	return records, rows.Err()
}

// Verify interface compliance
var _ port.MaintenanceRepository = (*MaintenanceRepository)(nil)
