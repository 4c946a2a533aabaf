package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

// MachineService manages the installed equipment fleet
type MachineService interface {
	RegisterMachine(ctx context.Context, serialNumber, model, brand, location string) (*entity.Machine, error)
	GetMachine(ctx context.Context, id int64) (*entity.Machine, error)
	ListMachines(ctx context.Context, limit, offset int) ([]*entity.Machine, error)

	// LogMaintenance records a service visit against a machine
	LogMaintenance(ctx context.Context, machineID int64, date time.Time, description, technician string, cost *float64, nextDate *time.Time) (*entity.Maintenance, error)
	GetMaintenanceHistory(ctx context.Context, machineID int64) ([]*entity.Maintenance, error)
}

type machineServiceImpl struct {
	machineRepo     port.MachineRepository
	maintenanceRepo port.MaintenanceRepository
	logger          Logger
}

// NewMachineService creates a new MachineService
func NewMachineService(
	machineRepo port.MachineRepository,
	maintenanceRepo port.MaintenanceRepository,
	logger Logger,
) MachineService {
	return &machineServiceImpl{
		machineRepo:     machineRepo,
		maintenanceRepo: maintenanceRepo,
		logger:          logger,
	}
}

// RegisterMachine adds a machine to the fleet in MAINTENANCE status.
// It becomes ACTIVE when its procurement request completes.
func (s *machineServiceImpl) RegisterMachine(ctx context.Context, serialNumber, model, brand, location string) (*entity.Machine, error) {
	if serialNumber == "" {
		return nil, fmt.Errorf("serial_number is required")
	}

	machine := &entity.Machine{
		SerialNumber: serialNumber,
		Model:        model,
		Brand:        brand,
		Status:       entity.MachineStatusMaintenance,
		Location:     location,
		CreatedAt:    time.Now(),
	}

	if err := s.machineRepo.Create(ctx, machine); err != nil {
		s.logger.Error("Failed to register machine", "error", err, "serial_number", serialNumber)
		return nil, err
	}

	s.logger.Info("Machine registered", "id", machine.ID, "serial_number", serialNumber)
	return machine, nil
}

// GetMachine retrieves a machine by ID
func (s *machineServiceImpl) GetMachine(ctx context.Context, id int64) (*entity.Machine, error) {
	machine, err := s.machineRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get machine", "error", err, "id", id)
		return nil, err
	}
	if machine == nil {
		return nil, ErrMachineNotFound
	}
	return machine, nil
}

// ListMachines retrieves a paginated list of machines
func (s *machineServiceImpl) ListMachines(ctx context.Context, limit, offset int) ([]*entity.Machine, error) {
	machines, err := s.machineRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list machines", "error", err)
		return nil, err
	}
	return machines, nil
}

// LogMaintenance records a service visit against a machine
func (s *machineServiceImpl) LogMaintenance(ctx context.Context, machineID int64, date time.Time, description, technician string, cost *float64, nextDate *time.Time) (*entity.Maintenance, error) {
	machine, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("get machine: %w", err)
	}
	if machine == nil {
		return nil, ErrMachineNotFound
	}

	m := &entity.Maintenance{
		MachineID:           machineID,
		Date:                date,
		Description:         description,
		Technician:          technician,
		Cost:                cost,
		NextMaintenanceDate: nextDate,
	}

	if err := s.maintenanceRepo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to log maintenance", "error", err, "machine_id", machineID)
		return nil, err
	}

	s.logger.Info("Maintenance logged", "id", m.ID, "machine_id", machineID)
	return m, nil
}

// GetMaintenanceHistory returns maintenance records for a machine
func (s *machineServiceImpl) GetMaintenanceHistory(ctx context.Context, machineID int64) ([]*entity.Maintenance, error) {
	machine, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return nil, fmt.Errorf("get machine: %w", err)
	}
	if machine == nil {
		return nil, ErrMachineNotFound
	}

	records, err := s.maintenanceRepo.GetByMachineID(ctx, machineID)
	if err != nil {
		s.logger.Error("Failed to get maintenance history", "error", err, "machine_id", machineID)
		return nil, err
	}
	return records, nil
}
