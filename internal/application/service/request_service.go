package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// IntegrationSummary aggregates workload counters for dashboards
type IntegrationSummary struct {
	TotalRequests  int64             `json:"total_requests"`
	OpenRequests   int64             `json:"open_requests"`
	TotalMachines  int64             `json:"total_machines"`
	ActiveMachines int64             `json:"active_machines"`
	RecentRequests []*entity.Request `json:"recent_requests"`
}

// RequestService manages procurement requests outside the transition path
type RequestService interface {
	CreateRequest(ctx context.Context, description, clientID string, machineID *int64, actor *port.Actor) (*entity.Request, error)
	GetRequest(ctx context.Context, id int64) (*entity.Request, error)
	ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, error)
	UpdateContractDetails(ctx context.Context, id int64, expiration *time.Time, adjustmentMonth *int) (*entity.Request, error)
	GetHistory(ctx context.Context, id int64) ([]*entity.AuditLog, error)
	GetSummary(ctx context.Context) (*IntegrationSummary, error)
}

type requestServiceImpl struct {
	requestRepo port.RequestRepository
	machineRepo port.MachineRepository
	auditRepo   port.AuditLogRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo port.RequestRepository,
	machineRepo port.MachineRepository,
	auditRepo port.AuditLogRepository,
	txManager port.TransactionManager,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		machineRepo: machineRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateRequest opens a new request in the QUOTATION stage
func (s *requestServiceImpl) CreateRequest(ctx context.Context, description, clientID string, machineID *int64, actor *port.Actor) (*entity.Request, error) {
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}
	if clientID == "" {
		return nil, fmt.Errorf("client_id is required")
	}

	if machineID != nil {
		machine, err := s.machineRepo.GetByID(ctx, *machineID)
		if err != nil {
			return nil, fmt.Errorf("get machine: %w", err)
		}
		if machine == nil {
			return nil, ErrMachineNotFound
		}
	}

	request := &entity.Request{
		Description: description,
		ClientID:    clientID,
		Status:      workflow.StateQuotation.String(),
		MachineID:   machineID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, request); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		details, _ := json.Marshal(map[string]string{
			"status":    request.Status,
			"client_id": clientID,
		})
		log := &entity.AuditLog{
			Action:       entity.AuditActionCreateRequest,
			ResourceType: "request",
			ResourceID:   request.ID,
			Details:      string(details),
			Timestamp:    time.Now(),
		}
		if actor != nil {
			log.UserID = &actor.ID
		}

		if err := s.auditRepo.Create(txCtx, log); err != nil {
			return fmt.Errorf("create audit record: %w", err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create request", "error", err, "client_id", clientID)
		return nil, err
	}

	s.logger.Info("Request created", "id", request.ID, "client_id", clientID)
	return request, nil
}

// GetRequest retrieves a request by ID
func (s *requestServiceImpl) GetRequest(ctx context.Context, id int64) (*entity.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get request", "error", err, "id", id)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

// ListRequests retrieves a paginated list of requests
func (s *requestServiceImpl) ListRequests(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	requests, err := s.requestRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list requests", "error", err, "limit", limit, "offset", offset)
		return nil, err
	}
	return requests, nil
}

// UpdateContractDetails records contract expiration and adjustment month
func (s *requestServiceImpl) UpdateContractDetails(ctx context.Context, id int64, expiration *time.Time, adjustmentMonth *int) (*entity.Request, error) {
	if adjustmentMonth != nil && (*adjustmentMonth < 1 || *adjustmentMonth > 12) {
		return nil, fmt.Errorf("adjustment_month must be between 1 and 12")
	}

	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if err := s.requestRepo.UpdateContract(ctx, id, expiration, adjustmentMonth); err != nil {
		s.logger.Error("Failed to update contract details", "error", err, "id", id)
		return nil, err
	}

	request.ContractExpiration = expiration
	request.AdjustmentMonth = adjustmentMonth

	s.logger.Info("Contract details updated", "id", id)
	return request, nil
}

// GetHistory returns the audit trail for a request, oldest first
func (s *requestServiceImpl) GetHistory(ctx context.Context, id int64) ([]*entity.AuditLog, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	logs, err := s.auditRepo.GetByResource(ctx, "request", id)
	if err != nil {
		s.logger.Error("Failed to get request history", "error", err, "id", id)
		return nil, err
	}
	return logs, nil
}

// GetSummary aggregates counters over requests and machines
func (s *requestServiceImpl) GetSummary(ctx context.Context) (*IntegrationSummary, error) {
	total, err := s.requestRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}
	open, err := s.requestRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open requests: %w", err)
	}
	machines, err := s.machineRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count machines: %w", err)
	}
	active, err := s.machineRepo.CountByStatus(ctx, entity.MachineStatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active machines: %w", err)
	}
	recent, err := s.requestRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("list recent requests: %w", err)
	}

	return &IntegrationSummary{
		TotalRequests:  total,
		OpenRequests:   open,
		TotalMachines:  machines,
		ActiveMachines: active,
		RecentRequests: recent,
	}, nil
}
