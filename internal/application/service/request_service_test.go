package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
)

// Shared fake extensions used by the request service tests.

func (r *memRequestRepo) Create(ctx context.Context, request *entity.Request) error {
	request.ID = 1
	r.request = request
	return nil
}

func (r *memRequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	if r.request == nil || offset > 0 {
		return nil, nil
	}
	return []*entity.Request{r.request}, nil
}

func (r *memRequestRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Request, error) {
	return r.List(ctx, limit, 0)
}

func (r *memRequestRepo) UpdateContract(ctx context.Context, id int64, expiration *time.Time, adjustmentMonth *int) error {
	if r.request == nil || r.request.ID != id {
		return errors.New("request not found")
	}
	r.request.ContractExpiration = expiration
	r.request.AdjustmentMonth = adjustmentMonth
	return nil
}

func (r *memRequestRepo) Count(ctx context.Context) (int64, error) {
	if r.request == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *memRequestRepo) CountOpen(ctx context.Context) (int64, error) {
	if r.request == nil || r.request.Status == "COMPLETED" {
		return 0, nil
	}
	return 1, nil
}

func (r *memAuditRepo) GetByResource(ctx context.Context, resourceType string, resourceID int64) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, l := range r.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memMachineRepo) Count(ctx context.Context) (int64, error) {
	if r.machine == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *memMachineRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	if r.machine == nil || r.machine.Status != status {
		return 0, nil
	}
	return 1, nil
}

type requestFixture struct {
	requests *memRequestRepo
	machines *memMachineRepo
	audits   *memAuditRepo
	svc      RequestService
}

func newRequestFixture() *requestFixture {
	f := &requestFixture{
		requests: &memRequestRepo{},
		machines: &memMachineRepo{},
		audits:   &memAuditRepo{},
	}
	f.svc = NewRequestService(f.requests, f.machines, f.audits, passthroughTx{}, nopLogger{})
	return f
}

func TestRequestService_CreateRequest(t *testing.T) {
	f := newRequestFixture()
	actor := &port.Actor{ID: 7, Role: entity.RoleAdmin}

	request, err := f.svc.CreateRequest(context.Background(), "industrial press", "client-9", nil, actor)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}

	if request.ID == 0 {
		t.Error("expected request ID to be assigned")
	}
	if request.Status != "QUOTATION" {
		t.Errorf("status = %v, want QUOTATION", request.Status)
	}

	if len(f.audits.logs) != 1 {
		t.Fatalf("audit count = %d, want 1", len(f.audits.logs))
	}
	log := f.audits.logs[0]
	if log.Action != entity.AuditActionCreateRequest {
		t.Errorf("audit action = %v, want %v", log.Action, entity.AuditActionCreateRequest)
	}
	if log.UserID == nil || *log.UserID != 7 {
		t.Errorf("audit user = %v, want 7", log.UserID)
	}
}

func TestRequestService_CreateRequest_Validation(t *testing.T) {
	f := newRequestFixture()

	tests := []struct {
		name        string
		description string
		clientID    string
	}{
		{"missing description", "", "client-9"},
		{"missing client", "industrial press", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreateRequest(context.Background(), tt.description, tt.clientID, nil, nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRequestService_CreateRequest_LinkedMachine(t *testing.T) {
	f := newRequestFixture()
	f.machines.machine = &entity.Machine{ID: 3, SerialNumber: "SN-1", Status: entity.MachineStatusMaintenance}
	machineID := int64(3)

	request, err := f.svc.CreateRequest(context.Background(), "replacement pump", "client-9", &machineID, nil)
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if request.MachineID == nil || *request.MachineID != 3 {
		t.Errorf("machine id = %v, want 3", request.MachineID)
	}

	missing := int64(99)
	if _, err := f.svc.CreateRequest(context.Background(), "x", "y", &missing, nil); !errors.Is(err, ErrMachineNotFound) {
		t.Errorf("CreateRequest() error = %v, want ErrMachineNotFound", err)
	}
}

func TestRequestService_GetRequest_NotFound(t *testing.T) {
	f := newRequestFixture()

	if _, err := f.svc.GetRequest(context.Background(), 42); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("GetRequest() error = %v, want ErrRequestNotFound", err)
	}
}

func TestRequestService_UpdateContractDetails(t *testing.T) {
	f := newRequestFixture()
	f.requests.request = &entity.Request{ID: 1, Status: "CONTRACTING", ClientID: "client-9"}

	expiration := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	month := 6

	request, err := f.svc.UpdateContractDetails(context.Background(), 1, &expiration, &month)
	if err != nil {
		t.Fatalf("UpdateContractDetails() error = %v", err)
	}
	if request.ContractExpiration == nil || !request.ContractExpiration.Equal(expiration) {
		t.Errorf("expiration = %v, want %v", request.ContractExpiration, expiration)
	}
	if request.AdjustmentMonth == nil || *request.AdjustmentMonth != 6 {
		t.Errorf("adjustment month = %v, want 6", request.AdjustmentMonth)
	}
}

func TestRequestService_UpdateContractDetails_InvalidMonth(t *testing.T) {
	f := newRequestFixture()
	f.requests.request = &entity.Request{ID: 1, Status: "CONTRACTING"}

	for _, month := range []int{0, 13, -1} {
		m := month
		if _, err := f.svc.UpdateContractDetails(context.Background(), 1, nil, &m); err == nil {
			t.Errorf("UpdateContractDetails(month=%d) expected error", month)
		}
	}
}

func TestRequestService_GetHistory(t *testing.T) {
	f := newRequestFixture()
	f.requests.request = &entity.Request{ID: 1, Status: "SELECTION"}
	f.audits.logs = []*entity.AuditLog{
		{ID: 1, Action: entity.AuditActionCreateRequest, ResourceType: "request", ResourceID: 1},
		{ID: 2, Action: entity.AuditActionAdvanceStatus, ResourceType: "request", ResourceID: 1},
		{ID: 3, Action: entity.AuditActionAdvanceStatus, ResourceType: "request", ResourceID: 2},
	}

	logs, err := f.svc.GetHistory(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("history count = %d, want 2", len(logs))
	}

	if _, err := f.svc.GetHistory(context.Background(), 99); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("GetHistory() error = %v, want ErrRequestNotFound", err)
	}
}

func TestRequestService_GetSummary(t *testing.T) {
	f := newRequestFixture()
	f.requests.request = &entity.Request{ID: 1, Status: "INSTALLATION", ClientID: "client-9"}
	f.machines.machine = &entity.Machine{ID: 3, Status: entity.MachineStatusActive}

	summary, err := f.svc.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}

	if summary.TotalRequests != 1 || summary.OpenRequests != 1 {
		t.Errorf("request counters = %d/%d, want 1/1", summary.TotalRequests, summary.OpenRequests)
	}
	if summary.TotalMachines != 1 || summary.ActiveMachines != 1 {
		t.Errorf("machine counters = %d/%d, want 1/1", summary.TotalMachines, summary.ActiveMachines)
	}
	if len(summary.RecentRequests) != 1 {
		t.Errorf("recent count = %d, want 1", len(summary.RecentRequests))
	}
}
