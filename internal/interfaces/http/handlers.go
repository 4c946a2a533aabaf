package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/application/service"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/report"
)

// maxUploadSize bounds document uploads to 20 MiB
const maxUploadSize = 20 << 20

// Handlers contains all HTTP request handlers
type Handlers struct {
	requestService  service.RequestService
	workflowService service.WorkflowService
	machineService  service.MachineService
	partnerService  service.PartnerService
	renewalService  service.RenewalService
	reportWriter    *report.RenewalReportWriter
	logger          Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	requestService service.RequestService,
	workflowService service.WorkflowService,
	machineService service.MachineService,
	partnerService service.PartnerService,
	renewalService service.RenewalService,
	reportWriter *report.RenewalReportWriter,
	logger Logger,
) *Handlers {
	return &Handlers{
		requestService:  requestService,
		workflowService: workflowService,
		machineService:  machineService,
		partnerService:  partnerService,
		renewalService:  renewalService,
		reportWriter:    reportWriter,
		logger:          logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateRequestRequest is the payload for opening a request
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
	ClientID    string `json:"client_id" binding:"required"`
	MachineID   *int64 `json:"machine_id"`
}

// ContractDetailsRequest is the payload for contract metadata
type ContractDetailsRequest struct {
	ContractExpiration *string `json:"contract_expiration"` // YYYY-MM-DD
	AdjustmentMonth    *int    `json:"adjustment_month"`
}

// SubmitQuoteRequest is the payload for a partner bid
type SubmitQuoteRequest struct {
	PartnerID int64   `json:"partner_id" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
	Details   string  `json:"details"`
}

// SelectQuoteRequest is the payload for picking the winning bid
type SelectQuoteRequest struct {
	QuoteID int64 `json:"quote_id" binding:"required"`
}

// CreateMachineRequest is the payload for registering a machine
type CreateMachineRequest struct {
	SerialNumber string `json:"serial_number" binding:"required"`
	Model        string `json:"model"`
	Brand        string `json:"brand"`
	Location     string `json:"location"`
}

// LogMaintenanceRequest is the payload for a maintenance record
type LogMaintenanceRequest struct {
	Date                string   `json:"date" binding:"required"` // YYYY-MM-DD
	Description         string   `json:"description" binding:"required"`
	Technician          string   `json:"technician"`
	Cost                *float64 `json:"cost"`
	NextMaintenanceDate *string  `json:"next_maintenance_date"` // YYYY-MM-DD
}

// CreatePartnerRequest is the payload for registering a partner
type CreatePartnerRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contact_info"`
}

// ListQuery represents pagination query parameters
type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (q *ListQuery) normalize() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// CreateRequest handles POST /api/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), req.Description, req.ClientID, req.MachineID, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: request})
}

// ListRequests handles GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	q.normalize()

	requests, err := h.requestService.ListRequests(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// GetRequestHistory handles GET /api/requests/:id/history
func (h *Handlers) GetRequestHistory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	history, err := h.requestService.GetHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: history})
}

// UpdateContractDetails handles PUT /api/requests/:id/contract-details
func (h *Handlers) UpdateContractDetails(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req ContractDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	expiration, ok := h.parseOptionalDate(c, req.ContractExpiration)
	if !ok {
		return
	}

	request, err := h.requestService.UpdateContractDetails(c.Request.Context(), id, expiration, req.AdjustmentMonth)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// SubmitQuote handles POST /api/requests/:id/quotes
func (h *Handlers) SubmitQuote(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	quote, err := h.workflowService.SubmitQuote(c.Request.Context(), id, req.PartnerID, req.Price, req.Details, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: quote})
}

// ListQuotes handles GET /api/requests/:id/quotes
func (h *Handlers) ListQuotes(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	quotes, err := h.workflowService.ListQuotes(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: quotes})
}

// SelectQuote handles POST /api/requests/:id/select-quote
func (h *Handlers) SelectQuote(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req SelectQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	request, err := h.workflowService.SelectQuote(c.Request.Context(), id, req.QuoteID, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// UploadDocument handles POST /api/requests/:id/documents
func (h *Handlers) UploadDocument(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	category := entity.DocumentCategory(c.PostForm("category"))
	if !category.IsValid() {
		h.badRequest(c, "invalid document category")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.badRequest(c, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc, err := h.workflowService.HandleDocumentUpload(c.Request.Context(), id, category, fileHeader.Filename, content, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: doc})
}

// ListDocuments handles GET /api/requests/:id/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	docs, err := h.workflowService.ListDocuments(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: docs})
}

// DownloadDocument handles GET /api/documents/:id/download
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, content, err := h.workflowService.FetchDocument(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// CompleteRequest handles POST /api/requests/:id/complete
func (h *Handlers) CompleteRequest(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	request, err := h.workflowService.CompleteTechnicalAcceptance(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: request})
}

// CreateMachine handles POST /api/machines
func (h *Handlers) CreateMachine(c *gin.Context) {
	var req CreateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	machine, err := h.machineService.RegisterMachine(c.Request.Context(), req.SerialNumber, req.Model, req.Brand, req.Location)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: machine})
}

// ListMachines handles GET /api/machines
func (h *Handlers) ListMachines(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	q.normalize()

	machines, err := h.machineService.ListMachines(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: machines})
}

// GetMachine handles GET /api/machines/:id
func (h *Handlers) GetMachine(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	machine, err := h.machineService.GetMachine(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: machine})
}

// LogMaintenance handles POST /api/machines/:id/maintenance
func (h *Handlers) LogMaintenance(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req LogMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.badRequest(c, "invalid date format, expected YYYY-MM-DD")
		return
	}

	nextDate, ok := h.parseOptionalDate(c, req.NextMaintenanceDate)
	if !ok {
		return
	}

	record, err := h.machineService.LogMaintenance(c.Request.Context(), id, date, req.Description, req.Technician, req.Cost, nextDate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: record})
}

// GetMaintenanceHistory handles GET /api/machines/:id/maintenance
func (h *Handlers) GetMaintenanceHistory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	records, err := h.machineService.GetMaintenanceHistory(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// CreatePartner handles POST /api/partners
func (h *Handlers) CreatePartner(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req.Name, req.ContactInfo)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: partner})
}

// ListPartners handles GET /api/partners
func (h *Handlers) ListPartners(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}
	q.normalize()

	partners, err := h.partnerService.ListPartners(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: partners})
}

// GetPartner handles GET /api/partners/:id
func (h *Handlers) GetPartner(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.GetPartner(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: partner})
}

// ListRenewals handles GET /api/renewals
func (h *Handlers) ListRenewals(c *gin.Context) {
	renewals, err := h.renewalService.UpcomingRenewals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: renewals})
}

// RenewalReport handles GET /api/reports/renewals
func (h *Handlers) RenewalReport(c *gin.Context) {
	renewals, err := h.renewalService.UpcomingRenewals(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	content, err := h.reportWriter.Write(renewals, time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="upcoming_renewals.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// GetSummary handles GET /api/summary
func (h *Handlers) GetSummary(c *gin.Context) {
	summary, err := h.requestService.GetSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// parseID parses the :id path parameter
func (h *Handlers) parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// parseOptionalDate parses a nullable YYYY-MM-DD string
func (h *Handlers) parseOptionalDate(c *gin.Context, value *string) (*time.Time, bool) {
	if value == nil || *value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		h.badRequest(c, "invalid date format, expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrQuoteNotFound),
		errors.Is(err, service.ErrMachineNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrQuoteMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrInvalidStage):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// actorFrom resolves the caller from the X-User-ID header. Absent or
// malformed headers mean a system-originated call.
func actorFrom(c *gin.Context) *port.Actor {
	header := c.GetHeader("X-User-ID")
	if header == "" {
		return nil
	}
	id, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return nil
	}
	return &port.Actor{ID: id, Role: c.GetHeader("X-User-Role")}
}
