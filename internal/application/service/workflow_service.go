package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/dispatcher"
	"github.com/rcamargo/equiptrack/internal/application/port"
	wfengine "github.com/rcamargo/equiptrack/internal/application/workflow"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/domain/event"
	domainwf "github.com/rcamargo/equiptrack/internal/domain/workflow"
)

// documentAdvance maps a document category to the state its upload forces.
// Categories absent from the map never move the workflow.
var documentAdvance = map[entity.DocumentCategory]domainwf.State{
	entity.DocumentCategoryContract:   domainwf.StateContracting,
	entity.DocumentCategoryInvoice:    domainwf.StateInstallation,
	entity.DocumentCategoryAcceptance: domainwf.StateTechnicalAcceptance,
}

// WorkflowService executes the stage-specific commands of the
// procurement workflow. Every status change goes through the engine's
// legality check; nothing here writes the status column directly.
type WorkflowService interface {
	// SubmitQuote records a partner bid. The first quote moves the
	// request from QUOTATION to SUPPLIER_INTERACTION.
	SubmitQuote(ctx context.Context, requestID, partnerID int64, price float64, details string, actor *port.Actor) (*entity.Quote, error)

	// SelectQuote picks the winning bid and advances to SELECTION
	SelectQuote(ctx context.Context, requestID, quoteID int64, actor *port.Actor) (*entity.Request, error)

	// HandleDocumentUpload stores a document and applies its
	// category-mapped transition, if any
	HandleDocumentUpload(ctx context.Context, requestID int64, category entity.DocumentCategory, filename string, content []byte, actor *port.Actor) (*entity.Document, error)

	// CompleteTechnicalAcceptance closes the request and activates the
	// linked machine
	CompleteTechnicalAcceptance(ctx context.Context, requestID int64, actor *port.Actor) (*entity.Request, error)

	// ListQuotes returns the bids recorded against a request
	ListQuotes(ctx context.Context, requestID int64) ([]*entity.Quote, error)

	// ListDocuments returns the documents attached to a request
	ListDocuments(ctx context.Context, requestID int64) ([]*entity.Document, error)

	// FetchDocument returns a stored document and its content
	FetchDocument(ctx context.Context, documentID int64) (*entity.Document, []byte, error)
}

type workflowServiceImpl struct {
	engine      wfengine.Engine
	requestRepo port.RequestRepository
	quoteRepo   port.QuoteRepository
	docRepo     port.DocumentRepository
	machineRepo port.MachineRepository
	auditRepo   port.AuditLogRepository
	txManager   port.TransactionManager
	fileStore   port.FileStore
	dispatcher  dispatcher.Dispatcher
	logger      Logger
	now         func() time.Time
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	engine wfengine.Engine,
	requestRepo port.RequestRepository,
	quoteRepo port.QuoteRepository,
	docRepo port.DocumentRepository,
	machineRepo port.MachineRepository,
	auditRepo port.AuditLogRepository,
	txManager port.TransactionManager,
	fileStore port.FileStore,
	d dispatcher.Dispatcher,
	logger Logger,
) WorkflowService {
	return &workflowServiceImpl{
		engine:      engine,
		requestRepo: requestRepo,
		quoteRepo:   quoteRepo,
		docRepo:     docRepo,
		machineRepo: machineRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		fileStore:   fileStore,
		dispatcher:  d,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitQuote records a partner bid against the request
func (s *workflowServiceImpl) SubmitQuote(ctx context.Context, requestID, partnerID int64, price float64, details string, actor *port.Actor) (*entity.Quote, error) {
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	status := domainwf.State(request.Status)
	if status != domainwf.StateQuotation && status != domainwf.StateSupplierInteraction {
		return nil, fmt.Errorf("%w: cannot submit quote in %s", ErrInvalidStage, status)
	}

	quote := &entity.Quote{
		RequestID: requestID,
		PartnerID: partnerID,
		Price:     price,
		Details:   details,
		CreatedAt: s.now(),
	}

	storeQuote := func(txCtx context.Context) error {
		if err := s.quoteRepo.Create(txCtx, quote); err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return s.recordAudit(txCtx, actor, entity.AuditActionSubmitQuote, requestID, map[string]interface{}{
			"quote_id":   quote.ID,
			"partner_id": partnerID,
			"price":      price,
		})
	}

	if status == domainwf.StateQuotation {
		// Quote creation and the implicit advance commit together
		_, _, err = s.engine.AdvanceWith(ctx, requestID, domainwf.TriggerReceiveQuote, actor, storeQuote)
		if err != nil && (errors.Is(err, wfengine.ErrConflict) || errors.Is(err, domainwf.ErrInvalidTransition)) {
			// A racing quote won the advance; store this one without
			// moving the workflow, provided the stage still allows it.
			current, cerr := s.requestRepo.GetByID(ctx, requestID)
			if cerr != nil {
				return nil, fmt.Errorf("get request: %w", cerr)
			}
			if current == nil || domainwf.State(current.Status) != domainwf.StateSupplierInteraction {
				return nil, fmt.Errorf("%w: cannot submit quote in %s", ErrInvalidStage, current.Status)
			}
			err = s.txManager.WithTransaction(ctx, storeQuote)
		}
	} else {
		err = s.txManager.WithTransaction(ctx, storeQuote)
	}
	if err != nil {
		s.logger.Error("Failed to submit quote", "error", err, "request_id", requestID, "partner_id", partnerID)
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeQuoteSubmitted, requestID, map[string]interface{}{
			"quote_id":   quote.ID,
			"partner_id": partnerID,
		}))
	}

	s.logger.Info("Quote submitted", "request_id", requestID, "quote_id", quote.ID, "partner_id", partnerID)
	return quote, nil
}

// SelectQuote picks a quote and advances the request to SELECTION
func (s *workflowServiceImpl) SelectQuote(ctx context.Context, requestID, quoteID int64, actor *port.Actor) (*entity.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("get quote: %w", err)
	}
	if quote == nil {
		return nil, ErrQuoteNotFound
	}
	if quote.RequestID != requestID {
		return nil, ErrQuoteMismatch
	}

	_, next, err := s.engine.AdvanceWith(ctx, requestID, domainwf.TriggerSelectQuote, actor, func(txCtx context.Context) error {
		if err := s.requestRepo.SetSelectedQuote(txCtx, requestID, quoteID); err != nil {
			return fmt.Errorf("set selected quote: %w", err)
		}
		return s.recordAudit(txCtx, actor, entity.AuditActionSelectQuote, requestID, map[string]interface{}{
			"quote_id": quoteID,
		})
	})
	if err != nil {
		s.logger.Error("Failed to select quote", "error", err, "request_id", requestID, "quote_id", quoteID)
		return nil, s.translateEngineError(err)
	}

	request.Status = next.String()
	request.SelectedQuoteID = &quoteID

	s.logger.Info("Quote selected", "request_id", requestID, "quote_id", quoteID)
	return request, nil
}

// HandleDocumentUpload stores a document and applies its mapped transition
func (s *workflowServiceImpl) HandleDocumentUpload(ctx context.Context, requestID int64, category entity.DocumentCategory, filename string, content []byte, actor *port.Actor) (*entity.Document, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown document category: %s", category)
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	locator, err := s.fileStore.Save(content, filename)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	doc := &entity.Document{
		RequestID:    requestID,
		Category:     category,
		Locator:      locator,
		Filename:     filename,
		ContentHash:  contentHash(content),
		ReviewStatus: entity.ReviewStatusPending,
		UploadedAt:   s.now(),
	}

	target, drives := documentAdvance[category]
	if !drives {
		// OTHER never moves the workflow
		if err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			return s.docRepo.Create(txCtx, doc)
		}); err != nil {
			s.logger.Error("Failed to store document", "error", err, "request_id", requestID)
			s.discardBlob(locator, requestID)
			return nil, err
		}
	} else {
		// The document row and the forced transition commit together; an
		// upload at the wrong stage leaves no document behind.
		_, _, err = s.engine.AdvanceWith(ctx, requestID, mustTriggerFor(target), actor, func(txCtx context.Context) error {
			if err := s.docRepo.Create(txCtx, doc); err != nil {
				return fmt.Errorf("create document: %w", err)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("Failed to apply document transition", "error", err,
				"request_id", requestID, "category", category)
			s.discardBlob(locator, requestID)
			return nil, s.translateEngineError(err)
		}
	}

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeDocumentUploaded, requestID, map[string]interface{}{
			"document_id": doc.ID,
			"category":    category.String(),
		}))
	}

	s.logger.Info("Document uploaded", "request_id", requestID, "document_id", doc.ID, "category", category)
	return doc, nil
}

// CompleteTechnicalAcceptance closes the request and activates its machine
func (s *workflowServiceImpl) CompleteTechnicalAcceptance(ctx context.Context, requestID int64, actor *port.Actor) (*entity.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	var machine *entity.Machine
	if request.MachineID != nil {
		machine, err = s.machineRepo.GetByID(ctx, *request.MachineID)
		if err != nil {
			return nil, fmt.Errorf("get machine: %w", err)
		}
		if machine == nil {
			return nil, ErrMachineNotFound
		}
	}

	_, next, err := s.engine.AdvanceWith(ctx, requestID, domainwf.TriggerComplete, actor, func(txCtx context.Context) error {
		// Skip only machines already ACTIVE with an installation date;
		// an ACTIVE machine missing the date still gets stamped.
		if machine != nil && (machine.Status != entity.MachineStatusActive || machine.InstallationDate == nil) {
			if err := s.machineRepo.Activate(txCtx, machine.ID, s.now()); err != nil {
				return fmt.Errorf("activate machine: %w", err)
			}
		}
		details := map[string]interface{}{}
		if machine != nil {
			details["machine_id"] = machine.ID
		}
		return s.recordAudit(txCtx, actor, entity.AuditActionCompleteRequest, requestID, details)
	})
	if err != nil {
		s.logger.Error("Failed to complete request", "error", err, "request_id", requestID)
		return nil, s.translateEngineError(err)
	}

	request.Status = next.String()

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestCompleted, requestID, nil))
	}

	s.logger.Info("Request completed", "request_id", requestID)
	return request, nil
}

// ListQuotes returns the bids recorded against a request
func (s *workflowServiceImpl) ListQuotes(ctx context.Context, requestID int64) ([]*entity.Quote, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return s.quoteRepo.GetByRequestID(ctx, requestID)
}

// ListDocuments returns the documents attached to a request
func (s *workflowServiceImpl) ListDocuments(ctx context.Context, requestID int64) ([]*entity.Document, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return s.docRepo.GetByRequestID(ctx, requestID)
}

// FetchDocument returns a stored document and its content
func (s *workflowServiceImpl) FetchDocument(ctx context.Context, documentID int64) (*entity.Document, []byte, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, fmt.Errorf("get document: %w", err)
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("document not found")
	}

	content, err := s.fileStore.Fetch(doc.Locator)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch file: %w", err)
	}
	return doc, content, nil
}

// discardBlob removes stored content whose document row never committed
func (s *workflowServiceImpl) discardBlob(locator string, requestID int64) {
	if err := s.fileStore.Delete(locator); err != nil {
		s.logger.Error("Failed to discard stored file", "error", err,
			"locator", locator, "request_id", requestID)
	}
}

// recordAudit writes an audit row inside the caller's transaction
func (s *workflowServiceImpl) recordAudit(ctx context.Context, actor *port.Actor, action string, requestID int64, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	log := &entity.AuditLog{
		Action:       action,
		ResourceType: "request",
		ResourceID:   requestID,
		Details:      string(payload),
		Timestamp:    s.now(),
	}
	if actor != nil {
		log.UserID = &actor.ID
	}
	if err := s.auditRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("create audit record: %w", err)
	}
	return nil
}

// translateEngineError maps engine failures onto the service error space
func (s *workflowServiceImpl) translateEngineError(err error) error {
	switch {
	case errors.Is(err, wfengine.ErrNotFound):
		return ErrRequestNotFound
	case errors.Is(err, domainwf.ErrInvalidTransition), errors.Is(err, wfengine.ErrConflict):
		return fmt.Errorf("%w: %v", ErrIllegalTransition, err)
	default:
		return err
	}
}

// contentHash fingerprints uploaded bytes for the document record
func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// mustTriggerFor resolves the trigger whose target is known to be mapped
func mustTriggerFor(target domainwf.State) domainwf.Trigger {
	trigger, ok := domainwf.TriggerFor(target)
	if !ok {
		panic(fmt.Sprintf("no trigger for state %s", target))
	}
	return trigger
}
