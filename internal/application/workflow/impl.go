package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rcamargo/equiptrack/internal/application/dispatcher"
	"github.com/rcamargo/equiptrack/internal/application/port"
	"github.com/rcamargo/equiptrack/internal/domain/entity"
	"github.com/rcamargo/equiptrack/internal/domain/event"
	domainwf "github.com/rcamargo/equiptrack/internal/domain/workflow"
)

// Engine-level failures. Callers translate these to their own error space.
var (
	// ErrNotFound indicates the request does not exist
	ErrNotFound = errors.New("request not found")

	// ErrConflict indicates the status changed under us between the
	// legality check and the swap
	ErrConflict = errors.New("request status changed concurrently")
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	requestRepo port.RequestRepository
	auditRepo   port.AuditLogRepository
	txManager   port.TransactionManager
	dispatcher  dispatcher.Dispatcher
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	requestRepo port.RequestRepository,
	auditRepo port.AuditLogRepository,
	txManager port.TransactionManager,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Advance fires a trigger against the request's current state
func (e *engineImpl) Advance(ctx context.Context, requestID int64, trigger domainwf.Trigger, actor *port.Actor) (domainwf.State, domainwf.State, error) {
	return e.AdvanceWith(ctx, requestID, trigger, actor, nil)
}

// AdvanceWith fires a trigger and runs fn inside the transition transaction
func (e *engineImpl) AdvanceWith(ctx context.Context, requestID int64, trigger domainwf.Trigger, actor *port.Actor, fn func(txCtx context.Context) error) (domainwf.State, domainwf.State, error) {
	request, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch request: %w", err)
	}
	if request == nil {
		return "", "", ErrNotFound
	}

	previous := domainwf.State(request.Status)
	if !previous.IsValid() {
		return "", "", fmt.Errorf("%w: %s", domainwf.ErrInvalidState, request.Status)
	}

	machine := BuildRequestStateMachine(previous)
	if !machine.CanFire(trigger) {
		return "", "", fmt.Errorf("%w: trigger %s from state %s",
			domainwf.ErrInvalidTransition, trigger, previous)
	}

	if err := machine.Fire(ctx, trigger); err != nil {
		return "", "", fmt.Errorf("state machine fire failed: %w", err)
	}
	next := machine.State()

	// The status swap and the audit row commit or roll back together.
	// UpdateStatus is a compare-and-swap on the previous status, so a
	// racing transition loses here instead of double-applying.
	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		swapped, err := e.requestRepo.UpdateStatus(txCtx, requestID, previous.String(), next.String())
		if err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}
		if !swapped {
			return ErrConflict
		}

		if fn != nil {
			if err := fn(txCtx); err != nil {
				return err
			}
		}

		details, _ := json.Marshal(map[string]string{
			"previous_status": previous.String(),
			"new_status":      next.String(),
			"trigger":         trigger.String(),
		})

		log := &entity.AuditLog{
			Action:       entity.AuditActionAdvanceStatus,
			ResourceType: "request",
			ResourceID:   requestID,
			Details:      string(details),
			Timestamp:    time.Now(),
		}
		if actor != nil {
			log.UserID = &actor.ID
		}

		if err := e.auditRepo.Create(txCtx, log); err != nil {
			return fmt.Errorf("failed to create audit record: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", "", err
	}

	// Observers run strictly after commit; a slow or failing listener
	// cannot undo the transition.
	if e.dispatcher != nil {
		statusEvent := event.NewEvent(
			event.TypeStatusChanged,
			requestID,
			map[string]interface{}{
				"previous_status": previous.String(),
				"new_status":      next.String(),
				"trigger":         trigger.String(),
			},
		)
		e.dispatcher.DispatchAsync(ctx, statusEvent)
	}

	return previous, next, nil
}

// AdvanceTo moves the request to target if target is the direct successor
// of its current state
func (e *engineImpl) AdvanceTo(ctx context.Context, requestID int64, target domainwf.State, actor *port.Actor) (domainwf.State, domainwf.State, error) {
	trigger, ok := domainwf.TriggerFor(target)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", domainwf.ErrInvalidState, target)
	}
	return e.Advance(ctx, requestID, trigger, actor)
}

// CurrentState returns the request's current state
func (e *engineImpl) CurrentState(ctx context.Context, requestID int64) (domainwf.State, error) {
	request, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch request: %w", err)
	}
	if request == nil {
		return "", ErrNotFound
	}

	state := domainwf.State(request.Status)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: %s", domainwf.ErrInvalidState, request.Status)
	}
	return state, nil
}
