package workflow

import (
	"context"

	"github.com/rcamargo/equiptrack/internal/application/port"
	domainwf "github.com/rcamargo/equiptrack/internal/domain/workflow"
)

// Engine orchestrates request status transitions
type Engine interface {
	// Advance fires a trigger against the request's current state.
	// Returns the previous and new states on success.
	Advance(ctx context.Context, requestID int64, trigger domainwf.Trigger, actor *port.Actor) (domainwf.State, domainwf.State, error)

	// AdvanceWith is Advance with an extra step executed inside the same
	// transaction as the status swap and the audit record. If fn fails,
	// the whole transition rolls back.
	AdvanceWith(ctx context.Context, requestID int64, trigger domainwf.Trigger, actor *port.Actor, fn func(txCtx context.Context) error) (domainwf.State, domainwf.State, error)

	// AdvanceTo moves the request to a target state if that is the
	// direct successor of its current state.
	AdvanceTo(ctx context.Context, requestID int64, target domainwf.State, actor *port.Actor) (domainwf.State, domainwf.State, error)

	// CurrentState returns the request's current state
	CurrentState(ctx context.Context, requestID int64) (domainwf.State, error)
}
