package workflow

import (
	domainwf "github.com/rcamargo/equiptrack/internal/domain/workflow"
)

// BuildRequestStateMachine creates a state machine configured for the
// procurement workflow. The chain is strictly linear with no skips and
// no backward edges.
func BuildRequestStateMachine(initialState domainwf.State) domainwf.StateMachine {
	builder := domainwf.NewBuilder()

	builder.Configure(domainwf.StateQuotation).
		Permit(domainwf.TriggerReceiveQuote, domainwf.StateSupplierInteraction)

	builder.Configure(domainwf.StateSupplierInteraction).
		Permit(domainwf.TriggerSelectQuote, domainwf.StateSelection)

	builder.Configure(domainwf.StateSelection).
		Permit(domainwf.TriggerSignContract, domainwf.StateContracting)

	builder.Configure(domainwf.StateContracting).
		Permit(domainwf.TriggerReceiveInvoice, domainwf.StateInstallation)

	builder.Configure(domainwf.StateInstallation).
		Permit(domainwf.TriggerAcceptDelivery, domainwf.StateTechnicalAcceptance)

	builder.Configure(domainwf.StateTechnicalAcceptance).
		Permit(domainwf.TriggerComplete, domainwf.StateCompleted)

	// COMPLETED is terminal - no outgoing transitions

	return builder.Build(initialState)
}
