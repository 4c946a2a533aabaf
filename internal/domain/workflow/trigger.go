package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerReceiveQuote   Trigger = "RECEIVE_QUOTE"
	TriggerSelectQuote    Trigger = "SELECT_QUOTE"
	TriggerSignContract   Trigger = "SIGN_CONTRACT"
	TriggerReceiveInvoice Trigger = "RECEIVE_INVOICE"
	TriggerAcceptDelivery Trigger = "ACCEPT_DELIVERY"
	TriggerComplete       Trigger = "COMPLETE"
)

// triggerFor maps each state to the trigger of its single incoming edge.
// The chain is linear, so the mapping is one-to-one.
var triggerFor = map[State]Trigger{
	StateSupplierInteraction: TriggerReceiveQuote,
	StateSelection:           TriggerSelectQuote,
	StateContracting:         TriggerSignContract,
	StateInstallation:        TriggerReceiveInvoice,
	StateTechnicalAcceptance: TriggerAcceptDelivery,
	StateCompleted:           TriggerComplete,
}

// TriggerFor returns the trigger whose edge lands on target, if any.
// QUOTATION is the initial state and has no incoming edge.
func TriggerFor(target State) (Trigger, bool) {
	t, ok := triggerFor[target]
	return t, ok
}

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
