package workflow

// State represents a stage in the procurement request lifecycle
type State string

const (
	StateQuotation           State = "QUOTATION"
	StateSupplierInteraction State = "SUPPLIER_INTERACTION"
	StateSelection           State = "SELECTION"
	StateContracting         State = "CONTRACTING"
	StateInstallation        State = "INSTALLATION"
	StateTechnicalAcceptance State = "TECHNICAL_ACCEPTANCE"
	StateCompleted           State = "COMPLETED"
)

var validStates = map[State]bool{
	StateQuotation:           true,
	StateSupplierInteraction: true,
	StateSelection:           true,
	StateContracting:         true,
	StateInstallation:        true,
	StateTechnicalAcceptance: true,
	StateCompleted:           true,
}

// successor is the transition table: each non-terminal state has exactly
// one outgoing edge. COMPLETED has none.
var successor = map[State]State{
	StateQuotation:           StateSupplierInteraction,
	StateSupplierInteraction: StateSelection,
	StateSelection:           StateContracting,
	StateContracting:         StateInstallation,
	StateInstallation:        StateTechnicalAcceptance,
	StateTechnicalAcceptance: StateCompleted,
}

// SuccessorOf returns the single state reachable from s, if any.
func SuccessorOf(s State) (State, bool) {
	next, ok := successor[s]
	return next, ok
}

// CanTransition returns true iff target is the single legal successor of from.
func CanTransition(from, to State) bool {
	next, ok := successor[from]
	return ok && next == to
}

// IsTerminal returns true if the state has no outgoing transitions
func (s State) IsTerminal() bool {
	_, ok := successor[s]
	return !ok && s.IsValid()
}

// IsValid returns true if the state is a defined lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
