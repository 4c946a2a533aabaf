package event

// Type identifies the type of domain event
type Type string

const (
	TypeStatusChanged    Type = "request.status_changed"
	TypeQuoteSubmitted   Type = "request.quote_submitted"
	TypeDocumentUploaded Type = "request.document_uploaded"
	TypeRequestCompleted Type = "request.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeStatusChanged,
		TypeQuoteSubmitted,
		TypeDocumentUploaded,
		TypeRequestCompleted:
		return true
	default:
		return false
	}
}
