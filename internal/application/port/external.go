package port

import "context"

// NotificationChannel is a fire-and-forget sink for human-readable messages.
// Implementations must not be relied on for delivery guarantees.
type NotificationChannel interface {
	// Name identifies the channel in logs
	Name() string

	// Send emits a subject/body pair to the recipient (address or URL)
	Send(ctx context.Context, recipient, subject, body string) error
}

// FileStore stores opaque document content and hands back a locator
type FileStore interface {
	// Save writes content and returns an opaque locator for later retrieval
	Save(content []byte, originalName string) (string, error)

	// Fetch reads content by locator
	Fetch(locator string) ([]byte, error)

	// Delete removes content by locator. Deleting a missing locator is
	// not an error.
	Delete(locator string) error
}

// Actor is the resolved identity of a caller
type Actor struct {
	ID   int64
	Role string
}
