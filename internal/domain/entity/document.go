package entity

import "time"

// DocumentCategory classifies an uploaded document
type DocumentCategory string

const (
	DocumentCategoryContract   DocumentCategory = "CONTRACT"
	DocumentCategoryInvoice    DocumentCategory = "INVOICE"
	DocumentCategoryAcceptance DocumentCategory = "ACCEPTANCE"
	DocumentCategoryOther      DocumentCategory = "OTHER"
)

// IsValid returns true if the category is one of the defined constants
func (c DocumentCategory) IsValid() bool {
	switch c {
	case DocumentCategoryContract, DocumentCategoryInvoice, DocumentCategoryAcceptance, DocumentCategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category
func (c DocumentCategory) String() string {
	return string(c)
}

// Document review statuses
const (
	ReviewStatusPending  = "PENDING"
	ReviewStatusApproved = "APPROVED"
	ReviewStatusRejected = "REJECTED"
)

// Document represents evidence attached to a request at a workflow stage.
// Rows are append-only; re-uploads create new rows.
type Document struct {
	ID           int64            `json:"id"`
	RequestID    int64            `json:"request_id"`
	Category     DocumentCategory `json:"category"`
	Locator      string           `json:"locator"`
	Filename     string           `json:"filename"`
	ContentHash  string           `json:"content_hash,omitempty"`
	ReviewStatus string           `json:"review_status"`
	UploadedAt   time.Time        `json:"uploaded_at"`
}
