package entity

import "time"

// Quote represents a partner's priced bid against a request.
// Quotes are immutable once created.
type Quote struct {
	ID        int64     `json:"id"`
	RequestID int64     `json:"request_id"`
	PartnerID int64     `json:"partner_id"`
	Price     float64   `json:"price"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
