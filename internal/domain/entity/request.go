package entity

import "time"

// Request represents one end-to-end procurement case moving through the workflow
type Request struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	ClientID    string `json:"client_id"`
	Status      string `json:"status"`

	// Contract related fields
	ContractExpiration *time.Time `json:"contract_expiration,omitempty"`
	AdjustmentMonth    *int       `json:"adjustment_month,omitempty"` // 1-12
	MachineID          *int64     `json:"machine_id,omitempty"`
	SelectedQuoteID    *int64     `json:"selected_quote_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
