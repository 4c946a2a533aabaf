package entity

import "time"

// Machine operational statuses
const (
	MachineStatusActive       = "ACTIVE"
	MachineStatusMaintenance  = "MAINTENANCE"
	MachineStatusOutOfService = "OUT_OF_SERVICE"
)

// Machine represents a physical asset optionally linked to requests
type Machine struct {
	ID               int64      `json:"id"`
	SerialNumber     string     `json:"serial_number"`
	Model            string     `json:"model"`
	Brand            string     `json:"brand"`
	InstallationDate *time.Time `json:"installation_date,omitempty"`
	Status           string     `json:"status"`
	Location         string     `json:"location"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Maintenance represents a service log entry for a machine
type Maintenance struct {
	ID                  int64      `json:"id"`
	MachineID           int64      `json:"machine_id"`
	Date                time.Time  `json:"date"`
	Description         string     `json:"description"`
	Technician          string     `json:"technician"`
	Cost                *float64   `json:"cost,omitempty"`
	NextMaintenanceDate *time.Time `json:"next_maintenance_date,omitempty"`
}
