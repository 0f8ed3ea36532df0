package entity

import "time"

// Company represents a client organization of the prep center (tenant).
type Company struct {
	ID        string
	Name      string
	VATNumber string
	Address   string
	Country   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
