package models

import (
	"fmt"
	"time"
)

// Cotisation is a member's dues payment for one calendar month.
// A member has at most one cotisation per (month, year).
type Cotisation struct {
	ID     string  `json:"id"`
	Member string  `json:"member"`
	Amount float64 `json:"amount"`
	Month  Month   `json:"month"`
	Year   int     `json:"year"`

	PaymentDate      time.Time     `json:"paymentDate"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	PaymentReference string        `json:"paymentReference,omitempty"`

	Status  CotisationStatus `json:"status"`
	Comment string           `json:"comment,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Cotisation) TableName() string {
	return "cotisations"
}

func (c Cotisation) OwnerID() string {
	return c.Member
}

// IsPending reports whether the cotisation is still open for edits.
func (c Cotisation) IsPending() bool {
	return c.Status == CotisationPending
}

// DuesDescription builds the companion ledger entry description,
// e.g. "Dues from Ada Lovelace for March 2024".
func DuesDescription(member User, month Month, year int) string {
	return fmt.Sprintf("Dues from %s for %s %d", member.FullName(), month, year)
}
