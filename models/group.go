package models

import (
	"slices"
	"time"
)

// Group is a named collection of members sharing a monthly dues amount.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// MonthlyAmount is the expected dues amount per member and month.
	MonthlyAmount float64 `json:"monthlyAmount"`

	// Owner is the identifier of the user who created the group.
	// The owner is always a member.
	Owner string `json:"owner"`

	// Members holds the identifiers of every member, owner included.
	Members []string `json:"members"`

	Active     bool   `json:"active"`
	Regulation string `json:"regulation,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g Group) TableName() string {
	return "groups"
}

func (g Group) OwnerID() string {
	return g.Owner
}

// HasMember reports whether userID belongs to the group.
func (g Group) HasMember(userID string) bool {
	return g.Owner == userID || slices.Contains(g.Members, userID)
}
