package models

import "time"

// Transaction is a ledger entry. Entries created alongside a cotisation
// carry its identifier in Cotisation and mirror its status.
type Transaction struct {
	ID          string              `json:"id"`
	Type        TransactionType     `json:"type"`
	Amount      float64             `json:"amount"`
	Description string              `json:"description"`
	Date        time.Time           `json:"date"`
	Category    TransactionCategory `json:"category"`

	// Cotisation, Member and Group are optional references.
	Cotisation *string `json:"cotisation,omitempty"`
	Member     *string `json:"member,omitempty"`
	Group      *string `json:"group,omitempty"`

	// CreatedBy is the user who recorded the entry.
	CreatedBy string `json:"createdBy"`

	// Attachment is the public URL of an uploaded receipt.
	Attachment *string `json:"attachment,omitempty"`

	Status TransactionStatus `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Transaction) TableName() string {
	return "transactions"
}

func (t Transaction) OwnerID() string {
	return t.CreatedBy
}

// Concerns reports whether userID recorded the entry or is the member
// the entry is about.
func (t Transaction) Concerns(userID string) bool {
	return t.CreatedBy == userID || (t.Member != nil && *t.Member == userID)
}
