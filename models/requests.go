package models

import "time"

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate carries the self-editable profile fields. Empty fields
// are left unchanged.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// PasswordChangeRequest is the payload of PUT /auth/updatepassword.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ForgotPasswordRequest is the payload of POST /auth/forgotpassword.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest combines the token taken from the URL path and
// the new password from the body.
type ResetPasswordRequest struct {
	Token    string `json:"-"`
	Password string `json:"password"`
}

// CotisationRequest is used both to create and to edit a cotisation.
// Enumerations travel as strings and are checked by the validator.
type CotisationRequest struct {
	Member           string     `json:"member"`
	Amount           *float64   `json:"amount"`
	Month            string     `json:"month"`
	Year             *int       `json:"year"`
	PaymentDate      *time.Time `json:"paymentDate"`
	PaymentMethod    string     `json:"paymentMethod"`
	PaymentReference *string    `json:"paymentReference"`
	Comment          *string    `json:"comment"`
}

// CotisationStatusRequest is the payload of PATCH /cotisations/{id}/status.
type CotisationStatusRequest struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment"`
}

// CotisationReportRequest filters the cotisation report. Empty fields
// are ignored.
type CotisationReportRequest struct {
	Month  string `json:"month"`
	Year   *int   `json:"year"`
	Status string `json:"status"`
	Member string `json:"member"`
}

// GroupRequest is used both to create and to edit a group.
type GroupRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	MonthlyAmount *float64 `json:"monthlyAmount"`
	Active        *bool    `json:"active"`
	Regulation    *string  `json:"regulation"`
}

// TransactionRequest is used both to create and to edit a ledger entry.
type TransactionRequest struct {
	Type        string     `json:"type"`
	Amount      *float64   `json:"amount"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Category    string     `json:"category"`
	Cotisation  *string    `json:"cotisation"`
	Member      *string    `json:"member"`
	Group       *string    `json:"group"`
	Status      string     `json:"status"`
}

// TransactionPatch lists ledger columns to overwrite. Nil fields are
// left unchanged.
type TransactionPatch struct {
	Amount      *float64
	Description *string
	Status      *TransactionStatus
}

// TransactionReportRequest filters the ledger report. Empty fields
// are ignored.
type TransactionReportRequest struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Group     string     `json:"group"`
}

// PasswordResetEvent is published when a user asks for a password reset.
// ResetURL embeds the raw token and must only travel to the mailer.
type PasswordResetEvent struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetURL  string    `json:"resetUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}
