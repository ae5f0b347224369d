package models

// Response is the success envelope returned by every JSON endpoint.
type Response struct {
	Success bool `json:"success"`

	// Count is set on list responses and holds the number of items
	// in Data.
	Count *int `json:"count,omitempty"`

	// Pagination is set on paginated list responses.
	Pagination *Pagination `json:"pagination,omitempty"`

	// Token is set by the authentication endpoints.
	Token string `json:"token,omitempty"`

	Data any `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`

	// Errors lists per-field validation failures.
	Errors []FieldError `json:"errors,omitempty"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination links to neighbouring pages of a list result.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// CotisationStats aggregates a cotisation report.
type CotisationStats struct {
	TotalCotisations int     `json:"totalCotisations"`
	TotalAmount      float64 `json:"totalAmount"`
	Confirmed        int     `json:"confirmed"`
	Pending          int     `json:"pending"`
	Rejected         int     `json:"rejected"`
}

// CategoryStats aggregates ledger entries of one category.
type CategoryStats struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// TransactionStats aggregates a ledger report. Balance is TotalInflow
// minus TotalOutflow.
type TransactionStats struct {
	TotalTransactions int                                   `json:"totalTransactions"`
	TotalInflow       float64                               `json:"totalInflow"`
	TotalOutflow      float64                               `json:"totalOutflow"`
	Balance           float64                               `json:"balance"`
	ByCategory        map[TransactionCategory]CategoryStats `json:"byCategory"`
}
