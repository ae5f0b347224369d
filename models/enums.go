package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownEnumValue is returned when a wire value does not belong
// to the closed set of an enumeration.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// Role is the authorization role of a user account.
type Role string

const (
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// Roles lists every accepted role value.
var Roles = []Role{RoleMember, RoleAdmin, RoleSuperAdmin}

// ParseRole converts a wire value into a [Role].
func ParseRole(s string) (Role, error) {
	return parseEnum(s, Roles)
}

// IsAdmin reports whether the role grants administrative rights.
// super-admin is a strict superset of admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

// PaymentMethod is the way a cotisation was paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCheck        PaymentMethod = "Check"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMobileMoney  PaymentMethod = "Mobile Money"
	PaymentOther        PaymentMethod = "Other"
)

var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCheck, PaymentBankTransfer, PaymentMobileMoney, PaymentOther}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum(s, PaymentMethods)
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return string(p), nil
}

// CotisationStatus is the review state of a cotisation.
type CotisationStatus string

const (
	CotisationPending   CotisationStatus = "Pending"
	CotisationConfirmed CotisationStatus = "Confirmed"
	CotisationRejected  CotisationStatus = "Rejected"
)

var CotisationStatuses = []CotisationStatus{CotisationPending, CotisationConfirmed, CotisationRejected}

func ParseCotisationStatus(s string) (CotisationStatus, error) {
	return parseEnum(s, CotisationStatuses)
}

func (s CotisationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// TransactionStatus returns the ledger status mirroring the cotisation
// review state: Confirmed becomes Completed, Rejected becomes Cancelled.
func (s CotisationStatus) TransactionStatus() TransactionStatus {
	switch s {
	case CotisationConfirmed:
		return TransactionCompleted
	case CotisationRejected:
		return TransactionCancelled
	default:
		return TransactionPending
	}
}

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionInflow  TransactionType = "Inflow"
	TransactionOutflow TransactionType = "Outflow"
)

var TransactionTypes = []TransactionType{TransactionInflow, TransactionOutflow}

func ParseTransactionType(s string) (TransactionType, error) {
	return parseEnum(s, TransactionTypes)
}

func (t TransactionType) Value() (driver.Value, error) {
	return string(t), nil
}

// TransactionCategory classifies a ledger entry.
type TransactionCategory string

const (
	CategoryDues           TransactionCategory = "Dues"
	CategoryDonation       TransactionCategory = "Donation"
	CategoryAdministrative TransactionCategory = "Administrative Expense"
	CategoryEvent          TransactionCategory = "Event"
	CategoryOther          TransactionCategory = "Other"
)

var TransactionCategories = []TransactionCategory{CategoryDues, CategoryDonation, CategoryAdministrative, CategoryEvent, CategoryOther}

func ParseTransactionCategory(s string) (TransactionCategory, error) {
	return parseEnum(s, TransactionCategories)
}

func (c TransactionCategory) Value() (driver.Value, error) {
	return string(c), nil
}

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionCompleted TransactionStatus = "Completed"
	TransactionCancelled TransactionStatus = "Cancelled"
)

var TransactionStatuses = []TransactionStatus{TransactionPending, TransactionCompleted, TransactionCancelled}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	return parseEnum(s, TransactionStatuses)
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Month is a calendar month. It is stored as 1..12 and travels on the
// wire as its English name.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ParseMonth accepts an English month name (case-insensitive) or its
// number 1..12.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	for i, name := range monthNames {
		if strings.EqualFold(name, s) {
			return Month(i + 1), nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil {
		if m := Month(n); m.Valid() {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: month %q", ErrUnknownEnumValue, s)
}

func (m Month) Valid() bool {
	return m >= January && m <= December
}

func (m Month) String() string {
	if !m.Valid() {
		return "Month(" + strconv.Itoa(int(m)) + ")"
	}
	return monthNames[m-1]
}

func (m Month) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: month %d", ErrUnknownEnumValue, int(m))
	}
	return json.Marshal(m.String())
}

func (m *Month) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed Month
	var err error
	switch v := raw.(type) {
	case string:
		parsed, err = ParseMonth(v)
	case float64:
		parsed, err = ParseMonth(strconv.Itoa(int(v)))
	default:
		err = fmt.Errorf("%w: month %s", ErrUnknownEnumValue, string(data))
	}
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

func (m Month) Value() (driver.Value, error) {
	return int64(m), nil
}

func parseEnum[T ~string](s string, allowed []T) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %q", ErrUnknownEnumValue, s)
}
