package validators

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/seguikro/cotisations/internal/utils"
	"github.com/seguikro/cotisations/models"
)

// Field name constants used to scope validation. They match the JSON
// names of the request payloads.
const (
	FieldName             = "name"
	FieldSurname          = "surname"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldPhone            = "phone"
	FieldAddress          = "address"
	FieldCurrentPassword  = "currentPassword"
	FieldNewPassword      = "newPassword"
	FieldToken            = "token"
	FieldAmount           = "amount"
	FieldMonth            = "month"
	FieldYear             = "year"
	FieldPaymentDate      = "paymentDate"
	FieldPaymentMethod    = "paymentMethod"
	FieldPaymentReference = "paymentReference"
	FieldComment          = "comment"
	FieldStatus           = "status"
	FieldMember           = "member"
	FieldDescription      = "description"
	FieldMonthlyAmount    = "monthlyAmount"
	FieldActive           = "active"
	FieldRegulation       = "regulation"
	FieldType             = "type"
	FieldDate             = "date"
	FieldCategory         = "category"
	FieldCotisation       = "cotisation"
	FieldGroup            = "group"
	FieldStartDate        = "startDate"
	FieldEndDate          = "endDate"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72 // bcrypt input limit
	minYear           = 2000
	maxYear           = 2100
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// RequestValidator implements [Validator] for every request payload of
// the API. Both value and pointer forms are accepted.
type RequestValidator struct{}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the dynamic type of obj. When fields is empty
// every rule of the payload runs, required fields included. Otherwise
// only the named fields are checked.
func (v *RequestValidator) Validate(_ context.Context, obj any, fields ...string) error {
	var c *checker
	switch value := obj.(type) {
	case models.RegisterRequest:
		c = validateRegister(value, fields)
	case *models.RegisterRequest:
		c = validateRegister(*value, fields)
	case models.LoginRequest:
		c = validateLogin(value, fields)
	case *models.LoginRequest:
		c = validateLogin(*value, fields)
	case models.ProfileUpdate:
		c = validateProfile(value, fields)
	case *models.ProfileUpdate:
		c = validateProfile(*value, fields)
	case models.PasswordChangeRequest:
		c = validatePasswordChange(value, fields)
	case *models.PasswordChangeRequest:
		c = validatePasswordChange(*value, fields)
	case models.ForgotPasswordRequest:
		c = validateForgotPassword(value, fields)
	case *models.ForgotPasswordRequest:
		c = validateForgotPassword(*value, fields)
	case models.ResetPasswordRequest:
		c = validateResetPassword(value, fields)
	case *models.ResetPasswordRequest:
		c = validateResetPassword(*value, fields)
	case models.CotisationRequest:
		c = validateCotisation(value, fields)
	case *models.CotisationRequest:
		c = validateCotisation(*value, fields)
	case models.CotisationStatusRequest:
		c = validateCotisationStatus(value, fields)
	case *models.CotisationStatusRequest:
		c = validateCotisationStatus(*value, fields)
	case models.CotisationReportRequest:
		c = validateCotisationReport(value, fields)
	case *models.CotisationReportRequest:
		c = validateCotisationReport(*value, fields)
	case models.GroupRequest:
		c = validateGroup(value, fields)
	case *models.GroupRequest:
		c = validateGroup(*value, fields)
	case models.TransactionRequest:
		c = validateTransaction(value, fields)
	case *models.TransactionRequest:
		c = validateTransaction(*value, fields)
	case models.TransactionReportRequest:
		c = validateTransactionReport(value, fields)
	case *models.TransactionReportRequest:
		c = validateTransactionReport(*value, fields)
	default:
		return ErrUnsupportedType
	}
	return c.err()
}

func validateRegister(r models.RegisterRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldName, func() { c.requiredText(FieldName, r.Name, 50) })
	c.check(FieldSurname, func() { c.requiredText(FieldSurname, r.Surname, 50) })
	c.check(FieldEmail, func() { c.email(r.Email) })
	c.check(FieldPassword, func() { c.password(FieldPassword, r.Password) })
	c.check(FieldPhone, func() { c.phone(r.Phone) })
	c.check(FieldAddress, func() { c.maxLen(FieldAddress, r.Address, 200) })
	return c
}

func validateLogin(r models.LoginRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldEmail, func() { c.required(FieldEmail, r.Email, "please provide an email and password") })
	c.check(FieldPassword, func() { c.required(FieldPassword, r.Password, "please provide an email and password") })
	return c
}

func validateProfile(r models.ProfileUpdate, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldName, func() {
		if r.Name != "" {
			c.maxLen(FieldName, r.Name, 50)
		}
	})
	c.check(FieldSurname, func() {
		if r.Surname != "" {
			c.maxLen(FieldSurname, r.Surname, 50)
		}
	})
	c.check(FieldPhone, func() {
		if r.Phone != "" {
			c.phone(r.Phone)
		}
	})
	c.check(FieldAddress, func() { c.maxLen(FieldAddress, r.Address, 200) })
	return c
}

func validatePasswordChange(r models.PasswordChangeRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldCurrentPassword, func() {
		c.required(FieldCurrentPassword, r.CurrentPassword, "current password is required")
	})
	c.check(FieldNewPassword, func() { c.password(FieldNewPassword, r.NewPassword) })
	return c
}

func validateForgotPassword(r models.ForgotPasswordRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldEmail, func() { c.email(r.Email) })
	return c
}

func validateResetPassword(r models.ResetPasswordRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldToken, func() { c.required(FieldToken, r.Token, "invalid token") })
	c.check(FieldPassword, func() { c.password(FieldPassword, r.Password) })
	return c
}

func validateCotisation(r models.CotisationRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldAmount, func() { c.amount(FieldAmount, r.Amount) })
	c.check(FieldMonth, func() { c.month(r.Month, true) })
	c.check(FieldYear, func() { c.year(r.Year, true) })
	c.check(FieldPaymentMethod, func() {
		checkEnum(c, FieldPaymentMethod, r.PaymentMethod, true, models.ParsePaymentMethod, "payment method")
	})
	c.check(FieldPaymentReference, func() {
		if r.PaymentReference != nil {
			c.maxLen(FieldPaymentReference, *r.PaymentReference, 100)
		}
	})
	c.check(FieldComment, func() {
		if r.Comment != nil {
			c.maxLen(FieldComment, *r.Comment, 500)
		}
	})
	return c
}

func validateCotisationStatus(r models.CotisationStatusRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldStatus, func() { checkEnum(c, FieldStatus, r.Status, true, models.ParseCotisationStatus, "status") })
	c.check(FieldComment, func() {
		if r.Comment != nil {
			c.maxLen(FieldComment, *r.Comment, 500)
		}
	})
	return c
}

func validateCotisationReport(r models.CotisationReportRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldMonth, func() { c.month(r.Month, false) })
	c.check(FieldYear, func() { c.year(r.Year, false) })
	c.check(FieldStatus, func() { checkEnum(c, FieldStatus, r.Status, false, models.ParseCotisationStatus, "status") })
	c.check(FieldMember, func() { c.optionalID(FieldMember, r.Member) })
	return c
}

func validateGroup(r models.GroupRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldName, func() { c.requiredText(FieldName, r.Name, 100) })
	c.check(FieldDescription, func() { c.requiredText(FieldDescription, r.Description, 500) })
	c.check(FieldMonthlyAmount, func() { c.amount(FieldMonthlyAmount, r.MonthlyAmount) })
	c.check(FieldRegulation, func() {
		if r.Regulation != nil {
			c.maxLen(FieldRegulation, *r.Regulation, 2000)
		}
	})
	return c
}

func validateTransaction(r models.TransactionRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldType, func() { checkEnum(c, FieldType, r.Type, true, models.ParseTransactionType, "transaction type") })
	c.check(FieldAmount, func() { c.amount(FieldAmount, r.Amount) })
	c.check(FieldDescription, func() { c.requiredText(FieldDescription, r.Description, 200) })
	c.check(FieldCategory, func() {
		checkEnum(c, FieldCategory, r.Category, true, models.ParseTransactionCategory, "category")
	})
	c.check(FieldStatus, func() { checkEnum(c, FieldStatus, r.Status, false, models.ParseTransactionStatus, "status") })
	c.check(FieldCotisation, func() { c.optionalIDPtr(FieldCotisation, r.Cotisation) })
	c.check(FieldMember, func() { c.optionalIDPtr(FieldMember, r.Member) })
	c.check(FieldGroup, func() { c.optionalIDPtr(FieldGroup, r.Group) })
	return c
}

func validateTransactionReport(r models.TransactionReportRequest, fields []string) *checker {
	c := newChecker(fields)
	c.check(FieldType, func() { checkEnum(c, FieldType, r.Type, false, models.ParseTransactionType, "transaction type") })
	c.check(FieldCategory, func() {
		checkEnum(c, FieldCategory, r.Category, false, models.ParseTransactionCategory, "category")
	})
	c.check(FieldGroup, func() { c.optionalID(FieldGroup, r.Group) })
	c.check(FieldEndDate, func() {
		if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
			c.add(FieldEndDate, "end date must not be before start date")
		}
	})
	return c
}

// Provided returns the names of the fields set in a partial update
// payload. Unsupported types yield nil.
func Provided(obj any) []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}

	switch r := obj.(type) {
	case models.CotisationRequest:
		add(r.Amount != nil, FieldAmount)
		add(r.Month != "", FieldMonth)
		add(r.Year != nil, FieldYear)
		add(r.PaymentMethod != "", FieldPaymentMethod)
		add(r.PaymentReference != nil, FieldPaymentReference)
		add(r.Comment != nil, FieldComment)
	case models.GroupRequest:
		add(r.Name != "", FieldName)
		add(r.Description != "", FieldDescription)
		add(r.MonthlyAmount != nil, FieldMonthlyAmount)
		add(r.Regulation != nil, FieldRegulation)
	case models.TransactionRequest:
		add(r.Type != "", FieldType)
		add(r.Amount != nil, FieldAmount)
		add(r.Description != "", FieldDescription)
		add(r.Category != "", FieldCategory)
		add(r.Status != "", FieldStatus)
		add(r.Cotisation != nil, FieldCotisation)
		add(r.Member != nil, FieldMember)
		add(r.Group != nil, FieldGroup)
	case models.ProfileUpdate:
		add(r.Name != "", FieldName)
		add(r.Surname != "", FieldSurname)
		add(r.Phone != "", FieldPhone)
		add(r.Address != "", FieldAddress)
	}
	return out
}

// checker accumulates field errors, running only the scoped checks.
type checker struct {
	scope  []string
	errors ValidationErrors
}

func newChecker(scope []string) *checker {
	return &checker{scope: scope}
}

func (c *checker) check(field string, fn func()) {
	if len(c.scope) == 0 || slices.Contains(c.scope, field) {
		fn()
	}
}

func (c *checker) add(field, message string) {
	c.errors = append(c.errors, models.FieldError{Field: field, Message: message})
}

func (c *checker) err() error {
	if len(c.errors) == 0 {
		return nil
	}
	return c.errors
}

func (c *checker) required(field, value, message string) bool {
	if strings.TrimSpace(value) == "" {
		c.add(field, message)
		return false
	}
	return true
}

func (c *checker) requiredText(field, value string, max int) {
	if c.required(field, value, fmt.Sprintf("please add a %s", field)) {
		c.maxLen(field, value, max)
	}
}

func (c *checker) maxLen(field, value string, max int) {
	if len([]rune(value)) > max {
		c.add(field, fmt.Sprintf("%s cannot be more than %d characters", field, max))
	}
}

func (c *checker) email(value string) {
	if !c.required(FieldEmail, value, "please add an email") {
		return
	}
	if !emailPattern.MatchString(value) {
		c.add(FieldEmail, "please add a valid email")
	}
}

func (c *checker) password(field, value string) {
	if len(value) < minPasswordLength {
		c.add(field, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		return
	}
	if len(value) > maxPasswordBytes {
		c.add(field, fmt.Sprintf("password cannot be more than %d bytes", maxPasswordBytes))
	}
}

func (c *checker) phone(value string) {
	if !phonePattern.MatchString(value) {
		c.add(FieldPhone, "please add a valid phone number (10 to 15 digits)")
	}
}

func (c *checker) amount(field string, value *float64) {
	switch {
	case value == nil:
		c.add(field, fmt.Sprintf("please add a %s", field))
	case *value < 0:
		c.add(field, fmt.Sprintf("%s cannot be negative", field))
	}
}

func (c *checker) month(value string, required bool) {
	if value == "" {
		if required {
			c.add(FieldMonth, "please add a month")
		}
		return
	}
	if _, err := models.ParseMonth(value); err != nil {
		c.add(FieldMonth, "month must be an English month name")
	}
}

func (c *checker) year(value *int, required bool) {
	if value == nil {
		if required {
			c.add(FieldYear, "please add a year")
		}
		return
	}
	if *value < minYear || *value > maxYear {
		c.add(FieldYear, fmt.Sprintf("year must be between %d and %d", minYear, maxYear))
	}
}

func (c *checker) optionalID(field, value string) {
	if value == "" {
		return
	}
	if !utils.IsUUID(value) {
		c.add(field, fmt.Sprintf("%s must be a valid identifier", field))
	}
}

func (c *checker) optionalIDPtr(field string, value *string) {
	if value != nil {
		c.optionalID(field, *value)
	}
}

func checkEnum[T any](c *checker, field, value string, required bool, parse func(string) (T, error), label string) {
	if value == "" {
		if required {
			c.add(field, fmt.Sprintf("please add a %s", label))
		}
		return
	}
	if _, err := parse(value); err != nil {
		c.add(field, fmt.Sprintf("invalid %s %q", label, value))
	}
}
