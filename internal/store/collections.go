package store

import (
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/models"
)

// Collections exposed to the generic list endpoints. Only the fields
// listed here can be filtered, selected, sorted or expanded.
var (
	UsersCollection = query.Collection{
		Name:  "users",
		Table: "users",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindID},
			{Name: "name", Column: "name", Kind: query.KindString},
			{Name: "surname", Column: "surname", Kind: query.KindString},
			{Name: "email", Column: "email", Kind: query.KindString},
			{Name: "phone", Column: "phone", Kind: query.KindString},
			{Name: "address", Column: "address", Kind: query.KindString},
			{Name: "role", Column: "role", Kind: query.KindString, Parse: parseRole},
			{Name: "active", Column: "active", Kind: query.KindBool},
			{Name: "registeredAt", Column: "registered_at", Kind: query.KindTime},
			{Name: "createdAt", Column: "created_at", Kind: query.KindTime},
		},
		DefaultSort: "-createdAt",
	}

	GroupsCollection = query.Collection{
		Name:  "groups",
		Table: "groups",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindID},
			{Name: "name", Column: "name", Kind: query.KindString},
			{Name: "description", Column: "description", Kind: query.KindString},
			{Name: "monthlyAmount", Column: "monthly_amount", Kind: query.KindNumber},
			{Name: "owner", Column: "owner_id", Kind: query.KindID, Ref: &UsersCollection},
			{
				Name: "members",
				Kind: query.KindIDSet,
				Ref:  &UsersCollection,
				Join: &query.Join{
					Table:       "group_members",
					OwnerColumn: "group_id",
					RefColumn:   "user_id",
					OrderColumn: "added_at",
				},
			},
			{Name: "active", Column: "active", Kind: query.KindBool},
			{Name: "regulation", Column: "regulation", Kind: query.KindString},
			{Name: "createdAt", Column: "created_at", Kind: query.KindTime},
			{Name: "updatedAt", Column: "updated_at", Kind: query.KindTime},
		},
		DefaultSort: "-createdAt",
	}

	CotisationsCollection = query.Collection{
		Name:  "cotisations",
		Table: "cotisations",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindID},
			{Name: "member", Column: "member_id", Kind: query.KindID, Ref: &UsersCollection},
			{Name: "amount", Column: "amount", Kind: query.KindNumber},
			{Name: "month", Column: "month", Kind: query.KindInteger, Parse: parseMonth, Format: formatMonth},
			{Name: "year", Column: "year", Kind: query.KindInteger},
			{Name: "paymentDate", Column: "payment_date", Kind: query.KindTime},
			{Name: "paymentMethod", Column: "payment_method", Kind: query.KindString, Parse: parsePaymentMethod},
			{Name: "paymentReference", Column: "payment_reference", Kind: query.KindString},
			{Name: "status", Column: "status", Kind: query.KindString, Parse: parseCotisationStatus},
			{Name: "comment", Column: "comment", Kind: query.KindString},
			{Name: "createdAt", Column: "created_at", Kind: query.KindTime},
			{Name: "updatedAt", Column: "updated_at", Kind: query.KindTime},
		},
		DefaultSort: "-createdAt",
	}

	TransactionsCollection = query.Collection{
		Name:  "transactions",
		Table: "transactions",
		Fields: []query.Field{
			{Name: "id", Column: "id", Kind: query.KindID},
			{Name: "type", Column: "type", Kind: query.KindString, Parse: parseTransactionType},
			{Name: "amount", Column: "amount", Kind: query.KindNumber},
			{Name: "description", Column: "description", Kind: query.KindString},
			{Name: "date", Column: "transaction_date", Kind: query.KindTime},
			{Name: "category", Column: "category", Kind: query.KindString, Parse: parseTransactionCategory},
			{Name: "cotisation", Column: "cotisation_id", Kind: query.KindID, Ref: &CotisationsCollection},
			{Name: "member", Column: "member_id", Kind: query.KindID, Ref: &UsersCollection},
			{Name: "group", Column: "group_id", Kind: query.KindID, Ref: &GroupsCollection},
			{Name: "createdBy", Column: "created_by", Kind: query.KindID, Ref: &UsersCollection},
			{Name: "attachment", Column: "attachment", Kind: query.KindString},
			{Name: "status", Column: "status", Kind: query.KindString, Parse: parseTransactionStatus},
			{Name: "createdAt", Column: "created_at", Kind: query.KindTime},
			{Name: "updatedAt", Column: "updated_at", Kind: query.KindTime},
		},
		DefaultSort: "-createdAt",
	}
)

func parseMonth(raw string) (any, error) {
	m, err := models.ParseMonth(raw)
	if err != nil {
		return nil, err
	}
	return int64(m), nil
}

func formatMonth(v any) any {
	switch x := v.(type) {
	case int64:
		return models.Month(x)
	case int32:
		return models.Month(x)
	case int:
		return models.Month(x)
	}
	return v
}

func parseRole(raw string) (any, error) { return parseAs(models.ParseRole, raw) }

func parsePaymentMethod(raw string) (any, error) { return parseAs(models.ParsePaymentMethod, raw) }

func parseCotisationStatus(raw string) (any, error) {
	return parseAs(models.ParseCotisationStatus, raw)
}

func parseTransactionType(raw string) (any, error) {
	return parseAs(models.ParseTransactionType, raw)
}

func parseTransactionCategory(raw string) (any, error) {
	return parseAs(models.ParseTransactionCategory, raw)
}

func parseTransactionStatus(raw string) (any, error) {
	return parseAs(models.ParseTransactionStatus, raw)
}

// parseAs runs an enumeration parser and returns the plain string so the
// value binds as text.
func parseAs[T ~string](parse func(string) (T, error), raw string) (any, error) {
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return string(v), nil
}
