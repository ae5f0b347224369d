package service

import (
	"fmt"

	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/internal/store"
)

// Expansions used by the read endpoints.
var (
	memberContact = query.Expansion{Path: "member", Select: []string{"name", "surname", "email", "phone"}}
	memberName    = query.Expansion{Path: "member", Select: []string{"name", "surname", "email"}}
	ownerName     = query.Expansion{Path: "owner", Select: []string{"name", "surname", "email"}}
	ownerContact  = query.Expansion{Path: "owner", Select: []string{"name", "surname", "email", "phone"}}
	membersName   = query.Expansion{Path: "members", Select: []string{"name", "surname", "email"}}
	membersFull   = query.Expansion{Path: "members", Select: []string{"name", "surname", "email", "phone"}}
	groupSummary  = query.Expansion{Path: "group", Select: []string{"name", "description"}}
	creatorName   = query.Expansion{Path: "createdBy", Select: []string{"name", "surname", "email"}}
)

// condition builds a filter on a field of c. It panics on unknown
// fields, which are programming errors.
func condition(c query.Collection, field string, op query.Operator, values ...any) query.Condition {
	f, ok := c.Field(field)
	if !ok {
		panic(fmt.Sprintf("collection %s has no field %q", c.Name, field))
	}
	return query.Condition{Field: f, Op: op, Values: values}
}

// sortBy parses a constant sort expression.
func sortBy(c query.Collection, expr string) []query.SortKey {
	keys, err := query.ParseSort(c, expr)
	if err != nil {
		panic(err)
	}
	return keys
}

var (
	cotisationsByPeriodDesc = sortBy(store.CotisationsCollection, "-year,-month")
	transactionsByDateDesc  = sortBy(store.TransactionsCollection, "-date")
)
