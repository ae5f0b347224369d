package store

import (
	"net/url"
	"testing"

	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCotisationsCollection_MonthFilterAcceptsNamesAndNumbers(t *testing.T) {
	for _, raw := range []string{"March", "march", "3"} {
		spec, err := query.Parse(CotisationsCollection, url.Values{"month": {raw}})
		require.NoError(t, err, raw)
		require.Len(t, spec.Conditions, 1)
		assert.Equal(t, []any{int64(3)}, spec.Conditions[0].Values)
	}
}

func TestCollections_EnumFiltersRejectUnknownValues(t *testing.T) {
	tests := []struct {
		name       string
		collection query.Collection
		params     url.Values
	}{
		{name: "cotisation status", collection: CotisationsCollection, params: url.Values{"status": {"Paid"}}},
		{name: "payment method", collection: CotisationsCollection, params: url.Values{"paymentMethod": {"Card"}}},
		{name: "month", collection: CotisationsCollection, params: url.Values{"month": {"13"}}},
		{name: "transaction type", collection: TransactionsCollection, params: url.Values{"type": {"Sideways"}}},
		{name: "category", collection: TransactionsCollection, params: url.Values{"category[in]": {"Dues,Salary"}}},
		{name: "role", collection: UsersCollection, params: url.Values{"role": {"root"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := query.Parse(tt.collection, tt.params)
			assert.ErrorIs(t, err, query.ErrInvalidValue)
		})
	}
}

func TestUsersCollection_HidesCredentials(t *testing.T) {
	for _, name := range []string{"password", "passwordHash", "resetPasswordToken", "resetPasswordExpire"} {
		_, ok := UsersCollection.Field(name)
		assert.False(t, ok, name)
	}
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, models.December, formatMonth(int64(12)))
	assert.Equal(t, "x", formatMonth("x"))
}
