package query

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userA = "01927a6e-7c1f-7000-8000-000000000001"
	userB = "01927a6e-7c1f-7000-8000-000000000002"
	userC = "01927a6e-7c1f-7000-8000-000000000003"
)

var testUsers = Collection{
	Name:  "users",
	Table: "users",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindID},
		{Name: "name", Column: "name", Kind: KindString},
		{Name: "email", Column: "email", Kind: KindString},
		{Name: "createdAt", Column: "created_at", Kind: KindTime},
	},
	DefaultSort: "-createdAt",
}

var testCotisations = Collection{
	Name:  "cotisations",
	Table: "cotisations",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindID},
		{Name: "member", Column: "member_id", Kind: KindID, Ref: &testUsers},
		{Name: "amount", Column: "amount", Kind: KindNumber},
		{Name: "year", Column: "year", Kind: KindInteger},
		{Name: "createdAt", Column: "created_at", Kind: KindTime},
	},
	DefaultSort: "-createdAt",
}

var testGroups = Collection{
	Name:  "groups",
	Table: "groups",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: KindID},
		{Name: "name", Column: "name", Kind: KindString},
		{Name: "active", Column: "active", Kind: KindBool},
		{
			Name: "members",
			Kind: KindIDSet,
			Ref:  &testUsers,
			Join: &Join{Table: "group_members", OwnerColumn: "group_id", RefColumn: "user_id", OrderColumn: "added_at"},
		},
	},
	DefaultSort: "name",
}

// ── Parse ──

func TestParse_Defaults(t *testing.T) {
	spec, err := Parse(testCotisations, url.Values{})
	require.NoError(t, err)

	assert.Empty(t, spec.Conditions)
	assert.Empty(t, spec.Select)
	assert.Empty(t, spec.Sort)
	assert.Equal(t, DefaultPage, spec.Page)
	assert.Equal(t, DefaultLimit, spec.Limit)
	assert.Equal(t, 0, spec.Skip())
}

func TestParse_ReservedKeysAreNotFilters(t *testing.T) {
	params := url.Values{
		"select": {"amount,year"},
		"sort":   {"-year"},
		"page":   {"3"},
		"limit":  {"20"},
	}

	spec, err := Parse(testCotisations, params)
	require.NoError(t, err)

	assert.Empty(t, spec.Conditions)
	assert.Equal(t, []string{"amount", "year"}, spec.Select)
	require.Len(t, spec.Sort, 1)
	assert.Equal(t, "year", spec.Sort[0].Field.Name)
	assert.True(t, spec.Sort[0].Desc)
	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 20, spec.Limit)
	assert.Equal(t, 40, spec.Skip())
}

func TestParse_Conditions(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		field  string
		op     Operator
		values []any
	}{
		{name: "equality", params: url.Values{"year": {"2024"}}, field: "year", op: OpEq, values: []any{int64(2024)}},
		{name: "gte", params: url.Values{"amount[gte]": {"10.5"}}, field: "amount", op: OpGte, values: []any{10.5}},
		{name: "lt", params: url.Values{"year[lt]": {"2030"}}, field: "year", op: OpLt, values: []any{int64(2030)}},
		{name: "in splits commas", params: url.Values{"year[in]": {"2023, 2024"}}, field: "year", op: OpIn, values: []any{int64(2023), int64(2024)}},
		{name: "repeated equality becomes in", params: url.Values{"year": {"2023", "2024"}}, field: "year", op: OpIn, values: []any{int64(2023), int64(2024)}},
		{name: "uuid reference", params: url.Values{"member": {userA}}, field: "member", op: OpEq, values: []any{userA}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(testCotisations, tt.params)
			require.NoError(t, err)
			require.Len(t, spec.Conditions, 1)

			cond := spec.Conditions[0]
			assert.Equal(t, tt.field, cond.Field.Name)
			assert.Equal(t, tt.op, cond.Op)
			assert.Equal(t, tt.values, cond.Values)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		collection Collection
		params     url.Values
		wantErr    error
	}{
		{name: "unknown field", collection: testCotisations, params: url.Values{"password": {"x"}}, wantErr: ErrUnknownField},
		{name: "operator-like field name", collection: testCotisations, params: url.Values{"gte": {"1"}}, wantErr: ErrUnknownField},
		{name: "unknown operator", collection: testCotisations, params: url.Values{"year[ne]": {"2024"}}, wantErr: ErrUnknownOperator},
		{name: "operator prefix only", collection: testCotisations, params: url.Values{"year[gtex]": {"2024"}}, wantErr: ErrUnknownOperator},
		{name: "malformed key", collection: testCotisations, params: url.Values{"year[gte": {"2024"}}, wantErr: ErrUnknownField},
		{name: "invalid integer", collection: testCotisations, params: url.Values{"year": {"abc"}}, wantErr: ErrInvalidValue},
		{name: "invalid uuid", collection: testCotisations, params: url.Values{"member": {"42"}}, wantErr: ErrInvalidValue},
		{name: "comparison on bool", collection: testGroups, params: url.Values{"active[gt]": {"true"}}, wantErr: ErrUnknownOperator},
		{name: "comparison on set", collection: testGroups, params: url.Values{"members[lt]": {userA}}, wantErr: ErrUnknownOperator},
		{name: "unknown select field", collection: testCotisations, params: url.Values{"select": {"amount,secret"}}, wantErr: ErrUnknownField},
		{name: "unknown sort field", collection: testCotisations, params: url.Values{"sort": {"-secret"}}, wantErr: ErrUnknownField},
		{name: "sort on set", collection: testGroups, params: url.Values{"sort": {"members"}}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.collection, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParse_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{name: "non numeric", page: "x", limit: "y", wantPage: 1, wantLimit: 10},
		{name: "non positive", page: "0", limit: "-5", wantPage: 1, wantLimit: 10},
		{name: "capped", page: "2", limit: "5000", wantPage: 2, wantLimit: MaxLimit},
		{name: "explicit", page: "4", limit: "25", wantPage: 4, wantLimit: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(testCotisations, url.Values{"page": {tt.page}, "limit": {tt.limit}})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, spec.Page)
			assert.Equal(t, tt.wantLimit, spec.Limit)
		})
	}
}

func TestParse_PageBeyondAddressableRange(t *testing.T) {
	_, err := Parse(testCotisations, url.Values{"page": {"922337203685477581"}, "limit": {"100"}})
	assert.ErrorIs(t, err, ErrInvalidValue)

	spec, err := Parse(testCotisations, url.Values{"page": {"92233720368547758"}, "limit": {"100"}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, spec.Skip(), 0)
}

func TestParseSort_MultipleKeys(t *testing.T) {
	keys, err := ParseSort(testCotisations, " -year , amount ")
	require.NoError(t, err)
	require.Len(t, keys, 2)

	assert.Equal(t, "year", keys[0].Field.Name)
	assert.True(t, keys[0].Desc)
	assert.Equal(t, "amount", keys[1].Field.Name)
	assert.False(t, keys[1].Desc)
}

// ── NewPage ──

func TestNewPage_Links(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		page     int
		limit    int
		wantNext bool
		wantPrev bool
	}{
		{name: "single page", total: 5, page: 1, limit: 10},
		{name: "first of many", total: 25, page: 1, limit: 10, wantNext: true},
		{name: "middle", total: 25, page: 2, limit: 10, wantNext: true, wantPrev: true},
		{name: "last", total: 25, page: 3, limit: 10, wantPrev: true},
		{name: "exact boundary", total: 20, page: 2, limit: 10, wantPrev: true},
		{name: "beyond the end", total: 5, page: 4, limit: 10, wantPrev: true},
		{name: "empty", total: 0, page: 1, limit: 10},
		{name: "huge page", total: 25, page: math.MaxInt / 100, limit: 100, wantPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(nil, tt.total, tt.page, tt.limit)

			assert.NotNil(t, p.Documents)
			assert.Equal(t, tt.total, p.Total)
			if tt.wantNext {
				require.NotNil(t, p.Pagination.Next)
				assert.Equal(t, tt.page+1, p.Pagination.Next.Page)
				assert.Equal(t, tt.limit, p.Pagination.Next.Limit)
			} else {
				assert.Nil(t, p.Pagination.Next)
			}
			if tt.wantPrev {
				require.NotNil(t, p.Pagination.Prev)
				assert.Equal(t, tt.page-1, p.Pagination.Prev.Page)
			} else {
				assert.Nil(t, p.Pagination.Prev)
			}
		})
	}
}

// ── Document ──

func TestDocument_Accessors(t *testing.T) {
	doc := Document{
		"id":     userA,
		"amount": "12.50",
		"member": Document{"id": userB},
		"group":  userC,
	}

	assert.Equal(t, userA, doc.ID())
	assert.InDelta(t, 12.5, doc.Float("amount"), 1e-9)
	assert.Equal(t, 0.0, doc.Float("missing"))
	assert.Equal(t, userB, doc.RefID("member"))
	assert.Equal(t, userC, doc.RefID("group"))
	assert.Equal(t, "", doc.String("missing"))
}
