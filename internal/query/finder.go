package query

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

// Querier is the subset of *sql.DB and *sql.Tx used by [Finder].
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Page is one page of a list result.
type Page struct {
	Documents  []Document
	Total      int
	Pagination models.Pagination
}

// NewPage computes the pagination links for a page of documents out of
// total matches. next is present iff page*limit < total, prev iff page > 1.
func NewPage(docs []Document, total, page, limit int) Page {
	if docs == nil {
		docs = []Document{}
	}

	p := Page{Documents: docs, Total: total}
	if limit <= 0 {
		return p
	}

	if total > 0 && page <= (total-1)/limit {
		p.Pagination.Next = &models.PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Pagination.Prev = &models.PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Finder executes list specs against PostgreSQL.
type Finder struct {
	db Querier
}

func NewFinder(db Querier) *Finder {
	return &Finder{db: db}
}

// List parses params, counts the matching documents and returns the
// requested page with the given references expanded.
func (f *Finder) List(ctx context.Context, c Collection, params url.Values, populate ...Expansion) (Page, error) {
	spec, err := Parse(c, params)
	if err != nil {
		return Page{}, err
	}
	spec.Populate = append(spec.Populate, populate...)

	total, err := f.Count(ctx, c, spec.Conditions)
	if err != nil {
		return Page{}, err
	}

	docs, err := f.Find(ctx, c, spec)
	if err != nil {
		return Page{}, err
	}

	return NewPage(docs, total, spec.Page, spec.Limit), nil
}

// FindOne returns the document with the given id or [ErrNotFound].
func (f *Finder) FindOne(ctx context.Context, c Collection, id string, populate ...Expansion) (Document, error) {
	docs, err := f.Find(ctx, c, Spec{
		Conditions: []Condition{{Field: c.IDField(), Op: OpEq, Values: []any{id}}},
		Limit:      1,
		Page:       1,
		Populate:   populate,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w with id of %s", ErrNotFound, id)
	}
	return docs[0], nil
}

// Count returns the number of documents matching conds.
func (f *Finder) Count(ctx context.Context, c Collection, conds []Condition) (int, error) {
	log := logger.FromContext(ctx)

	b := psql.Select("COUNT(*)").From(c.Table)
	if len(conds) > 0 {
		where, err := whereClause(c, conds)
		if err != nil {
			return 0, err
		}
		b = b.Where(where)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count query: %w", err)
	}

	var total int
	if err := f.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		log.Err(err).Str("func", "*Finder.Count").Str("collection", c.Name).Msg("error counting documents")
		return 0, fmt.Errorf("error counting %s: %w", c.Name, err)
	}
	return total, nil
}

// Find returns the documents matching spec, sorted and paginated, with
// set fields loaded and expansions applied.
func (f *Finder) Find(ctx context.Context, c Collection, spec Spec) ([]Document, error) {
	log := logger.FromContext(ctx)

	fields := selectedFields(c, spec.Select)

	var columns []string
	var scalar, sets []Field
	for _, field := range fields {
		if field.Kind == KindIDSet {
			sets = append(sets, field)
			continue
		}
		scalar = append(scalar, field)
		columns = append(columns, field.Column)
	}

	b := psql.Select(columns...).From(c.Table)
	if len(spec.Conditions) > 0 {
		where, err := whereClause(c, spec.Conditions)
		if err != nil {
			return nil, err
		}
		b = b.Where(where)
	}

	orderBy, err := orderClauses(c, spec.Sort)
	if err != nil {
		return nil, err
	}
	b = b.OrderBy(orderBy...)

	if spec.Limit > 0 {
		b = b.Limit(uint64(spec.Limit)).Offset(uint64(spec.Skip()))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building find query: %w", err)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*Finder.Find").Str("collection", c.Name).Msg("error querying documents")
		return nil, fmt.Errorf("error querying %s: %w", c.Name, err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		values := make([]any, len(scalar))
		dest := make([]any, len(scalar))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			log.Err(err).Str("func", "*Finder.Find").Str("collection", c.Name).Msg("error scanning document")
			return nil, fmt.Errorf("error scanning %s: %w", c.Name, err)
		}

		doc := make(Document, len(fields))
		for i, field := range scalar {
			doc[field.Name] = field.format(values[i])
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", c.Name, err)
	}

	for _, set := range sets {
		if err := f.loadSet(ctx, set, docs); err != nil {
			return nil, err
		}
	}

	for _, exp := range spec.Populate {
		if err := f.expand(ctx, c, exp, docs); err != nil {
			return nil, err
		}
	}

	return docs, nil
}

// loadSet fills a KindIDSet field of every document with one query on
// the join table.
func (f *Finder) loadSet(ctx context.Context, field Field, docs []Document) error {
	for _, doc := range docs {
		doc[field.Name] = []string{}
	}
	if len(docs) == 0 || field.Join == nil {
		return nil
	}

	owners := make([]string, 0, len(docs))
	byOwner := make(map[string]Document, len(docs))
	for _, doc := range docs {
		owners = append(owners, doc.ID())
		byOwner[doc.ID()] = doc
	}

	j := field.Join
	b := psql.Select(j.OwnerColumn, j.RefColumn).
		From(j.Table).
		Where(sq.Eq{j.OwnerColumn: owners})
	if j.OrderColumn != "" {
		b = b.OrderBy(j.OwnerColumn, j.OrderColumn, j.RefColumn)
	} else {
		b = b.OrderBy(j.OwnerColumn, j.RefColumn)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("error building set query: %w", err)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error loading %s: %w", field.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner, ref string
		if err := rows.Scan(&owner, &ref); err != nil {
			return fmt.Errorf("error scanning %s: %w", field.Name, err)
		}
		if doc, ok := byOwner[owner]; ok {
			doc[field.Name] = append(doc[field.Name].([]string), ref)
		}
	}
	return rows.Err()
}

// expand replaces reference ids at exp.Path by the referenced documents,
// loading every referenced document with a single query.
func (f *Finder) expand(ctx context.Context, c Collection, exp Expansion, docs []Document) error {
	field, ok := c.Field(exp.Path)
	if !ok || field.Ref == nil {
		return fmt.Errorf("%w: cannot expand %s", ErrUnknownField, exp.Path)
	}

	seen := make(map[string]struct{})
	var ids []any
	collect := func(id string) {
		if _, dup := seen[id]; id != "" && !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, doc := range docs {
		switch v := doc[exp.Path].(type) {
		case string:
			collect(v)
		case []string:
			for _, id := range v {
				collect(id)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	ref := *field.Ref
	selectFields := exp.Select
	if len(selectFields) > 0 {
		if _, err := parseSelect(ref, strings.Join(selectFields, ",")); err != nil {
			return err
		}
	}

	refDocs, err := f.Find(ctx, ref, Spec{
		Conditions: []Condition{{Field: ref.IDField(), Op: OpIn, Values: ids}},
		Select:     selectFields,
	})
	if err != nil {
		return err
	}

	byID := make(map[string]Document, len(refDocs))
	for _, d := range refDocs {
		byID[d.ID()] = d
	}

	for _, doc := range docs {
		switch v := doc[exp.Path].(type) {
		case string:
			if d, ok := byID[v]; ok {
				doc[exp.Path] = d
			} else {
				doc[exp.Path] = nil
			}
		case []string:
			expanded := make([]Document, 0, len(v))
			for _, id := range v {
				if d, ok := byID[id]; ok {
					expanded = append(expanded, d)
				}
			}
			doc[exp.Path] = expanded
		}
	}
	return nil
}

// selectedFields returns the requested fields with "id" always first.
func selectedFields(c Collection, names []string) []Field {
	if len(names) == 0 {
		return c.Fields
	}

	fields := []Field{c.IDField()}
	for _, name := range names {
		if name == "id" {
			continue
		}
		if field, ok := c.Field(name); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

func whereClause(c Collection, conds []Condition) (sq.Sqlizer, error) {
	and := make(sq.And, 0, len(conds))
	for _, cond := range conds {
		s, err := cond.sqlizer(c)
		if err != nil {
			return nil, err
		}
		and = append(and, s)
	}
	return and, nil
}

func (cond Condition) sqlizer(c Collection) (sq.Sqlizer, error) {
	col := cond.Field.Column

	if cond.Field.Kind == KindIDSet {
		j := cond.Field.Join
		if j == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, cond.Field.Name)
		}
		sub, args, err := sq.Select(j.OwnerColumn).From(j.Table).Where(sq.Eq{j.RefColumn: cond.Values}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("error building set filter: %w", err)
		}
		return sq.Expr(c.IDField().Column+" IN ("+sub+")", args...), nil
	}

	if len(cond.Values) == 0 {
		return sq.Eq{col: []any{}}, nil
	}

	switch cond.Op {
	case OpEq:
		return sq.Eq{col: cond.Values[0]}, nil
	case OpIn:
		return sq.Eq{col: cond.Values}, nil
	case OpGt:
		return sq.Gt{col: cond.Values[0]}, nil
	case OpGte:
		return sq.GtOrEq{col: cond.Values[0]}, nil
	case OpLt:
		return sq.Lt{col: cond.Values[0]}, nil
	case OpLte:
		return sq.LtOrEq{col: cond.Values[0]}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, cond.Op)
	}
}

// orderClauses renders sort keys, falling back to the collection
// default, and appends the id as a stable tie-breaker.
func orderClauses(c Collection, keys []SortKey) ([]string, error) {
	if len(keys) == 0 && c.DefaultSort != "" {
		var err error
		if keys, err = ParseSort(c, c.DefaultSort); err != nil {
			return nil, err
		}
	}

	idCol := c.IDField().Column
	out := make([]string, 0, len(keys)+1)
	hasID := false
	for _, k := range keys {
		if k.Field.Column == idCol {
			hasID = true
		}
		out = append(out, orderTerm(k.Field.Column, k.Desc))
	}
	if !hasID {
		desc := len(keys) > 0 && keys[0].Desc
		out = append(out, orderTerm(idCol, desc))
	}
	return out, nil
}

func orderTerm(column string, desc bool) string {
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
