// Package query builds parameterized list queries for the collection
// repositories. Values are always bound, never spliced into SQL text.
package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// likeEscape is portable across SQLite and MySQL, unlike a backslash.
const likeEscape = "!"

// Filter describes a list request against one table.
type Filter struct {
	Table   string
	Columns []string
	// Search is matched as a case-insensitive literal substring against
	// any of SearchColumns.
	Search        string
	SearchColumns []string
	// Equals holds exact-match filters, applied in column order.
	Equals []Equal
}

// Equal is a single exact-match filter.
type Equal struct {
	Column string
	Value  string
}

// Build renders the SELECT for f, ordered newest first. Blank filters are
// dropped rather than compared against the empty string.
func Build(f Filter) (string, []interface{}, error) {
	builder := sq.Select(f.Columns...).From(f.Table)

	if pred := Contains(f.Search, f.SearchColumns...); pred != nil {
		builder = builder.Where(pred)
	}

	for _, eq := range f.Equals {
		value := strings.TrimSpace(eq.Value)
		if value == "" {
			continue
		}
		builder = builder.Where(sq.Eq{eq.Column: value})
	}

	return builder.OrderBy("id DESC").ToSql()
}

// Contains returns an OR of case-insensitive substring matches of term
// against columns, or nil when term is blank.
func Contains(term string, columns ...string) sq.Sqlizer {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return nil
	}

	pattern := "%" + EscapeLike(strings.ToLower(term)) + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.Expr("LOWER("+col+") LIKE ? ESCAPE '"+likeEscape+"'", pattern))
	}
	return or
}

// EscapeLike escapes LIKE wildcards so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return r.Replace(s)
}
