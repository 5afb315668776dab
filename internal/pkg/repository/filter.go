package repository

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

// Field names a column of an entity's table.
type Field string

// Include names a relation path to eager-load, e.g. "Course.Sections.Lessons".
type Include string

// Filter is a typed predicate over an entity's columns.
// Filters are rendered to parameterised SQL only when a query executes.
type Filter interface {
	sqlizer() squirrel.Sqlizer
}

type filterFunc func() squirrel.Sqlizer

func (f filterFunc) sqlizer() squirrel.Sqlizer { return f() }

// Eq matches rows whose field equals value. A slice value matches any of its elements.
func Eq(field Field, value interface{}) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		return squirrel.Eq{string(field): value}
	})
}

// NotEq matches rows whose field differs from value.
func NotEq(field Field, value interface{}) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		return squirrel.NotEq{string(field): value}
	})
}

// Gt matches rows whose field is strictly greater than value.
func Gt(field Field, value interface{}) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		return squirrel.Gt{string(field): value}
	})
}

// In matches rows whose field is one of values. An empty list matches nothing.
func In[V any](field Field, values []V) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		return squirrel.Eq{string(field): values}
	})
}

// Contains matches rows whose field contains needle, ignoring case.
// Column and pattern are both folded by the database's LOWER. On postgres
// that is Unicode aware; sqlite folds ASCII only, so there non-ASCII
// letters match only in the case they were stored in.
func Contains(field Field, needle string) Filter {
	pattern := "%" + escapeLike(needle) + "%"
	return filterFunc(func() squirrel.Sqlizer {
		return squirrel.Expr(fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, field), pattern)
	})
}

// And matches rows satisfying every filter. Nil filters are skipped.
func And(filters ...Filter) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		and := squirrel.And{}
		for _, f := range filters {
			if f != nil {
				and = append(and, f.sqlizer())
			}
		}
		return and
	})
}

// Or matches rows satisfying at least one filter. Nil filters are skipped.
func Or(filters ...Filter) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		or := squirrel.Or{}
		for _, f := range filters {
			if f != nil {
				or = append(or, f.sqlizer())
			}
		}
		return or
	})
}

// Related matches rows whose foreign key points at a row of table satisfying inner.
// It renders as "fk IN (SELECT id FROM table WHERE ...)" so no join is needed.
func Related(foreignKey Field, table string, inner Filter) Filter {
	return filterFunc(func() squirrel.Sqlizer {
		return relatedSqlizer{foreignKey: foreignKey, table: table, inner: inner}
	})
}

type relatedSqlizer struct {
	foreignKey Field
	table      string
	inner      Filter
}

func (r relatedSqlizer) ToSql() (string, []interface{}, error) {
	sub := squirrel.Select("id").From(r.table)
	if r.inner != nil {
		sub = sub.Where(r.inner.sqlizer())
	}
	sql, args, err := sub.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build subquery on %s: %w", r.table, err)
	}
	return fmt.Sprintf("%s IN (%s)", r.foreignKey, sql), args, nil
}

// ToSQL renders a filter as a WHERE fragment with "?" placeholders.
func ToSQL(f Filter) (string, []interface{}, error) {
	if f == nil {
		return "", nil, nil
	}
	return f.sqlizer().ToSql()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
