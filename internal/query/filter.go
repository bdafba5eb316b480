// Package query compiles list filters and partial updates into parameterized
// repository.Statements.
//
// Nothing here performs I/O except FilterSet.Query, which hands the compiled
// statement to an executor. Identifiers (tables, columns, ORDER BY) always come
// from code; only values come from callers, and values are always bound.
package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/repository"
)

// Kind says how a filter value is bound.
type Kind int

const (
	// Text binds the raw query-string value.
	Text Kind = iota
	// Int parses the value as a base-10 integer and binds an int64.
	Int
	// Substring binds the value with LIKE wildcards escaped, so "%" and "_"
	// match themselves. The template must declare ESCAPE '\'.
	Substring
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate binds one recognized filter key to a SQL template.
//
// Template holds a single %s where the positional placeholder goes; it may
// appear more than once, all occurrences take the same $n:
//
//	Predicate{Key: "min_salary", Template: "salary >= %s", Kind: Int}
type Predicate struct {
	Key      string
	Template string
	Kind     Kind
}

// Range declares a min/max key pair that must satisfy min < max when both
// are present.
type Range struct {
	Min     string
	Max     string
	Message string
}

// FilterSet is the filter declaration for one collection.
type FilterSet struct {
	// Base is the unfiltered statement, e.g. "SELECT handle, name FROM companies".
	Base string
	// Predicates are applied in this order regardless of input order.
	Predicates []Predicate
	Ranges     []Range
	// OrderBy is appended after the WHERE clause when non-empty.
	OrderBy string
}

// Compile builds the statement for params. Unrecognized keys and empty
// values are ignored.
func (fs FilterSet) Compile(params map[string]string) (repository.Statement, error) {
	if err := fs.checkRanges(params); err != nil {
		return repository.Statement{}, err
	}

	var (
		clauses []string
		args    []any
	)
	for _, p := range fs.Predicates {
		raw, ok := present(params, p.Key)
		if !ok {
			continue
		}

		value, err := p.bind(raw)
		if err != nil {
			return repository.Statement{}, err
		}

		args = append(args, value)
		placeholder := "$" + strconv.Itoa(len(args))
		clauses = append(clauses, strings.ReplaceAll(p.Template, "%s", placeholder))
	}

	var b strings.Builder
	b.WriteString(fs.Base)
	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	if fs.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(fs.OrderBy)
	}

	return repository.Statement{Text: b.String(), Args: args}, nil
}

// Query compiles params and runs the result on exec. Rows come back as the
// executor returned them.
func (fs FilterSet) Query(ctx context.Context, exec repository.Executor, params map[string]string) ([]repository.Row, error) {
	stmt, err := fs.Compile(params)
	if err != nil {
		return nil, err
	}
	return exec.Query(ctx, stmt)
}

func (fs FilterSet) checkRanges(params map[string]string) error {
	for _, r := range fs.Ranges {
		rawMin, okMin := present(params, r.Min)
		rawMax, okMax := present(params, r.Max)
		if !okMin || !okMax {
			continue
		}

		lo, err := parseInt(r.Min, rawMin)
		if err != nil {
			return err
		}
		hi, err := parseInt(r.Max, rawMax)
		if err != nil {
			return err
		}
		if lo >= hi {
			return apperror.ValidationFailed(r.Min, r.Message)
		}
	}
	return nil
}

// present treats "?min_salary=" like an absent key.
func present(params map[string]string, key string) (string, bool) {
	raw, ok := params[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}

func (p Predicate) bind(raw string) (any, error) {
	switch p.Kind {
	case Int:
		return parseInt(p.Key, raw)
	case Substring:
		return likeEscaper.Replace(raw), nil
	default:
		return raw, nil
	}
}

func parseInt(key, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(key, fmt.Sprintf("Query parameter %s must be an integer.", key))
	}
	return n, nil
}

// Search returns the portable case-insensitive substring predicate for col.
// The value is matched literally; both engines honour ESCAPE '\'.
func Search(key, col string) Predicate {
	return Predicate{
		Key:      key,
		Template: "lower(" + col + `) LIKE '%' || lower(%s) || '%' ESCAPE '\'`,
		Kind:     Substring,
	}
}

// Min returns a col >= value predicate.
func Min(key, col string) Predicate {
	return Predicate{Key: key, Template: col + " >= %s", Kind: Int}
}

// Max returns a col <= value predicate.
func Max(key, col string) Predicate {
	return Predicate{Key: key, Template: col + " <= %s", Kind: Int}
}
