package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sakif/jobly/internal/repository"
)

var (
	// ErrNoFields is returned when PartialUpdate is given nothing to set.
	ErrNoFields = errors.New("query: no fields to update")
	// ErrBadIdentifier is returned for a table or column name that is not a
	// plain lower-case SQL identifier.
	ErrBadIdentifier = errors.New("query: invalid identifier")
)

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Field is one column assignment. Order is preserved in the output.
type Field struct {
	Column string
	Value  any
}

// PartialUpdate builds
//
//	UPDATE <table> SET c1=$1, c2=$2, ... WHERE <key>=$n+1 RETURNING *
//
// Args are the field values in order followed by keyValue.
func PartialUpdate(table string, fields []Field, keyColumn string, keyValue any) (repository.Statement, error) {
	if len(fields) == 0 {
		return repository.Statement{}, ErrNoFields
	}
	if err := checkIdentifiers(table, keyColumn); err != nil {
		return repository.Statement{}, err
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		if err := checkIdentifiers(f.Column); err != nil {
			return repository.Statement{}, err
		}
		sets = append(sets, f.Column+"=$"+strconv.Itoa(i+1))
		args = append(args, f.Value)
	}
	args = append(args, keyValue)

	text := fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d RETURNING *",
		table, strings.Join(sets, ", "), keyColumn, len(args))

	return repository.Statement{Text: text, Args: args}, nil
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !identifier.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrBadIdentifier, name)
		}
	}
	return nil
}
