package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/repository"
)

var companyFilters = FilterSet{
	Base: "SELECT handle, name FROM companies",
	Predicates: []Predicate{
		Search("search", "name"),
		Min("min_employees", "num_employees"),
		Max("max_employees", "num_employees"),
	},
	Ranges: []Range{{
		Min:     "min_employees",
		Max:     "max_employees",
		Message: "min must be less than max",
	}},
	OrderBy: "handle",
}

// recordingExecutor remembers the last statement it was given.
type recordingExecutor struct {
	got  *repository.Statement
	rows []repository.Row
	err  error
}

func (e *recordingExecutor) Query(_ context.Context, stmt repository.Statement) ([]repository.Row, error) {
	e.got = &stmt
	return e.rows, e.err
}

// =========================================================================
// COMPILE TESTS
// =========================================================================

func TestCompile_NoParams(t *testing.T) {
	stmt, err := companyFilters.Compile(nil)

	require.NoError(t, err)
	assert.Equal(t, "SELECT handle, name FROM companies ORDER BY handle", stmt.Text)
	assert.Empty(t, stmt.Args)
}

func TestCompile_DeclaredOrderNotInputOrder(t *testing.T) {
	stmt, err := companyFilters.Compile(map[string]string{
		"max_employees": "500",
		"search":        "net",
		"min_employees": "10",
	})

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT handle, name FROM companies WHERE lower(name) LIKE '%' || lower($1) || '%' ESCAPE '\\'"+
			" AND num_employees >= $2 AND num_employees <= $3 ORDER BY handle",
		stmt.Text)
	assert.Equal(t, []any{"net", int64(10), int64(500)}, stmt.Args)
}

func TestCompile_PlaceholdersAreSequentialOverPresentKeys(t *testing.T) {
	stmt, err := companyFilters.Compile(map[string]string{"max_employees": "7"})

	require.NoError(t, err)
	assert.Equal(t, "SELECT handle, name FROM companies WHERE num_employees <= $1 ORDER BY handle", stmt.Text)
	assert.Equal(t, []any{int64(7)}, stmt.Args)
}

func TestCompile_IgnoresUnknownKeys(t *testing.T) {
	stmt, err := companyFilters.Compile(map[string]string{"colour": "blue"})

	require.NoError(t, err)
	assert.Equal(t, "SELECT handle, name FROM companies ORDER BY handle", stmt.Text)
	assert.Empty(t, stmt.Args)
}

func TestCompile_RejectsBadRanges(t *testing.T) {
	tests := []struct {
		name     string
		min, max string
	}{
		{"min greater than max", "500", "10"},
		{"min equal to max", "10", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := companyFilters.Compile(map[string]string{
				"min_employees": tt.min,
				"max_employees": tt.max,
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, "min must be less than max", err.Error())
		})
	}
}

func TestCompile_RejectsNonIntegerValue(t *testing.T) {
	_, err := companyFilters.Compile(map[string]string{"min_employees": "lots"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Contains(t, err.Error(), "min_employees")
}

func TestCompile_SingleSideOfRangeIsAllowed(t *testing.T) {
	_, err := companyFilters.Compile(map[string]string{"min_employees": "1000"})
	assert.NoError(t, err)
}

func TestCompile_SearchEscapesWildcards(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"%", `\%`},
		{"_", `\_`},
		{"a_b", `a\_b`},
		{`50%\off`, `50\%\\off`},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			stmt, err := companyFilters.Compile(map[string]string{"search": tt.in})

			require.NoError(t, err)
			assert.Equal(t, []any{tt.want}, stmt.Args)
		})
	}
}

func TestCompile_EmptyValuesAreIgnored(t *testing.T) {
	stmt, err := companyFilters.Compile(map[string]string{
		"search":        "",
		"min_employees": "",
		"max_employees": " ",
	})

	require.NoError(t, err)
	assert.Equal(t, "SELECT handle, name FROM companies ORDER BY handle", stmt.Text)
	assert.Empty(t, stmt.Args)
}

func TestCompile_EmptyMinSkipsRangeCheck(t *testing.T) {
	stmt, err := companyFilters.Compile(map[string]string{"min_employees": "", "max_employees": "5"})

	require.NoError(t, err)
	assert.Equal(t, []any{int64(5)}, stmt.Args)
}

func TestCompile_WithoutOrderBy(t *testing.T) {
	fs := FilterSet{Base: "SELECT 1", Predicates: []Predicate{Min("min_x", "x")}}

	stmt, err := fs.Compile(map[string]string{"min_x": "3"})

	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 WHERE x >= $1", stmt.Text)
}

// =========================================================================
// QUERY TESTS
// =========================================================================

func TestQuery_HandsCompiledStatementToExecutor(t *testing.T) {
	exec := &recordingExecutor{rows: []repository.Row{{"handle": "acme"}}}

	rows, err := companyFilters.Query(context.Background(), exec, map[string]string{"search": "ac"})

	require.NoError(t, err)
	require.NotNil(t, exec.got)
	assert.Equal(t, []any{"ac"}, exec.got.Args)
	assert.Equal(t, exec.rows, rows)
}

func TestQuery_ValidationFailsBeforeStorage(t *testing.T) {
	exec := &recordingExecutor{}

	_, err := companyFilters.Query(context.Background(), exec, map[string]string{
		"min_employees": "9",
		"max_employees": "1",
	})

	require.Error(t, err)
	assert.Nil(t, exec.got, "executor must not be called when the range is invalid")
}

func TestQuery_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &recordingExecutor{err: boom}

	_, err := companyFilters.Query(context.Background(), exec, nil)

	assert.ErrorIs(t, err, boom)
}
