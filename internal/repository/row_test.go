package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRowAccessors_NormaliseDriverTypes(t *testing.T) {
	posted := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	row := Row{
		"pg_int":    int32(502),
		"lite_int":  int64(80000),
		"equity":    0.25,
		"lite_bool": int64(1),
		"pg_bool":   true,
		"name":      "Test Name",
		"bytes":     []byte("raw"),
		"posted":    posted,
		"text_time": "2026-10-14 09:30:00",
		"logo":      nil,
	}

	assert.Equal(t, 502, row.Int("pg_int"))
	assert.Equal(t, int64(80000), row.Int64("lite_int"))
	assert.Equal(t, 0.25, row.Float64("equity"))
	assert.True(t, row.Bool("lite_bool"))
	assert.True(t, row.Bool("pg_bool"))
	assert.Equal(t, "Test Name", row.String("name"))
	assert.Equal(t, "raw", row.String("bytes"))
	assert.True(t, posted.Equal(row.Time("posted")))
	assert.True(t, posted.Equal(row.Time("text_time")))
	assert.Nil(t, row.NullString("logo"))
	assert.Equal(t, "Test Name", *row.NullString("name"))
}

func TestRowAccessors_MissingColumnIsZero(t *testing.T) {
	row := Row{}

	assert.Equal(t, "", row.String("nope"))
	assert.Equal(t, 0, row.Int("nope"))
	assert.Equal(t, 0.0, row.Float64("nope"))
	assert.False(t, row.Bool("nope"))
	assert.True(t, row.Time("nope").IsZero())
}

func TestAsFault(t *testing.T) {
	cause := errors.New("driver said no")
	err := error(&Fault{Kind: UniqueViolation, Table: "users", Field: "email", Err: cause})

	f, ok := AsFault(err, UniqueViolation)
	assert.True(t, ok)
	assert.Equal(t, "email", f.Field)
	assert.ErrorIs(t, err, cause)

	_, ok = AsFault(err, ForeignKeyViolation)
	assert.False(t, ok)

	_, ok = AsFault(cause, UniqueViolation)
	assert.False(t, ok)
}
