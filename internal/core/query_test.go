// AngelaMos | 2026
// query_test.go

package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	w := NewWhere()
	assert.Equal(t, "TRUE", w.String())

	w.Add("deleted_at IS NULL")
	w.AddArg("organization_id = $%d", "org-1")
	w.AddArg("(name ILIKE $%[1]d OR address ILIKE $%[1]d)", "%casa%")

	assert.Equal(t,
		"deleted_at IS NULL AND organization_id = $1 AND (name ILIKE $2 OR address ILIKE $2)",
		w.String(),
	)
	assert.Equal(t, []any{"org-1", "%casa%"}, w.Args())
	assert.Equal(t, 3, w.Next())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, EscapeLike(`50% off_now\`))
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsDuplicateKeyError(dup))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKeyError(errors.New("boom")))
}

type fakeResult struct {
	rows int64
	err  error
}

func (f fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (f fakeResult) RowsAffected() (int64, error) { return f.rows, f.err }

func TestExpectAffected(t *testing.T) {
	assert.NoError(t, ExpectAffected(fakeResult{rows: 1}, "op"))
	assert.ErrorIs(t, ExpectAffected(fakeResult{rows: 0}, "op"), ErrNotFound)
	assert.Error(t, ExpectAffected(fakeResult{err: errors.New("driver")}, "op"))
}
