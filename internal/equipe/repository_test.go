// AngelaMos | 2026
// repository_test.go

package equipe

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaconstrutor/api/internal/core"
)

// recordingDB answers GetContext with err and keeps the last statement.
type recordingDB struct {
	core.DBTX
	query string
	args  []any
	err   error
}

func (d *recordingDB) GetContext(_ context.Context, _ any, query string, args ...any) error {
	d.query = query
	d.args = args
	return d.err
}

func TestRepository_ObraMustBelongToOrganization(t *testing.T) {
	foreignObra := "b5f1c0de-0000-4000-8000-000000000002"

	tests := []struct {
		name string
		run  func(Repository, *Equipe) error
	}{
		{"create", func(r Repository, e *Equipe) error { return r.Create(context.Background(), e) }},
		{"update", func(r Repository, e *Equipe) error { return r.Update(context.Background(), e) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recordingDB{err: sql.ErrNoRows}
			e := &Equipe{ID: "eq-1", OrganizationID: "org-1", ObraID: &foreignObra, Name: "Fundação"}

			err := tt.run(NewRepository(db), e)

			assert.ErrorIs(t, err, core.ErrNotFound)
			require.Len(t, db.args, 6)
			assert.Equal(t, "org-1", db.args[1])
			assert.Equal(t, &foreignObra, db.args[2])
			assert.Contains(t, db.query, "WHERE id = $3 AND organization_id = $2 AND deleted_at IS NULL")
		})
	}
}

func TestRepository_CreateWithoutObra(t *testing.T) {
	db := &recordingDB{}
	e := &Equipe{ID: "eq-1", OrganizationID: "org-1", Name: "Acabamento"}

	require.NoError(t, NewRepository(db).Create(context.Background(), e))
	assert.Contains(t, db.query, "$3::uuid IS NULL")
}
