package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselflow/ppe-engine/store"
	"github.com/vesselflow/ppe-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "vessel_ppe_records")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutUpserts(t *testing.T) {
	// GIVEN: Two writes to the same key
	ctx := context.Background()
	s := newTestStore(t)
	before := time.Now().UTC().Add(-time.Second)

	require.NoError(t, s.Put(ctx, "vessel_ppe_records", []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, "vessel_ppe_records", []byte(`[1,2]`)))

	// THEN: The last one wins
	got, err := s.Get(ctx, "vessel_ppe_records")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	updated, err := s.UpdatedAt(ctx, "vessel_ppe_records")
	require.NoError(t, err)
	assert.True(t, updated.After(before))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Put(ctx, "fleet_a", []byte(`a`)))
	require.NoError(t, s.Put(ctx, "fleet_b", []byte(`b`)))

	a, err := s.Get(ctx, "fleet_a")
	require.NoError(t, err)
	assert.Equal(t, "a", string(a))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vesselflow.db")

	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "vessel_ppe_records", []byte(`[]`)))
	require.NoError(t, s.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "vessel_ppe_records")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}
