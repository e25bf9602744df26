package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vesselflow/ppe-engine/store"
	"github.com/vesselflow/ppe-engine/store/memory"
)

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	require.NoError(t, m.Put(ctx, "k", []byte("abc")))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemory_FailPuts(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	m.FailPuts(errors.New("quota"))

	assert.EqualError(t, m.Put(ctx, "k", []byte("x")), "quota")
	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, 0, m.Puts())

	m.FailPuts(nil)
	assert.NoError(t, m.Put(ctx, "k", []byte("x")))
	assert.Equal(t, 1, m.Puts())
}
