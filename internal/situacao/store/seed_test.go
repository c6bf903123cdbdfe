package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	n, err := SeedDefaults(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SeedDefaults(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)

	found, err := s.FindByID(ctx, "SIT_INATIVO")
	require.NoError(t, err)
	assert.Equal(t, "Inativo", found.Nome)
}
