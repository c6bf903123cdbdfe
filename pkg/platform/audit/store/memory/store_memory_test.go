package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "escriba/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Append(ctx, audit.Event{Entity: audit.EntityCartorio, EntityID: "1", Action: audit.ActionCreated}))
	require.NoError(t, s.Append(ctx, audit.Event{Entity: audit.EntitySituacao, EntityID: "SIT_ATIVO", Action: audit.ActionCreated}))
	require.NoError(t, s.Append(ctx, audit.Event{Entity: audit.EntityCartorio, EntityID: "1", Action: audit.ActionAtribuicaoAdded, Detail: "ATRIB_NOTAS"}))

	byEntity, err := s.ListByEntity(ctx, audit.EntityCartorio, "1")
	require.NoError(t, err)
	require.Len(t, byEntity, 2)
	assert.Equal(t, audit.ActionAtribuicaoAdded, byEntity[1].Action)

	recent, err := s.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "ATRIB_NOTAS", recent[0].Detail)

	recent, err = s.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

}

func TestInMemoryStoreCapacityDropsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore(WithCapacity(2))

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, s.Append(ctx, audit.Event{Entity: audit.EntityCartorio, EntityID: id, Action: audit.ActionCreated}))
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].EntityID)
	assert.Equal(t, "3", all[1].EntityID)

	gone, err := s.ListByEntity(ctx, audit.EntityCartorio, "1")
	require.NoError(t, err)
	assert.Empty(t, gone)
}
