package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	events []Event
	err    error
}

func (r *recordingStore) Append(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestFanoutAppendsToEveryStore(t *testing.T) {
	boom := errors.New("broker down")
	failing := &recordingStore{err: boom}
	healthy := &recordingStore{}

	err := Fanout{failing, nil, healthy}.Append(context.Background(), Event{Entity: EntityCartorio, EntityID: "1", Action: ActionDeleted})

	require.ErrorIs(t, err, boom)
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}
