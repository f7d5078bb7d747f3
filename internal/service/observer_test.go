package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/models"
)

func TestStateHub_DeliversToAllSubscribers(t *testing.T) {
	hub := newStateHub()

	first := hub.Subscribe()
	second := hub.Subscribe()

	hub.Publish(models.SyncState{Status: models.StatusSyncing})

	assert.Equal(t, models.StatusSyncing, (<-first).Status)
	assert.Equal(t, models.StatusSyncing, (<-second).Status)
}

func TestStateHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := newStateHub()

	ch := hub.Subscribe()
	hub.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// publishing after unsubscribe must not panic
	hub.Publish(models.SyncState{Status: models.StatusIdle})
}

func TestStateHub_UnsubscribeUnknownChannelIsNoOp(t *testing.T) {
	hub := newStateHub()

	stranger := make(chan models.SyncState)
	hub.Unsubscribe(stranger)
}

func TestStateHub_SlowSubscriberNeverBlocksPublish(t *testing.T) {
	hub := newStateHub()

	ch := hub.Subscribe()

	// overflow the buffer; Publish must keep returning immediately
	for i := 0; i < stateBufferSize*2; i++ {
		hub.Publish(models.SyncState{Status: models.StatusSyncing})
	}

	drained := 0
	for len(ch) > 0 {
		<-ch
		drained++
	}
	require.Equal(t, stateBufferSize, drained)
}

func TestStateHub_CloseClosesEverySubscriber(t *testing.T) {
	hub := newStateHub()

	first := hub.Subscribe()
	second := hub.Subscribe()

	hub.Close()

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
}
