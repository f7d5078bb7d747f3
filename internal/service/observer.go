package service

import (
	"sync"

	"github.com/MKhiriev/go-clip-sync/models"
)

// stateBufferSize is the per-subscriber channel buffer. A subscriber that
// stops draining its channel misses transitions once the buffer fills; it is
// never allowed to block the orchestrator.
const stateBufferSize = 16

// stateHub fans state snapshots out to subscribers.
type stateHub struct {
	mu   sync.Mutex
	subs map[<-chan models.SyncState]chan models.SyncState
}

func newStateHub() *stateHub {
	return &stateHub{subs: make(map[<-chan models.SyncState]chan models.SyncState)}
}

func (h *stateHub) Subscribe() <-chan models.SyncState {
	ch := make(chan models.SyncState, stateBufferSize)

	h.mu.Lock()
	h.subs[ch] = ch
	h.mu.Unlock()

	return ch
}

func (h *stateHub) Unsubscribe(ch <-chan models.SyncState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[ch]
	if !ok {
		return
	}
	delete(h.subs, ch)
	close(sub)
}

func (h *stateHub) Publish(state models.SyncState) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub <- state:
		default:
		}
	}
}

// Close unsubscribes everyone.
func (h *stateHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, sub := range h.subs {
		delete(h.subs, key)
		close(sub)
	}
}
