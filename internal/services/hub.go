package services

import (
	"sync"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/google/uuid"
)

// ProfileHub fans profile updates out to in-process subscribers. A
// subscriber gets a buffered channel and a cancel func; cancelling
// closes the channel. Publishes never block: a subscriber that has
// fallen behind misses that update.
type ProfileHub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]map[uint64]chan dto.ProfileResponse
	next uint64
}

func NewProfileHub() *ProfileHub {
	return &ProfileHub{
		subs: make(map[uuid.UUID]map[uint64]chan dto.ProfileResponse),
	}
}

// Subscribe registers interest in one user's profile updates. The
// caller owns the cancel func and must call it on teardown.
func (h *ProfileHub) Subscribe(userID uuid.UUID) (<-chan dto.ProfileResponse, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan dto.ProfileResponse, 4)
	id := h.next
	h.next++

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[uint64]chan dto.ProfileResponse)
	}
	h.subs[userID][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[userID]; ok {
			if c, ok := set[id]; ok {
				delete(set, id)
				close(c)
			}
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
	}

	return ch, cancel
}

// Publish delivers a fresh profile snapshot to every subscriber.
func (h *ProfileHub) Publish(userID uuid.UUID, profile dto.ProfileResponse) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[userID] {
		select {
		case ch <- profile:
		default:
		}
	}
}

// DropAll closes every subscription for a user, used on sign-out and
// account deletion.
func (h *ProfileHub) DropAll(userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[userID] {
		close(ch)
	}
	delete(h.subs, userID)
}
