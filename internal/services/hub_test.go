package services

import (
	"testing"

	"github.com/Leeseryong88/logbook/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewProfileHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID)
	defer cancel()

	hub.Publish(userID, dto.ProfileResponse{DisplayName: "Ocean Explorer"})

	select {
	case p := <-ch:
		assert.Equal(t, "Ocean Explorer", p.DisplayName)
	default:
		t.Fatal("expected a buffered update")
	}
}

func TestProfileHub_PublishIsScopedToUser(t *testing.T) {
	hub := NewProfileHub()
	a, b := uuid.New(), uuid.New()

	chA, cancelA := hub.Subscribe(a)
	defer cancelA()

	hub.Publish(b, dto.ProfileResponse{DisplayName: "someone else"})

	select {
	case <-chA:
		t.Fatal("subscriber received another user's update")
	default:
	}
}

func TestProfileHub_SlowSubscriberDropsUpdates(t *testing.T) {
	hub := NewProfileHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID)
	defer cancel()

	// Overfill the buffer; publishes past capacity must not block.
	for i := 0; i < 10; i++ {
		hub.Publish(userID, dto.ProfileResponse{})
	}

	received := 0
drain:
	for {
		select {
		case <-ch:
			received++
		default:
			break drain
		}
	}
	assert.Equal(t, 4, received)
}

func TestProfileHub_CancelClosesChannel(t *testing.T) {
	hub := NewProfileHub()
	userID := uuid.New()

	ch, cancel := hub.Subscribe(userID)
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Cancelling twice is safe.
	cancel()
}

func TestProfileHub_DropAllClosesEverySubscription(t *testing.T) {
	hub := NewProfileHub()
	userID := uuid.New()

	ch1, _ := hub.Subscribe(userID)
	ch2, _ := hub.Subscribe(userID)

	hub.DropAll(userID)

	_, open := <-ch1
	assert.False(t, open)
	_, open = <-ch2
	assert.False(t, open)

	// Publishing after DropAll is a no-op.
	hub.Publish(userID, dto.ProfileResponse{})
}
