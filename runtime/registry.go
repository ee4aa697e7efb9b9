// Package runtime routes pushed events to the components listening on a room.
// It holds no business logic or domain rules.
package runtime

import (
	"rentchat/contract"
	"rentchat/domain"
	"sync"
)

type Set map[string]struct{}

type Registry struct {
	mu          sync.RWMutex
	sinks       map[string]contract.EventSink // map subscriber -> Sink
	roomMembers map[domain.RoomID]Set         // map room to subscribers
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:       make(map[string]contract.EventSink),
		roomMembers: make(map[domain.RoomID]Set),
	}
}

// GetSinksForRoom retrieves all sinks listening on a specific room.
// It performs a two-step lookup:
// 1. Identifies subscriber IDs associated with the room via roomMembers.
// 2. Resolves those IDs into actual EventSinks using the sinks map.
//
// Returns nil if the room has no subscriber.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for subscriberID := range members {
		if sink, exists := r.sinks[subscriberID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a sink and assigns it to a specific room.
// If the room does not yet exist in the registry, it is initialized on the fly.
func (r *Registry) Subscribe(subscriberID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sinks[subscriberID] = sink

	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][subscriberID] = struct{}{}
}

// Unsubscribe removes a subscriber from the registry and from its room.
// Empty rooms are dropped so closed chat sessions leave nothing behind.
func (r *Registry) Unsubscribe(subscriberID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sinks, subscriberID)

	if members, ok := r.roomMembers[roomID]; ok {
		delete(members, subscriberID)

		if len(members) == 0 {
			delete(r.roomMembers, roomID)
		}
	}
}

// Rooms returns how many rooms currently have at least one subscriber.
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roomMembers)
}
