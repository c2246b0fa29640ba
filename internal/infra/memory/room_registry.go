package memory

import (
	"sync"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
)

// RoomRegistry is an in-memory implementation of app.RoomRegistry.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[string]*app.Room),
	}
}

func (r *RoomRegistry) Add(room *app.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID()]; ok {
		return domain.ErrRoomExists
	}
	r.rooms[room.ID()] = room
	return nil
}

func (r *RoomRegistry) Get(roomID string) (*app.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

func (r *RoomRegistry) Delete(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
}

func (r *RoomRegistry) Snapshot() []*app.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]*app.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}
