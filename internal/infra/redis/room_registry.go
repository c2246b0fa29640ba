package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-room-service/internal/app"
)

// RoomRegistry decorates an in-process registry with Redis liveness markers.
// Notes:
//   - Room state itself stays in-process: rooms are single-authority and do
//     not survive restarts, so Redis only mirrors which IDs are active.
//   - The markers give operators visibility (and could feed cross-instance
//     routing later) without putting Redis latency on the room's hot path.
type RoomRegistry struct {
	inner  app.RoomRegistry
	client *redis.Client
	ttl    time.Duration
}

func NewRoomRegistry(inner app.RoomRegistry, client *redis.Client, ttl time.Duration) *RoomRegistry {
	return &RoomRegistry{inner: inner, client: client, ttl: ttl}
}

func (r *RoomRegistry) Add(room *app.Room) error {
	if err := r.inner.Add(room); err != nil {
		return err
	}
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(room.ID()), "1", r.ttl).Err()
	return nil
}

func (r *RoomRegistry) Get(roomID string) (*app.Room, bool) {
	return r.inner.Get(roomID)
}

func (r *RoomRegistry) Delete(roomID string) {
	r.inner.Delete(roomID)
	_ = r.client.Del(context.Background(), r.key(roomID)).Err()
}

func (r *RoomRegistry) Snapshot() []*app.Room {
	return r.inner.Snapshot()
}

func (r *RoomRegistry) key(roomID string) string {
	return "room:active:" + roomID
}
