package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/infra/memory"
)

func TestRoomRegistrySetsAndClearsMarkers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewRoomRegistry(memory.NewRoomRegistry(), client, time.Minute)

	if err := registry.Add(app.NewRoom("R", nil, false)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !mr.Exists("room:active:R") {
		t.Fatalf("expected liveness marker to be set")
	}
	if _, ok := registry.Get("R"); !ok {
		t.Fatalf("expected room resolvable")
	}

	registry.Delete("R")
	if mr.Exists("room:active:R") {
		t.Fatalf("expected liveness marker removed")
	}
	if _, ok := registry.Get("R"); ok {
		t.Fatalf("expected room removed")
	}
}

func TestRoomRegistryRejectsDuplicateWithoutMarker(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewRoomRegistry(memory.NewRoomRegistry(), client, time.Minute)

	if err := registry.Add(app.NewRoom("R", nil, false)); err != nil {
		t.Fatalf("add: %v", err)
	}
	mr.Del("room:active:R")

	if err := registry.Add(app.NewRoom("R", nil, false)); err == nil {
		t.Fatalf("duplicate add must fail even without a marker")
	}
	// Rejected add must not re-create the marker.
	if mr.Exists("room:active:R") {
		t.Fatalf("rejected add should not set a marker")
	}
}
