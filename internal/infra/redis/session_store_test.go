package redis

import (
	"context"
	"testing"
	"time"

	"arith-quiz-service/internal/app"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, time.Minute)

	store.Save(app.NewSession("session-1", time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)))
	if !mr.Exists("arith:session:session-1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("arith:session:session-1"); got != "2024-11-22T10:00:00Z" {
		t.Fatalf("unexpected marker value %q", got)
	}
	if _, ok := store.Get("session-1"); !ok {
		t.Fatalf("expected session in local map")
	}

	store.Delete("session-1")
	if mr.Exists("arith:session:session-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if store.Count() != 0 {
		t.Fatalf("expected empty store, got %d", store.Count())
	}
}

func TestSessionStoreTouchRefreshesTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Save(app.NewSession("session-1", time.Now()))

	mr.FastForward(50 * time.Second)
	if ttl := mr.TTL("arith:session:session-1"); ttl != 10*time.Second {
		t.Fatalf("expected 10s left, got %v", ttl)
	}

	store.Touch("session-1")
	if ttl := mr.TTL("arith:session:session-1"); ttl != time.Minute {
		t.Fatalf("expected ttl reset to 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists("arith:session:session-1") {
		t.Fatalf("expected marker to expire")
	}
}

func TestLiveSessionsCountsMarkers(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	first := NewSessionStore(client, time.Minute)
	second := NewSessionStore(client, time.Minute)
	first.Save(app.NewSession("a", time.Now()))
	second.Save(app.NewSession("b", time.Now()))
	_ = mr.Set("unrelated", "1")

	live, err := first.LiveSessions(context.Background())
	if err != nil {
		t.Fatalf("live sessions: %v", err)
	}
	if live != 2 {
		t.Fatalf("expected 2 live sessions, got %d", live)
	}
	if first.Count() != 1 {
		t.Fatalf("expected 1 local session, got %d", first.Count())
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
