package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/martclinic/clinic-auth/internal/core/ports"
)

type captureSink struct {
	mu      sync.Mutex
	entries []ports.ActivityInput
	fail    bool
}

func (s *captureSink) Record(_ context.Context, in ports.ActivityInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("sink down")
	}
	s.entries = append(s.entries, in)
	return nil
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestActivityDispatcher_Delivers(t *testing.T) {
	sink := &captureSink{}
	d := NewActivityDispatcher(2, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := int64(1); i <= 10; i++ {
		if err := d.Record(context.Background(), ports.ActivityInput{UserID: i, Action: "login", Resource: "authentication"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	waitFor(t, func() bool { return sink.count() == 10 })
}

// Enqueueing never surfaces sink errors: audit logging is fire-and-forget.
func TestActivityDispatcher_SwallowsSinkErrors(t *testing.T) {
	sink := &captureSink{fail: true}
	d := NewActivityDispatcher(1, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.Record(context.Background(), ports.ActivityInput{UserID: 1, Action: "login", Resource: "authentication"}); err != nil {
		t.Fatalf("record must not propagate sink failure: %v", err)
	}
}

// Entries for the same user stay on one worker and keep their order.
func TestActivityDispatcher_PerUserOrdering(t *testing.T) {
	sink := &captureSink{}
	d := NewActivityDispatcher(4, sink, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []string{"login", "update", "logout"}
	for _, a := range actions {
		_ = d.Record(context.Background(), ports.ActivityInput{UserID: 42, Action: a, Resource: "authentication"})
	}
	waitFor(t, func() bool { return sink.count() == len(actions) })

	sink.mu.Lock()
	defer sink.mu.Unlock()
	for i, a := range actions {
		if sink.entries[i].Action != a {
			t.Fatalf("order broken at %d: got %s, want %s", i, sink.entries[i].Action, a)
		}
	}
}
