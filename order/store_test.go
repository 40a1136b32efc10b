package order

import (
	"errors"
	"sync"
	"testing"
)

func TestStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	o := Order{ID: "o-1", UserID: 7, State: StatePending}

	if err := s.Create(o); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := s.Create(o); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	got, ok := s.Get("o-1")
	if !ok {
		t.Fatal("expected order to exist")
	}
	if got.UserID != 7 || got.State != StatePending {
		t.Fatalf("unexpected order: %+v", got)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected missing order to be absent")
	}
}

func TestStoreTransitionCAS(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if err := s.Create(Order{ID: "o-1", State: StatePending}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, ok := s.Transition("o-1", StatePending, StateConfirmed)
	if !ok {
		t.Fatal("expected transition to succeed")
	}
	if got.State != StateConfirmed {
		t.Fatalf("expected confirmed, got %s", got.State)
	}

	// Second transition from pending must lose: no backward moves.
	if _, ok := s.Transition("o-1", StatePending, StateConfirmed); ok {
		t.Fatal("expected stale transition to fail")
	}
	if _, ok := s.Transition("missing", StatePending, StateConfirmed); ok {
		t.Fatal("expected transition on missing order to fail")
	}
}

func TestStoreRemoveIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if err := s.Create(Order{ID: "o-1", State: StatePending}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, ok := s.Remove("o-1"); !ok {
		t.Fatal("expected first removal to succeed")
	}
	if _, ok := s.Remove("o-1"); ok {
		t.Fatal("expected second removal to report absence")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestStoreTransitionExactlyOnceUnderContention(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if err := s.Create(Order{ID: "o-1", State: StatePending}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.Transition("o-1", StatePending, StateConfirmed); ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("expected exactly one winning transition, got %d", won)
	}
}
