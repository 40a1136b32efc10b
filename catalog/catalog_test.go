package catalog

import (
	"errors"
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	c := Default()

	v, err := c.Get("ukraine")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Code != "+380" {
		t.Fatalf("expected code +380, got %s", v.Code)
	}
	if v.Format.Prefix != "97" || v.Format.Digits != 7 {
		t.Fatalf("unexpected format rule: %+v", v.Format)
	}

	if _, err := c.Get("atlantis"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New(
		Variant{Key: "b", Code: "+2"},
		Variant{Key: "a", Code: "+1"},
		Variant{Key: "c", Code: "+3"},
	)

	var keys []string
	for v := range c.All() {
		keys = append(keys, v.Key)
	}
	want := []string{"b", "a", "c"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d variants, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], keys[i])
		}
	}
}

func TestAllIsRestartable(t *testing.T) {
	t.Parallel()

	c := Default()

	count := func() int {
		n := 0
		for range c.All() {
			n++
		}
		return n
	}

	first, second := count(), count()
	if first != c.Len() || second != c.Len() {
		t.Fatalf("expected %d variants on both passes, got %d then %d", c.Len(), first, second)
	}
}

func TestNewSkipsDuplicateKeys(t *testing.T) {
	t.Parallel()

	c := New(
		Variant{Key: "x", Price: 10},
		Variant{Key: "x", Price: 99},
	)
	if c.Len() != 1 {
		t.Fatalf("expected 1 variant, got %d", c.Len())
	}
	v, err := c.Get("x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if v.Price != 10 {
		t.Fatalf("expected first entry to win, got price %d", v.Price)
	}
}
