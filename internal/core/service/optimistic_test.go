package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestOptimistic_RevertRestoresPriorState(t *testing.T) {
	o := NewOptimistic(10, func(n int) int { return n }, zerolog.Nop())
	p := Patch[int]{
		Apply:  func(n int) int { return n + 1 },
		Revert: func(n int) int { return n - 1 },
	}

	var during int
	got, err := o.Mutate(context.Background(), "like", p, func(context.Context) error {
		during = o.State()
		return errors.New("refused")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if during != 11 {
		t.Fatalf("patch must be visible while the call is in flight, saw %d", during)
	}
	if got != 10 || o.State() != 10 {
		t.Fatalf("expected state reverted to 10, got %d/%d", got, o.State())
	}
}

func TestOptimistic_SuccessKeepsPatch(t *testing.T) {
	o := NewOptimistic(0, func(n int) int { return n }, zerolog.Nop())
	p := Patch[int]{
		Apply:  func(n int) int { return n + 5 },
		Revert: func(n int) int { return n - 5 },
	}
	got, err := o.Mutate(context.Background(), "save", p, func(context.Context) error { return nil })
	if err != nil || got != 5 {
		t.Fatalf("expected 5, got %d (%v)", got, err)
	}
}

func TestOptimistic_RevertSparesConcurrentPatches(t *testing.T) {
	o := NewOptimistic(0, func(n int) int { return n }, zerolog.Nop())
	inc := func(by int) Patch[int] {
		return Patch[int]{
			Apply:  func(n int) int { return n + by },
			Revert: func(n int) int { return n - by },
		}
	}

	_, _ = o.Mutate(context.Background(), "like", inc(1), func(context.Context) error {
		// Another toggle lands and succeeds before this one fails.
		_, _ = o.Mutate(context.Background(), "like", inc(100), func(context.Context) error { return nil })
		return errors.New("refused")
	})

	if o.State() != 100 {
		t.Fatalf("expected only the failed patch undone, got %d", o.State())
	}
}
