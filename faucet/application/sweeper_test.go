package application

import (
	"context"
	"testing"
	"time"

	"faucet-gateway/faucet/infra"
)

type countingSweeper struct{ n int }

func (c *countingSweeper) Sweep() { c.n++ }

func TestSweeper_TickCallsTarget(t *testing.T) {
	target := &countingSweeper{}
	s := &Sweeper{Target: target}

	s.Tick()
	s.Tick()
	if target.n != 2 {
		t.Fatalf("expected 2 sweeps, got %d", target.n)
	}
}

func TestSweeper_TickEvictsFromGatingState(t *testing.T) {
	state := infra.NewGatingState(nil, time.Nanosecond, time.Nanosecond)
	state.Challenges.Issue()
	state.Limits.TryAcquire("k")
	time.Sleep(time.Millisecond)

	(&Sweeper{Target: state}).Tick()

	if c, l := state.Sizes(); c != 0 || l != 0 {
		t.Fatalf("expected empty stores, got %d/%d", c, l)
	}
}

func TestSweeper_StartValidatesInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := (&Sweeper{}).Start(ctx); err == nil {
		t.Fatalf("expected error for nil target")
	}
	if err := (&Sweeper{Target: &countingSweeper{}, Interval: 10 * time.Millisecond}).Start(ctx); err == nil {
		t.Fatalf("expected error for sub-second interval")
	}
	if err := (&Sweeper{Target: &countingSweeper{}, Interval: time.Hour}).Start(ctx); err != nil {
		t.Fatalf("expected hourly sweeper to start, got %v", err)
	}
}
