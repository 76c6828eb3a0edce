package bitcoind

import (
	"testing"
	"time"
)

func TestWarmupRetriesOnExitCode28ThenSucceeds(t *testing.T) {
	spawn := &scriptedSpawn{results: []childResult{
		{exitCode: 28},
		{exitCode: 28},
		{exitCode: 0, output: []byte("100\n")},
	}}
	c := newTestClient(t, spawn.fn, newFakeClock(), nil)

	done := make(chan error, 1)
	go func() { done <- c.Warmup() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Warmup() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Warmup() did not return")
	}

	if len(spawn.calls) != 3 {
		t.Fatalf("spawn called %d times, want 3", len(spawn.calls))
	}
}

func TestWarmupFailsOnOtherNonzeroExit(t *testing.T) {
	spawn := &scriptedSpawn{results: []childResult{
		{exitCode: 1, output: []byte("error: couldn't connect")},
	}}
	c := newTestClient(t, spawn.fn, newFakeClock(), nil)

	err := c.Warmup()
	if err == nil {
		t.Fatal("expected error")
	}
	fe, ok := err.(*FatalError)
	if !ok || fe.Code != ErrWarmupFailed {
		t.Fatalf("err = %v, want *FatalError{Code: ErrWarmupFailed}", err)
	}
}
