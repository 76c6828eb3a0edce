package bitcoind

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually-advanced Clock for deterministic streak tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(0, 0)} }

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// scriptedSpawn replays a fixed sequence of childResults regardless of
// argv, recording call order for FIFO/single-flight assertions.
type scriptedSpawn struct {
	mu      sync.Mutex
	results []childResult
	calls   []string
}

func (s *scriptedSpawn) fn(argv []string) childResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, joinArgv(argv))
	if len(s.results) == 0 {
		return childResult{exitCode: 0, output: []byte("0\n")}
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r
}

func newTestClient(t *testing.T, spawn func([]string) childResult, clock Clock, onFatal func(FatalError)) *Client {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenWalletDB(dir)
	if err != nil {
		t.Fatalf("OpenWalletDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	opts := []Option{WithClock(clock)}
	if onFatal != nil {
		opts = append(opts, WithFatalHook(onFatal))
	}
	c := NewClient(ChainParams{Binary: "bitcoin-cli"}, dir, db, opts...)
	c.spawnFn = spawn
	t.Cleanup(c.Close)
	return c
}

func TestClientFIFOOrdering(t *testing.T) {
	spawn := &scriptedSpawn{}
	c := newTestClient(t, spawn.fn, newFakeClock(), nil)

	var mu sync.Mutex
	var order []uint32
	var wg sync.WaitGroup
	for i := uint32(0); i < 5; i++ {
		wg.Add(1)
		i := i
		c.GetBlockCount(context.Background(), func(height uint32) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range order {
		if v != uint32(i) {
			t.Fatalf("callback order = %v, want sequential 0..4", order)
		}
	}
}

func TestClientStreakResetsOnSuccess(t *testing.T) {
	// estimate_fees always delivers a callback (a nonzero exit just
	// yields a 0 rate), so it can drive the streak through both failing
	// and succeeding calls while still letting the test observe completion.
	spawn := &scriptedSpawn{results: []childResult{
		{exitCode: 1, output: []byte("err")},
		{exitCode: 0, output: []byte(`{"feerate":0.0001}`)},
		{exitCode: 1, output: []byte("err")},
	}}
	clock := newFakeClock()
	var fatalCount int
	var mu sync.Mutex
	c := newTestClient(t, spawn.fn, clock, func(FatalError) {
		mu.Lock()
		fatalCount++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		c.EstimateFees(context.Background(), []uint32{6}, "economical", func(map[uint32]int64) { wg.Done() })
	}
	clock.Advance(5 * time.Second)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fatalCount != 0 {
		t.Fatalf("fatalCount = %d, want 0 (success should reset the streak)", fatalCount)
	}
}

func TestClientStreakExceededTriggersFatal(t *testing.T) {
	spawn := &scriptedSpawn{}
	clock := newFakeClock()
	fatalCh := make(chan FatalError, 1)
	c := newTestClient(t, spawn.fn, clock, func(fe FatalError) { fatalCh <- fe })

	// First failing call establishes firstErrorAt.
	done := make(chan struct{})
	spawn.results = []childResult{{exitCode: 1, output: []byte("err")}}
	c.EstimateFees(context.Background(), []uint32{6}, "economical", func(map[uint32]int64) { close(done) })
	<-done

	clock.Advance(61 * time.Second)

	spawn.mu.Lock()
	spawn.results = []childResult{{exitCode: 1, output: []byte("err again")}}
	spawn.mu.Unlock()
	done2 := make(chan struct{})
	c.EstimateFees(context.Background(), []uint32{6}, "economical", func(map[uint32]int64) { close(done2) })

	select {
	case fe := <-fatalCh:
		if fe.Code != ErrStreakExceeded {
			t.Fatalf("fatal code = %v, want ErrStreakExceeded", fe.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected fatal hook to fire")
	}
	<-done2
}

func TestClientCancelledContextSuppressesCallback(t *testing.T) {
	spawn := &scriptedSpawn{}
	c := newTestClient(t, spawn.fn, newFakeClock(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := make(chan struct{}, 1)
	c.GetBlockCount(ctx, func(uint32) { called <- struct{}{} })

	// Give the dispatcher a chance to process and reap the child even
	// though the callback must not fire.
	time.Sleep(50 * time.Millisecond)
	select {
	case <-called:
		t.Fatal("callback fired for a cancelled request")
	default:
	}
}

func TestClientCloseAbandonsQueuedWork(t *testing.T) {
	spawn := &scriptedSpawn{}
	c := newTestClient(t, spawn.fn, newFakeClock(), nil)

	called := make(chan struct{}, 1)
	c.Close()
	c.GetBlockCount(context.Background(), func(uint32) { called <- struct{}{} })

	time.Sleep(20 * time.Millisecond)
	select {
	case <-called:
		t.Fatal("callback fired after Close")
	default:
	}
}
