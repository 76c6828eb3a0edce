package bitcoind

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// errorStreakWindow is the tolerance window for consecutive uncaptured
// nonzero exits before the driver escalates to its fatal hook (spec.md
// §4.2, §7).
const errorStreakWindow = 60 * time.Second

// Client drives a single bitcoin-cli binary. All RPC operations are
// strictly serialized through one FIFO queue and one dispatcher goroutine:
// the driver never runs two bitcoin-cli children concurrently, by
// construction rather than by locking around the exec call itself.
type Client struct {
	params  ChainParams
	datadir string
	db      *WalletDB
	logger  *slog.Logger
	clock   Clock
	onFatal func(FatalError)
	spawnFn func([]string) childResult

	mu           sync.Mutex
	cond         *sync.Cond
	queue        []*pendingRequest
	shuttingDown bool

	errCount     int
	firstErrorAt time.Time

	wg sync.WaitGroup
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithClock overrides the default wall-clock Clock, for tests.
func WithClock(clk Clock) Option { return func(c *Client) { c.clock = clk } }

// WithFatalHook overrides the default onFatal behavior (log and exit).
func WithFatalHook(fn func(FatalError)) Option { return func(c *Client) { c.onFatal = fn } }

// NewClient constructs a Client and starts its dispatcher goroutine. The
// caller owns db and must Close it after the Client is closed.
func NewClient(params ChainParams, datadir string, db *WalletDB, opts ...Option) *Client {
	c := &Client{
		params:  params,
		datadir: datadir,
		db:      db,
		logger:  slog.Default(),
		clock:   realClock{},
		spawnFn: spawnAndWait,
	}
	c.cond = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	if c.onFatal == nil {
		c.onFatal = c.logAndExit
	}
	c.wg.Add(1)
	go c.dispatchLoop()
	return c
}

func (c *Client) logAndExit(err FatalError) {
	c.logger.Error("bitcoind: fatal, exiting", "code", err.Code, "command", err.Command,
		"exit_code", err.ExitCode, "streak", err.Streak, "stdout_tail", err.StdoutTail, "error", err.Err)
	os.Exit(1)
}

// enqueue appends req to the tail of the FIFO queue and wakes the
// dispatcher if it is idle. It never blocks.
func (c *Client) enqueue(req *pendingRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shuttingDown {
		return
	}
	c.queue = append(c.queue, req)
	c.cond.Signal()
}

func (c *Client) dispatchLoop() {
	defer c.wg.Done()
	for {
		c.mu.Lock()
		for len(c.queue) == 0 && !c.shuttingDown {
			c.cond.Wait()
		}
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return
		}
		req := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		req.run(c, req)
	}
}

func (c *Client) isShuttingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shuttingDown
}

// Close stops the dispatcher. A request already dispatched runs to
// completion (its child is reaped normally) but its callback is
// suppressed; anything still queued is abandoned untouched (spec.md
// §4.2's shutdown semantics).
func (c *Client) Close() {
	c.mu.Lock()
	c.shuttingDown = true
	c.queue = nil
	c.cond.Signal()
	c.mu.Unlock()
	c.wg.Wait()
}

// spawnCaptured runs argv and returns its result verbatim: exit code and
// output are handed back to the caller as-is. A nonzero exit never advances
// the error streak; a zero exit resets it, as for any other call. Used for
// operations whose own return value already carries the failure
// (send_rawtx, get_output's chain, get_block_hash).
func (c *Client) spawnCaptured(argv []string) (childResult, bool) {
	res := c.spawnFn(argv)
	if res.execErr != nil {
		c.onFatal(*res.execErr)
		return res, false
	}
	if res.exitCode == 0 {
		c.resetStreak()
	}
	return res, true
}

// spawnTracked runs argv and folds its exit code into the error-streak
// policy: a zero exit resets the streak, a nonzero exit advances it and,
// once the streak has spanned more than errorStreakWindow, escalates to
// the fatal hook. Used for operations whose nonzero exit is always an
// unexpected daemon problem (estimate_fees, get_raw_block, get_block_count).
func (c *Client) spawnTracked(argv []string) (childResult, bool) {
	res := c.spawnFn(argv)
	if res.execErr != nil {
		c.onFatal(*res.execErr)
		return res, false
	}
	if res.exitCode == 0 {
		c.resetStreak()
		return res, true
	}
	c.advanceStreak(joinArgv(argv), res.exitCode, res.output)
	return res, true
}

func (c *Client) resetStreak() {
	c.mu.Lock()
	c.errCount = 0
	c.firstErrorAt = time.Time{}
	c.mu.Unlock()
}

func (c *Client) advanceStreak(cmdText string, exitCode int, stdout []byte) {
	c.mu.Lock()
	c.errCount++
	if c.firstErrorAt.IsZero() {
		c.firstErrorAt = c.clock.Now()
	}
	streak := c.clock.Now().Sub(c.firstErrorAt)
	errCount := c.errCount
	c.mu.Unlock()

	c.logger.Warn("bitcoind: nonzero exit", "command", cmdText, "exit_code", exitCode, "streak_seconds", streak.Seconds())

	if streak > errorStreakWindow {
		c.onFatal(FatalError{
			Code:       ErrStreakExceeded,
			Command:    cmdText,
			ExitCode:   exitCode,
			Streak:     errCount,
			StdoutTail: tail(stdout, 256),
		})
	}
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}

// submit wraps run in a pendingRequest bound to ctx and enqueues it. A
// caller whose ctx is already cancelled still gets queued — deliver()
// checks ctx liveness again at the moment the result would be handed
// back, which is the point that actually matters.
func (c *Client) submit(ctx context.Context, run func(c *Client, req *pendingRequest)) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.enqueue(&pendingRequest{ctx: ctx, run: run})
}
