package bitcoind

import (
	"context"

	bolt "go.etcd.io/bbolt"
)

// pendingRequest is one queued unit of work. run performs whatever
// bitcoin-cli invocation(s) the operation needs and, if the request's
// context is still live and the driver is not shutting down, delivers the
// result inside a WalletDB transaction. It always executes on the
// dispatcher goroutine, never concurrently with another pendingRequest.
type pendingRequest struct {
	ctx context.Context
	run func(c *Client, req *pendingRequest)
}

// deliver runs fn inside the wallet-database transaction bracket, unless
// the request's context has already been cancelled or the driver is
// shutting down — in either case the child process still ran and was
// reaped, but no callback fires (spec.md §4.2, §7).
func (r *pendingRequest) deliver(c *Client, fn func()) {
	if r.ctx.Err() != nil {
		return
	}
	if c.isShuttingDown() {
		return
	}
	if err := c.db.Update(func(_ *bolt.Tx) error {
		fn()
		return nil
	}); err != nil {
		c.logger.Error("bitcoind: callback transaction failed", "error", err)
	}
}
