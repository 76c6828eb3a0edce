package bitcoind

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lnbridge.dev/node/wire"
)

// EstimateFees estimates a satoshi-per-kw feerate for each of targets
// (confirmation-target block counts) under the given estimate mode
// ("economical" | "conservative"). Each target is its own bitcoin-cli call
// and its exit code feeds the shared error-streak policy (spec.md §4.2):
// a missing "feerate" field in an otherwise-successful response is not an
// error, just a 0 entry.
func (c *Client) EstimateFees(ctx context.Context, targets []uint32, mode string, cb func(rates map[uint32]int64)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		rates := make(map[uint32]int64, len(targets))
		for _, target := range targets {
			argv := c.params.argv(c.datadir, "estimatesmartfee", []string{fmt.Sprintf("%d", target), mode})
			res, ok := c.spawnTracked(argv)
			if !ok {
				return
			}
			if res.exitCode != 0 {
				rates[target] = 0
				continue
			}
			rate, err := processEstimateFee(c.logger, target, mode, res.output)
			if err != nil {
				c.onFatal(*asFatal(err))
				return
			}
			rates[target] = rate
		}
		req.deliver(c, func() { cb(rates) })
	})
}

// SendRawTxResult is the outcome of SendRawTx: either a broadcast txid, or
// the verbatim exit code and message bitcoin-cli produced on rejection.
type SendRawTxResult struct {
	OK      bool
	Txid    string
	ExitCode int
	Message string
}

// SendRawTx broadcasts rawtxHex. Its result is captured verbatim — a
// rejected transaction is a normal outcome of this operation, not a driver
// failure, so a nonzero exit does not advance the error streak (spec.md
// §4.2); a successful broadcast resets it.
func (c *Client) SendRawTx(ctx context.Context, rawtxHex string, cb func(SendRawTxResult)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		argv := c.params.argv(c.datadir, "sendrawtransaction", []string{rawtxHex})
		res, ok := c.spawnCaptured(argv)
		if !ok {
			return
		}
		var out SendRawTxResult
		text := strings.TrimSpace(string(res.output))
		if res.exitCode == 0 {
			out = SendRawTxResult{OK: true, Txid: text, ExitCode: 0}
		} else {
			out = SendRawTxResult{OK: false, ExitCode: res.exitCode, Message: text}
		}
		req.deliver(c, func() { cb(out) })
	})
}

// GetRawBlock fetches the raw serialized bytes of blockHash. A nonzero
// exit here means the daemon itself failed to produce a block it was
// asked for by hash (the caller already believes the hash is valid), so
// unlike GetOutput/GetBlockHash this is tracked against the error streak
// rather than treated as an ordinary "missing" outcome.
func (c *Client) GetRawBlock(ctx context.Context, blockHash string, cb func(ok bool, raw []byte)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		argv := c.params.argv(c.datadir, "getblock", []string{blockHash, "false"})
		res, ok := c.spawnTracked(argv)
		if !ok {
			return
		}
		if res.exitCode != 0 {
			req.deliver(c, func() { cb(false, nil) })
			return
		}
		raw, err := processGetRawBlock(res.output)
		if err != nil {
			c.onFatal(*asFatal(err))
			return
		}
		req.deliver(c, func() { cb(true, raw) })
	})
}

// GetBlockCount fetches the current chain height.
func (c *Client) GetBlockCount(ctx context.Context, cb func(height uint32)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		argv := c.params.argv(c.datadir, "getblockcount", nil)
		res, ok := c.spawnTracked(argv)
		if !ok {
			return
		}
		if res.exitCode != 0 {
			return // counted against the streak already; nothing sane to deliver
		}
		height, err := processGetBlockCount(res.output)
		if err != nil {
			c.onFatal(*asFatal(err))
			return
		}
		req.deliver(c, func() { cb(height) })
	})
}

// GetOutput resolves the output at (blockHeight, txIndex, outputIndex) by
// chaining getblockhash -> getblock -> gettxout. Any nonzero exit anywhere
// in the chain (or an out-of-range index) resolves to Output{Missing:
// true} rather than a driver failure — the caller is asking "does this
// output exist", and "no" is a normal answer (spec.md §4.2, §8 scenario
// 6). No nonzero exit in the chain advances the error streak; each zero
// exit resets it.
func (c *Client) GetOutput(ctx context.Context, blockHeight, txIndex, outputIndex uint32, cb func(Output)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		missing := func() { req.deliver(c, func() { cb(Output{Missing: true}) }) }

		hashArgv := c.params.argv(c.datadir, "getblockhash", []string{fmt.Sprintf("%d", blockHeight)})
		hashRes, ok := c.spawnCaptured(hashArgv)
		if !ok {
			return
		}
		if hashRes.exitCode != 0 {
			missing()
			return
		}
		blockHash := strings.TrimSpace(string(hashRes.output))

		blockArgv := c.params.argv(c.datadir, "getblock", []string{blockHash})
		blockRes, ok := c.spawnCaptured(blockArgv)
		if !ok {
			return
		}
		if blockRes.exitCode != 0 {
			missing()
			return
		}
		txid, txMissing, err := blockTxidAtIndex(blockRes.output, txIndex)
		if err != nil {
			c.onFatal(*asFatal(err))
			return
		}
		if txMissing {
			missing()
			return
		}

		outArgv := c.params.argv(c.datadir, "gettxout", []string{txid, fmt.Sprintf("%d", outputIndex)})
		outRes, ok := c.spawnCaptured(outArgv)
		if !ok {
			return
		}
		if outRes.exitCode != 0 {
			missing()
			return
		}
		output, err := processGetTxOut(outRes.output)
		if err != nil {
			c.onFatal(*asFatal(err))
			return
		}
		req.deliver(c, func() { cb(output) })
	})
}

// GetBlockHash resolves the block hash at height, or nil if height has no
// block yet (captured: a height past the tip is a normal "not yet", not a
// driver failure, per spec.md §4.2's end-to-end scenario for this op).
func (c *Client) GetBlockHash(ctx context.Context, height uint32, cb func(id *wire.BlockID)) {
	c.submit(ctx, func(c *Client, req *pendingRequest) {
		argv := c.params.argv(c.datadir, "getblockhash", []string{fmt.Sprintf("%d", height)})
		res, ok := c.spawnCaptured(argv)
		if !ok {
			return
		}
		if res.exitCode != 0 {
			req.deliver(c, func() { cb(nil) })
			return
		}
		id, err := processGetBlockHash(res.output)
		if err != nil {
			c.onFatal(*asFatal(err))
			return
		}
		req.deliver(c, func() { cb(&id) })
	})
}

func asFatal(err error) *FatalError {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe
	}
	return &FatalError{Code: ErrProtocol, Err: err}
}
