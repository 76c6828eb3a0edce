package bitcoind

import "time"

// warmupPollInterval is how long the warm-up probe sleeps between retries
// while bitcoin-cli reports exit code 28 ("still loading wallet/verifying
// blocks"), per spec.md §4.2.
const warmupPollInterval = 1 * time.Second

// const used by real bitcoind/bitcoin-cli to mean "still warming up".
const exitStillWarmingUp = 28

// Warmup runs a synchronous "echo" probe loop before any other request is
// accepted, retrying once a second on exit code 28 and treating any other
// nonzero exit as immediately fatal. It blocks the caller (by design —
// there is nothing useful to serialize behind a daemon that isn't up yet)
// and must be called before the first real operation is submitted.
func (c *Client) Warmup() error {
	loggedOnce := false
	for {
		res := c.spawnFn(c.params.argv(c.datadir, "echo", nil))
		if res.execErr != nil {
			return res.execErr
		}
		if res.exitCode == 0 {
			return nil
		}
		if res.exitCode != exitStillWarmingUp {
			err := &FatalError{
				Code:       ErrWarmupFailed,
				Command:    "echo",
				ExitCode:   res.exitCode,
				StdoutTail: tail(res.output, 256),
			}
			return err
		}
		if !loggedOnce {
			c.logger.Info("bitcoind: waiting for daemon to finish warming up")
			loggedOnce = true
		}
		time.Sleep(warmupPollInterval)
	}
}
