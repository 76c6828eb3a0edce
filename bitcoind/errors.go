package bitcoind

import "fmt"

// ErrorCode classifies the fatal conditions the driver can raise. Modeled
// on consensus/errors.go's ErrorCode/TxError shape from the teacher repo —
// here is where that taxonomy actually belongs, since the wire codec's only
// failure channel is cursor poisoning (see wire/ package docs).
type ErrorCode string

const (
	// ErrExecFailed means the child process could not be started at all.
	ErrExecFailed ErrorCode = "BCLI_ERR_EXEC_FAILED"
	// ErrSignaled means the child died from a signal rather than exiting.
	ErrSignaled ErrorCode = "BCLI_ERR_SIGNALED"
	// ErrProtocol means bitcoin-cli produced output that does not match
	// the expected JSON/hex shape for the command (a bug in the CLI or a
	// version mismatch), as opposed to a "missing" result.
	ErrProtocol ErrorCode = "BCLI_ERR_PROTOCOL"
	// ErrStreakExceeded means a run of nonzero, uncaptured exits exceeded
	// the 60-second tolerance window.
	ErrStreakExceeded ErrorCode = "BCLI_ERR_STREAK_EXCEEDED"
	// ErrWarmupFailed means the boot-time warm-up probe saw a nonzero
	// exit other than 28 ("still warming up").
	ErrWarmupFailed ErrorCode = "BCLI_ERR_WARMUP_FAILED"
)

// FatalError is handed to the driver's onFatal hook. It carries enough
// context (command text, exit code, streak length, stdout tail) for an
// operator to diagnose the failure without re-running anything.
type FatalError struct {
	Code       ErrorCode
	Command    string
	ExitCode   int
	Streak     int
	StdoutTail string
	Err        error // non-nil for exec-failed / protocol errors
}

func (e *FatalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: command=%q exit=%d streak=%d", e.Code, e.Command, e.ExitCode, e.Streak)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FatalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
