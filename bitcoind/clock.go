package bitcoind

import "time"

// Clock abstracts wall-clock time so the 60-second error-streak window
// (spec.md §4.2) can be tested without real sleeps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
