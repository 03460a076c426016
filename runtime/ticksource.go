package runtime

import (
	"context"
	"time"
)

// FixedTicker is a TickSource driven by a wall-clock time.Ticker, the
// production clock for the "run" CLI surface (spec §6). Next blocks until
// the ticker fires or ctx is cancelled; a cancelled ctx reports
// end-of-stream rather than an error, since tick-loop termination is
// expected to be ordinary shutdown, not a fault (spec §4.6 Termination).
type FixedTicker struct {
	period time.Duration
	ticker *time.Ticker
	limit  int // 0 means unbounded
	count  int
}

// NewFixedTicker returns a FixedTicker firing every period. A positive
// limit caps the number of ticks delivered before Next reports
// end-of-stream, useful for scripted test runs; zero means run forever.
func NewFixedTicker(period time.Duration, limit int) *FixedTicker {
	return &FixedTicker{period: period, ticker: time.NewTicker(period), limit: limit}
}

// Next waits for the next tick boundary.
func (f *FixedTicker) Next(ctx context.Context) bool {
	if f.limit > 0 && f.count >= f.limit {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-f.ticker.C:
		f.count++
		return true
	}
}

// Stop releases the underlying ticker. Callers should invoke this once
// Run has returned.
func (f *FixedTicker) Stop() {
	f.ticker.Stop()
}
