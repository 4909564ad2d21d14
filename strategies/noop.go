package strategies

import "github.com/rustyeddy/backsim/book"

// Noop emits no signals. Useful as a baseline: a run with it should end
// with equity equal to initial capital.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Signals(Snapshot, []book.Position) []OrderIntent { return nil }
