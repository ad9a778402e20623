package todo

import "github.com/vango-dev/todoview/pkg/reactive"

// Counter is the write capability over the shared remaining tally. Items
// receive one at construction; only the page can read the tally.
type Counter struct {
	sig *reactive.Signal[int]
}

// NewCounter grants write access to sig.
func NewCounter(sig *reactive.Signal[int]) *Counter {
	return &Counter{sig: sig}
}

// Add adjusts the tally by delta.
func (c *Counter) Add(delta int) {
	c.sig.Update(func(n int) int { return n + delta })
}
