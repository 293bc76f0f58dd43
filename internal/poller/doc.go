// Package poller runs archive passes on a fixed interval.
//
// The poller runs one pass immediately on Start, then one per tick until
// Stop or context cancellation. A failed pass is logged and the next tick
// proceeds as usual.
package poller
