package inventory

import "sync/atomic"

// BusySignal reports whether an inventory operation is in flight. While busy,
// grids stop accepting pointer input.
type BusySignal interface {
	Busy() bool
}

// BusyFlag is a BusySignal safe for use from any goroutine.
type BusyFlag struct {
	v atomic.Bool
}

// Busy implements BusySignal.
func (f *BusyFlag) Busy() bool { return f.v.Load() }

// Set stores the flag.
func (f *BusyFlag) Set(busy bool) { f.v.Store(busy) }

// NotBusy is a BusySignal that is never set.
type NotBusy struct{}

// Busy implements BusySignal.
func (NotBusy) Busy() bool { return false }
