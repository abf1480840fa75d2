// Copyright 2022 The PJOS Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package solver

import "time"

// Interrupter is anything whose in-flight solve can be cooperatively
// cancelled.
type Interrupter interface {
	Interrupt()
}

// Ctl is a connection to a Solve running in its own goroutine.  It
// implements the inter.Solve interface.
type Ctl struct {
	intr Interrupter
	c    chan Status
	st   Status
	done bool
}

// GoSolve runs run in a new goroutine and returns a control for it.  The
// interrupter must cancel the solve that run performs.
func GoSolve(intr Interrupter, run func() Status) *Ctl {
	ctl := &Ctl{intr: intr, c: make(chan Status, 1)}
	go func() {
		ctl.c <- run()
	}()
	return ctl
}

// Wait blocks until the solve completes and returns its result code.
func (c *Ctl) Wait() int {
	if !c.done {
		c.st = <-c.c
		c.done = true
	}
	return c.st.Int()
}

// Stop cancels the solve and waits for it to wind down.
func (c *Ctl) Stop() int {
	if !c.done {
		c.intr.Interrupt()
	}
	return c.Wait()
}

// Try waits for the result for at most d; on timeout the solve is cancelled
// and Try returns the post-cancellation result (normally 0).
func (c *Ctl) Try(d time.Duration) int {
	if c.done {
		return c.st.Int()
	}
	select {
	case st := <-c.c:
		c.st = st
		c.done = true
		return c.st.Int()
	case <-time.After(d):
		return c.Stop()
	}
}
