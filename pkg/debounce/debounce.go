// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package debounce coalesces bursts of calls into one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recent function passed to Do once the delay that
// started with the first call of a burst has elapsed.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: max(delay, 0)}
}

// Do schedules fn, replacing any function still waiting. After Stop, fn runs
// immediately on the caller's goroutine.
func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		fn()
		return
	}

	d.pending = fn
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
	}
	d.mu.Unlock()
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Queued reports whether a function is waiting for its delay.
func (d *Debouncer) Queued() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop runs a waiting function right away and makes later calls synchronous.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true

	var fn func()
	if d.timer != nil && d.timer.Stop() {
		fn = d.pending
	}
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}
