// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"time"

	"cogentcore.org/core/base/timer"
)

// Timer measures wall clock time between frames. Each
// [Timer.Restart] adds the finished interval to the embedded
// [timer.Time], so Avg is the mean frame time.
type Timer struct {
	timer.Time

	// Now returns the current time; nil uses [time.Now].
	Now func() time.Time
}

func (tm *Timer) now() time.Time {
	if tm.Now != nil {
		return tm.Now()
	}
	return time.Now()
}

// Start starts the timer if it is not running.
func (tm *Timer) Start() {
	if !tm.St.IsZero() {
		return
	}
	tm.St = tm.now()
}

// Restart records the current interval and starts a new one from now.
func (tm *Timer) Restart() {
	now := tm.now()
	if !tm.St.IsZero() {
		tm.Total += now.Sub(tm.St)
		tm.N++
	}
	tm.St = now
}

// Elapsed returns the time since the timer was started, 0 if stopped.
func (tm *Timer) Elapsed() time.Duration {
	if tm.St.IsZero() {
		return 0
	}
	return tm.now().Sub(tm.St)
}

// Seconds returns [Timer.Elapsed] in seconds at microsecond resolution.
func (tm *Timer) Seconds() float32 {
	return float32(tm.Elapsed().Microseconds()) * 1e-6
}

func (tm *Timer) Stop() {
	tm.St = time.Time{}
}
