// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "fmt"

// Handle is a reference counted owner of a [Resource]. Every owner that
// keeps the handle calls [Handle.Acquire] (or receives it from [Share])
// and [Handle.Release] when done; the resource is released with the last
// owner. Handles are not safe for concurrent use.
type Handle[T Resource] struct {
	res  T
	refs int
}

// Share wraps res in a new [Handle] with one owner.
func Share[T Resource](res T) *Handle[T] {
	return &Handle[T]{res: res, refs: 1}
}

// Get returns the resource. It panics if the handle is nil or
// has already been fully released.
func (hd *Handle[T]) Get() T {
	if hd == nil || hd.refs <= 0 {
		panic("gpu.Handle: use of a released or nil handle")
	}
	return hd.res
}

// Acquire adds an owner and returns the handle.
func (hd *Handle[T]) Acquire() *Handle[T] {
	if hd.refs <= 0 {
		panic("gpu.Handle: Acquire on a released handle")
	}
	hd.refs++
	return hd
}

// Release drops an owner, releasing the resource when none remain.
// It is a no-op on a nil handle.
func (hd *Handle[T]) Release() {
	if hd == nil {
		return
	}
	if hd.refs <= 0 {
		panic("gpu.Handle: Release called more times than Acquire")
	}
	hd.refs--
	if hd.refs == 0 {
		hd.res.Release()
	}
}

// Refs returns the number of owners.
func (hd *Handle[T]) Refs() int {
	if hd == nil {
		return 0
	}
	return hd.refs
}

// Valid returns whether the handle still refers to a live resource.
func (hd *Handle[T]) Valid() bool {
	return hd != nil && hd.refs > 0
}

func (hd *Handle[T]) String() string {
	if !hd.Valid() {
		return "gpu.Handle(released)"
	}
	return fmt.Sprintf("gpu.Handle(%s, refs: %d)", hd.res.Label(), hd.refs)
}
