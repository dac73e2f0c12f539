// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecs

import "fmt"

// DefaultMaxEntities is the population bound used when none is configured.
const DefaultMaxEntities = 1000

// Allocator issues entity identifiers in increasing order starting at 1.
// Identifiers are not reused until [Allocator.Reset].
// Each scene owns its own Allocator.
type Allocator struct {
	// Max is the largest number of entities that can be issued.
	Max int

	// last is the most recently issued identifier.
	last Entity
}

// NewAllocator returns a new [Allocator] with the given bound;
// a bound <= 0 uses [DefaultMaxEntities].
func NewAllocator(max int) *Allocator {
	al := &Allocator{}
	al.Defaults()
	if max > 0 {
		al.Max = max
	}
	return al
}

func (al *Allocator) Defaults() {
	al.Max = DefaultMaxEntities
}

// New issues the next entity identifier. It panics when the bound
// is exceeded, which is a fatal programmer error: the caller must
// size the scene for its content, or call [Allocator.Grow].
func (al *Allocator) New() Entity {
	if al.Max <= 0 {
		al.Defaults()
	}
	if int(al.last) >= al.Max {
		panic(fmt.Sprintf("ecs.Allocator: entity limit of %d exceeded", al.Max))
	}
	al.last++
	return al.last
}

// Len returns the number of identifiers issued so far.
func (al *Allocator) Len() int {
	return int(al.last)
}

// Last returns the most recently issued identifier,
// or [InvalidEntity] if none has been issued.
func (al *Allocator) Last() Entity {
	return al.last
}

// Grow raises the bound by n.
func (al *Allocator) Grow(n int) {
	if n > 0 {
		al.Max += n
	}
}

// Reset starts issuing identifiers from 1 again, keeping the bound.
// Entities issued before must no longer be used.
func (al *Allocator) Reset() {
	al.last = InvalidEntity
}
