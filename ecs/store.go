// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecs

import (
	"fmt"

	"cogentcore.org/core/base/keylist"
)

// Store is a densely packed ordered list of components of one type,
// keyed by owning entity. It extends [keylist.List] with a population
// bound, swap removal and bulk reordering.
//
// Values are preallocated to the store capacity, so a pointer returned
// by [Store.Create] or [Store.Get] stays valid until the next call that
// removes or reorders entries, or grows the store. The embedded
// [keylist.List] Set, Insert and Copy methods do not check the bound.
type Store[T any] struct {
	keylist.List[Entity, T]

	// limit is the population bound; 0 means unbounded.
	limit int
}

// NewStore returns a new [Store] that can hold up to capacity components;
// a capacity <= 0 uses [DefaultMaxEntities].
func NewStore[T any](capacity int) *Store[T] {
	if capacity <= 0 {
		capacity = DefaultMaxEntities
	}
	st := &Store[T]{limit: capacity}
	st.Values = make([]T, 0, capacity)
	st.Keys = make([]Entity, 0, capacity)
	st.UpdateIndexes()
	return st
}

// Cap returns the number of components the store can hold,
// or 0 if it is unbounded.
func (st *Store[T]) Cap() int {
	return st.limit
}

// Create appends a zero-valued component for the given entity and returns
// a pointer to it. It panics if the entity is invalid, already has a
// component in this store, or the store is full.
func (st *Store[T]) Create(e Entity) *T {
	var zv T
	return st.Add(e, zv)
}

// Add appends the given component value for the given entity,
// with the same contract as [Store.Create].
func (st *Store[T]) Add(e Entity, val T) *T {
	if !e.IsValid() {
		panic("ecs.Store: cannot add a component for the invalid entity")
	}
	if st.limit > 0 && st.Len() >= st.limit && !st.Has(e) {
		panic(fmt.Sprintf("ecs.Store: %T store is full at %d components", val, st.limit))
	}
	if err := st.List.Add(e, val); err != nil {
		panic(fmt.Sprintf("ecs.Store: %T component: %v", val, err))
	}
	return &st.Values[len(st.Values)-1]
}

// Get returns the component for the given entity, or nil if it has none.
func (st *Store[T]) Get(e Entity) *T {
	idx := st.IndexByKey(e)
	if idx < 0 {
		return nil
	}
	return &st.Values[idx]
}

// Has returns whether the entity has a component in this store.
func (st *Store[T]) Has(e Entity) bool {
	return st.IndexByKey(e) >= 0
}

// IndexOf returns the index of the entity's component, or -1.
func (st *Store[T]) IndexOf(e Entity) int {
	return st.IndexByKey(e)
}

// At returns the component at the given index.
func (st *Store[T]) At(idx int) *T {
	return &st.Values[idx]
}

// EntityAt returns the entity owning the component at the given index.
func (st *Store[T]) EntityAt(idx int) Entity {
	return st.Keys[idx]
}

// Entities returns the owning entities in index order.
// The slice is owned by the store and must not be modified.
func (st *Store[T]) Entities() []Entity {
	return st.Keys
}

// Remove removes the entity's component by moving the last entry
// into its slot. Order is not preserved. It is a no-op if the entity
// has no component.
func (st *Store[T]) Remove(e Entity) {
	idx := st.IndexByKey(e)
	if idx < 0 {
		return
	}
	last := st.Len() - 1
	if idx == last {
		st.DeleteByIndex(last, last+1)
		return
	}
	st.Values[idx] = st.Values[last]
	st.RenameIndex(idx, st.Keys[last])
	var zv T
	st.Values[last] = zv
	st.Values = st.Values[:last]
	st.Keys = st.Keys[:last]
}

// SortRemove removes the entity's component and shifts the following
// entries down, preserving order. It is a no-op if the entity
// has no component.
func (st *Store[T]) SortRemove(e Entity) {
	st.DeleteByKey(e)
}

// Move relocates the entry at index from to index to, shifting
// the entries in between by one.
func (st *Store[T]) Move(from, to int) {
	if from == to {
		return
	}
	val := st.Values[from]
	key := st.Keys[from]
	if from < to {
		copy(st.Values[from:to], st.Values[from+1:to+1])
		copy(st.Keys[from:to], st.Keys[from+1:to+1])
	} else {
		copy(st.Values[to+1:from+1], st.Values[to:from])
		copy(st.Keys[to+1:from+1], st.Keys[to:from])
	}
	st.Values[to] = val
	st.Keys[to] = key
	st.UpdateIndexes()
}

// Permute reorders the whole store in one step: the entry that was at
// index order[i] ends up at index i. It panics if order is not a
// permutation of the current indexes.
func (st *Store[T]) Permute(order []int) {
	n := st.Len()
	if len(order) != n {
		panic(fmt.Sprintf("ecs.Store: Permute order has %d entries, store has %d", len(order), n))
	}
	seen := make([]bool, n)
	vals := make([]T, n)
	keys := make([]Entity, n)
	for i, from := range order {
		if from < 0 || from >= n || seen[from] {
			panic(fmt.Sprintf("ecs.Store: Permute order is not a permutation at %d", i))
		}
		seen[from] = true
		vals[i] = st.Values[from]
		keys[i] = st.Keys[from]
	}
	copy(st.Values, vals)
	copy(st.Keys, keys)
	st.UpdateIndexes()
}

// ForEach calls fn for each component in index order, passing a pointer
// to the current index. If allowIndexMutation is true, fn may change the
// index to skip entries (for example ones it just relocated), and
// iteration continues after the index it leaves behind. Otherwise writes
// to the index are ignored.
func (st *Store[T]) ForEach(fn func(c *T, index *int), allowIndexMutation bool) {
	for i := 0; i < len(st.Values); i++ {
		idx := i
		fn(&st.Values[i], &idx)
		if allowIndexMutation {
			i = idx
		}
	}
}

// Reset removes all components, keeping the capacity.
func (st *Store[T]) Reset() {
	clear(st.Values)
	st.Values = st.Values[:0]
	st.Keys = st.Keys[:0]
	st.UpdateIndexes()
}

// Grow adds room for n more components. Existing component pointers
// are invalidated.
func (st *Store[T]) Grow(n int) {
	if n <= 0 || st.limit == 0 {
		return
	}
	st.limit += n
	vals := make([]T, len(st.Values), st.limit)
	copy(vals, st.Values)
	keys := make([]Entity, len(st.Keys), st.limit)
	copy(keys, st.Keys)
	st.Values, st.Keys = vals, keys
}
