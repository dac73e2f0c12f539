// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ecs provides the entity and component storage used by scenes.

An [Entity] is a bare integer identifier issued by an [Allocator].
Components of one type live in a [Store], a densely packed ordered list
of values keyed by entity, with a map from entity to index for fast lookup.
Stores are order-sensitive: iteration always follows index order, and
the order can be changed explicitly with [Store.Move] and [Store.Permute].
*/
package ecs

import "strconv"

// Entity is an opaque identifier for a scene object.
// The zero value is [InvalidEntity] and never refers to anything.
type Entity uint32

// InvalidEntity is the reserved identifier that refers to no entity.
const InvalidEntity Entity = 0

// IsValid returns whether the entity is not [InvalidEntity].
func (e Entity) IsValid() bool {
	return e != InvalidEntity
}

func (e Entity) String() string {
	if e == InvalidEntity {
		return "invalid"
	}
	return "e" + strconv.FormatUint(uint64(e), 10)
}
