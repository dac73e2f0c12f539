// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorBound(t *testing.T) {
	al := NewAllocator(0)
	assert.Equal(t, DefaultMaxEntities, al.Max)
	var last Entity
	for range DefaultMaxEntities {
		last = al.New()
	}
	assert.Equal(t, Entity(DefaultMaxEntities), last)
	assert.Equal(t, DefaultMaxEntities, al.Len())
	assert.Panics(t, func() { al.New() })
}

func TestAllocatorMonotonic(t *testing.T) {
	al := NewAllocator(3)
	assert.Equal(t, InvalidEntity, al.Last())
	assert.Equal(t, Entity(1), al.New())
	assert.Equal(t, Entity(2), al.New())
	assert.Equal(t, Entity(3), al.New())
	assert.Panics(t, func() { al.New() })
	al.Grow(2)
	assert.Equal(t, Entity(4), al.New())
	assert.Equal(t, Entity(4), al.Last())
}

func TestEntityString(t *testing.T) {
	assert.Equal(t, "invalid", InvalidEntity.String())
	assert.Equal(t, "e12", Entity(12).String())
	assert.False(t, InvalidEntity.IsValid())
}

func TestAllocatorReset(t *testing.T) {
	al := NewAllocator(2)
	al.New()
	al.New()
	assert.Panics(t, func() { al.New() })
	al.Reset()
	assert.Equal(t, 0, al.Len())
	assert.Equal(t, 2, al.Max)
	assert.Equal(t, Entity(1), al.New())
}
