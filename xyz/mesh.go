// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/render"
	"github.com/gogpu/gputypes"
)

// Primitive is one indexed draw of a [Mesh].
type Primitive struct {
	// VertexArray holds the vertex and index buffer bindings.
	VertexArray *gpu.Handle[gpu.VertexArray]

	// Buffers are the vertex and index buffers bound in VertexArray.
	Buffers []*gpu.Handle[gpu.Buffer]

	Topology gputypes.PrimitiveTopology

	// First is the offset of the first index, in elements.
	First int

	// Count is the number of indices drawn.
	Count int

	IndexType gpu.IndexType

	Instances int
}

// Mesh is the renderable geometry of an entity: primitives paired
// one to one with their materials.
type Mesh struct {
	Primitives []Primitive
	Materials  []*render.Material

	HasNormals  bool
	HasTangents bool
}

// Add appends a primitive with its material.
func (ms *Mesh) Add(pr Primitive, mt *render.Material) {
	ms.Primitives = append(ms.Primitives, pr)
	ms.Materials = append(ms.Materials, mt)
}

// Release drops the references the mesh holds on device objects.
func (ms *Mesh) Release() {
	for i := range ms.Primitives {
		ms.Primitives[i].VertexArray.Release()
		ms.Primitives[i].VertexArray = nil
		for _, bf := range ms.Primitives[i].Buffers {
			bf.Release()
		}
		ms.Primitives[i].Buffers = nil
	}
	for _, mt := range ms.Materials {
		if mt != nil {
			mt.Release()
		}
	}
	ms.Primitives = nil
	ms.Materials = nil
}
