// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
)

// Builder assembles a [Document] in code, for procedural content
// and tests. Each Add method returns the index of the new element.
type Builder struct {
	Doc *Document
}

// NewBuilder returns a [Builder] for a new document with one empty scene.
func NewBuilder(name string) *Builder {
	doc := &Document{Name: name, Scene: 0}
	doc.Scenes = append(doc.Scenes, Scene{Name: name})
	return &Builder{Doc: doc}
}

// NewNode returns a node without a mesh.
func NewNode(name string) Node {
	return Node{Name: name, Mesh: -1}
}

// NewPrimitive returns an indexed triangle list primitive with the given
// position accessor and the default material.
func NewPrimitive(position, indices int) Primitive {
	return Primitive{
		Attributes: map[string]int{"POSITION": position},
		Indices:    indices,
		Material:   -1,
		Mode:       Triangles,
	}
}

func (bd *Builder) AddBuffer(data []byte) int {
	bd.Doc.Buffers = append(bd.Doc.Buffers, Buffer{Data: data})
	return len(bd.Doc.Buffers) - 1
}

func (bd *Builder) AddView(view BufferView) int {
	bd.Doc.BufferViews = append(bd.Doc.BufferViews, view)
	return len(bd.Doc.BufferViews) - 1
}

func (bd *Builder) AddAccessor(ac Accessor) int {
	bd.Doc.Accessors = append(bd.Doc.Accessors, ac)
	return len(bd.Doc.Accessors) - 1
}

// AddFloats adds float vertex data in its own buffer and view,
// returning an accessor with per component bounds.
func (bd *Builder) AddFloats(values []float32, typ AccessorType) int {
	nc := typ.Components()
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	buf := bd.AddBuffer(data)
	view := bd.AddView(BufferView{Buffer: buf, ByteLength: len(data), ByteStride: nc * 4, Target: TargetArrayBuffer})
	ac := Accessor{BufferView: view, ComponentType: ComponentFloat, Count: len(values) / nc, Type: typ}
	ac.Min = make([]float32, nc)
	ac.Max = make([]float32, nc)
	for c := range nc {
		ac.Min[c], ac.Max[c] = math32.Inf(1), math32.Inf(-1)
	}
	for i, v := range values {
		c := i % nc
		ac.Min[c] = min(ac.Min[c], v)
		ac.Max[c] = max(ac.Max[c], v)
	}
	return bd.AddAccessor(ac)
}

// AddIndices adds 16 bit triangle indices in their own buffer and view.
func (bd *Builder) AddIndices(indices []uint16) int {
	data := make([]byte, len(indices)*2)
	for i, v := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	buf := bd.AddBuffer(data)
	view := bd.AddView(BufferView{Buffer: buf, ByteLength: len(data), Target: TargetElementArray})
	return bd.AddAccessor(Accessor{BufferView: view, ComponentType: ComponentUnsignedShort, Count: len(indices), Type: Scalar})
}

func (bd *Builder) AddMaterial(mt Material) int {
	bd.Doc.Materials = append(bd.Doc.Materials, mt)
	return len(bd.Doc.Materials) - 1
}

// AddTexture adds an image with an optional sampler and returns the
// texture index referring to them.
func (bd *Builder) AddTexture(im Image, smp *Sampler) int {
	bd.Doc.Images = append(bd.Doc.Images, im)
	tx := Texture{Source: len(bd.Doc.Images) - 1, Sampler: -1}
	if smp != nil {
		bd.Doc.Samplers = append(bd.Doc.Samplers, *smp)
		tx.Sampler = len(bd.Doc.Samplers) - 1
	}
	bd.Doc.Textures = append(bd.Doc.Textures, tx)
	return len(bd.Doc.Textures) - 1
}

func (bd *Builder) AddMesh(name string, prims ...Primitive) int {
	bd.Doc.Meshes = append(bd.Doc.Meshes, Mesh{Name: name, Primitives: prims})
	return len(bd.Doc.Meshes) - 1
}

func (bd *Builder) AddNode(nd Node) int {
	bd.Doc.Nodes = append(bd.Doc.Nodes, nd)
	return len(bd.Doc.Nodes) - 1
}

// AddRoot adds the node to the roots of the default scene.
func (bd *Builder) AddRoot(node int) {
	sc := &bd.Doc.Scenes[0]
	sc.Nodes = append(sc.Nodes, node)
}

// AddChild adds child to the children of parent.
func (bd *Builder) AddChild(parent, child int) {
	nd := &bd.Doc.Nodes[parent]
	nd.Children = append(nd.Children, child)
}

// AddBox adds a box mesh with the given half extents, with positions,
// normals and indices, using the given material index.
func (bd *Builder) AddBox(name string, half math32.Vector3, material int) int {
	faces := [6]struct{ n, u, v math32.Vector3 }{
		{math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(-1, 0, 0), math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 1, 0), math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0)},
		{math32.Vec3(0, -1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 0, -1), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0)},
	}
	var pos, norm []float32
	var idx []uint16
	for _, f := range faces {
		base := uint16(len(pos) / 3)
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := f.n.Add(f.u.MulScalar(c[0])).Add(f.v.MulScalar(c[1])).Mul(half)
			pos = append(pos, p.X, p.Y, p.Z)
			norm = append(norm, f.n.X, f.n.Y, f.n.Z)
		}
		idx = append(idx, base, base+1, base+2, base, base+2, base+3)
	}
	prim := NewPrimitive(bd.AddFloats(pos, Vec3), bd.AddIndices(idx))
	prim.Attributes["NORMAL"] = bd.AddFloats(norm, Vec3)
	prim.Material = material
	return bd.AddMesh(name, prim)
}

// AddSphere adds a UV sphere mesh with the given radius and number of
// segments around and from top to bottom (at least 3), with positions,
// normals, texture coordinates and indices.
func (bd *Builder) AddSphere(name string, radius float32, segs, material int) int {
	segs = max(segs, 3)
	var pos, norm, uv []float32
	for y := 0; y <= segs; y++ {
		v := float32(y) / float32(segs)
		elev := v * math32.Pi
		for x := 0; x <= segs; x++ {
			u := float32(x) / float32(segs)
			ang := u * 2 * math32.Pi
			n := math32.Vec3(-math32.Cos(ang)*math32.Sin(elev), math32.Cos(elev), math32.Sin(ang)*math32.Sin(elev))
			p := n.MulScalar(radius)
			pos = append(pos, p.X, p.Y, p.Z)
			norm = append(norm, n.X, n.Y, n.Z)
			uv = append(uv, u, v)
		}
	}
	row := uint16(segs + 1)
	var idx []uint16
	for y := range uint16(segs) {
		for x := range uint16(segs) {
			v1 := y*row + x + 1
			v2 := y*row + x
			v3 := (y+1)*row + x
			v4 := (y+1)*row + x + 1
			// the poles collapse to one triangle per segment
			if y != 0 {
				idx = append(idx, v1, v2, v4)
			}
			if y != uint16(segs)-1 {
				idx = append(idx, v2, v3, v4)
			}
		}
	}
	prim := NewPrimitive(bd.AddFloats(pos, Vec3), bd.AddIndices(idx))
	prim.Attributes["NORMAL"] = bd.AddFloats(norm, Vec3)
	prim.Attributes["TEXCOORD_0"] = bd.AddFloats(uv, Vec2)
	prim.Material = material
	return bd.AddMesh(name, prim)
}
