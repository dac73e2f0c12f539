// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package asset defines the scene description graph that model loaders
produce and the scene importer consumes: scenes of nodes, meshes made of
primitives reading typed accessors over buffer views, and PBR materials
referring to textures, samplers and decoded images.

The graph follows the glTF 2.0 data model. All cross references are
indexes into the [Document] slices, with -1 meaning absent. Documents
are read-only once loaded.

Loading from files is delegated to a [ModelLoader] and an [ImageLoader].
[FileImageLoader] decodes common image formats; model parsers live
outside this package.
*/
package asset

import (
	"cogentcore.org/core/math32"
)

// Document is a loaded scene description.
type Document struct {
	// Name is the document name, typically the file base name.
	Name string

	// Scene is the default scene index, or -1 to use the first one.
	Scene int

	Scenes      []Scene
	Nodes       []Node
	Meshes      []Mesh
	Accessors   []Accessor
	BufferViews []BufferView
	Buffers     []Buffer
	Materials   []Material
	Textures    []Texture
	Samplers    []Sampler
	Images      []Image
}

// Scene is a set of root nodes.
type Scene struct {
	Name  string
	Nodes []int
}

// Node is a transform in the node hierarchy, optionally carrying a mesh.
// A non-nil Matrix takes precedence over Translation, Rotation and Scale.
type Node struct {
	Name string

	// Matrix is the column-major local transform.
	Matrix *math32.Matrix4

	Translation *math32.Vector3

	// Rotation is a unit quaternion.
	Rotation *math32.Quat

	Scale *math32.Vector3

	// Mesh is the mesh index, or -1.
	Mesh int

	Children []int
}

// Mesh is a list of primitives drawn together.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Primitive is one draw call worth of geometry with one material.
type Primitive struct {
	// Attributes maps semantic names such as POSITION to accessor indexes.
	Attributes map[string]int

	// Indices is the index accessor, or -1 for non-indexed geometry.
	Indices int

	// Material is the material index, or -1 for the default material.
	Material int

	Mode PrimitiveMode
}

// PrimitiveMode is the topology of a primitive.
type PrimitiveMode int32

const (
	Points PrimitiveMode = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

var primitiveModeNames = [...]string{
	Points:        "Points",
	Lines:         "Lines",
	LineLoop:      "LineLoop",
	LineStrip:     "LineStrip",
	Triangles:     "Triangles",
	TriangleStrip: "TriangleStrip",
	TriangleFan:   "TriangleFan",
}

func (pm PrimitiveMode) String() string {
	if pm >= 0 && int(pm) < len(primitiveModeNames) {
		return primitiveModeNames[pm]
	}
	return "Unknown"
}

// ComponentType is the numeric type of accessor components,
// with the GL enum values used in model files.
type ComponentType int32

const (
	ComponentByte          ComponentType = 5120
	ComponentUnsignedByte  ComponentType = 5121
	ComponentShort         ComponentType = 5122
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

// Size returns the size of one component in bytes, or 0 if unknown.
func (ct ComponentType) Size() int {
	switch ct {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	}
	return 0
}

// AccessorType is the shape of an accessor element.
type AccessorType int32

const (
	Scalar AccessorType = iota
	Vec2
	Vec3
	Vec4
	Mat2
	Mat3
	Mat4
)

// Components returns the number of components in one element.
func (at AccessorType) Components() int {
	switch at {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	}
	return 0
}

// Accessor is a typed view of elements in a buffer view.
type Accessor struct {
	// BufferView is the buffer view index, or -1.
	BufferView int

	// ByteOffset is the offset of the first element within the buffer view.
	ByteOffset int

	ComponentType ComponentType
	Normalized    bool
	Count         int
	Type          AccessorType

	// Min and Max are the per component bounds, required for positions.
	Min []float32
	Max []float32

	// Sparse is set for sparse accessors.
	Sparse *Sparse
}

// ElementSize returns the tightly packed size of one element in bytes.
func (ac *Accessor) ElementSize() int {
	return ac.ComponentType.Size() * ac.Type.Components()
}

// Stride returns the distance between elements in the given buffer view:
// its ByteStride when set, and the packed element size otherwise.
func (ac *Accessor) Stride(bv *BufferView) int {
	if bv != nil && bv.ByteStride > 0 {
		return bv.ByteStride
	}
	return ac.ElementSize()
}

// Sparse holds the sparse substitution of an accessor.
type Sparse struct {
	Count         int
	IndicesView   int
	IndicesOffset int
	IndicesType   ComponentType
	ValuesView    int
	ValuesOffset  int
}

// Buffer view targets.
const (
	TargetNone         = 0
	TargetArrayBuffer  = 34962
	TargetElementArray = 34963
)

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int
	ByteOffset int
	ByteLength int

	// ByteStride is the vertex stride, or 0 for tightly packed data.
	ByteStride int

	// Target is the GL buffer target; 0 means unspecified.
	Target int
}

// Buffer is a block of binary data.
type Buffer struct {
	URI  string
	Data []byte
}

// Bytes returns the bytes of the buffer view in the document,
// or nil if the view or its buffer is out of range.
func (doc *Document) Bytes(view int) []byte {
	if view < 0 || view >= len(doc.BufferViews) {
		return nil
	}
	bv := &doc.BufferViews[view]
	if bv.Buffer < 0 || bv.Buffer >= len(doc.Buffers) {
		return nil
	}
	data := doc.Buffers[bv.Buffer].Data
	end := bv.ByteOffset + bv.ByteLength
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || end > len(data) {
		return nil
	}
	return data[bv.ByteOffset:end]
}

// TextureInfo refers to a texture from a material.
type TextureInfo struct {
	// Index is the texture index.
	Index int

	// TexCoord is the texture coordinate set.
	TexCoord int

	// Scale is the normal scale or occlusion strength.
	Scale float32
}

// Material is a metallic-roughness PBR material.
type Material struct {
	Name string

	BaseColorFactor  math32.Vector4
	BaseColorTexture *TextureInfo

	MetallicFactor           float32
	RoughnessFactor          float32
	MetallicRoughnessTexture *TextureInfo

	NormalTexture    *TextureInfo
	OcclusionTexture *TextureInfo

	EmissiveFactor  math32.Vector3
	EmissiveTexture *TextureInfo

	DoubleSided bool
}

// Defaults sets the factor values a material has when a file omits them.
func (mt *Material) Defaults() {
	mt.BaseColorFactor = math32.Vec4(1, 1, 1, 1)
	mt.MetallicFactor = 1
	mt.RoughnessFactor = 1
}

// Texture pairs an image with a sampler.
type Texture struct {
	// Source is the image index, or -1.
	Source int

	// Sampler is the sampler index, or -1 for the default sampler.
	Sampler int
}

// Sampler holds GL filter and wrap enum values; 0 means unspecified.
type Sampler struct {
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
}

// Image is decoded pixel data.
type Image struct {
	Name   string
	Width  int
	Height int

	// Components is the number of channels, 1 to 4.
	Components int

	// Bits is the bit depth of one channel: 8, 16 or 32.
	Bits int

	// Float is set when 32 bit channels hold IEEE floats.
	Float bool

	// Pixels is the row-major pixel data, little-endian for
	// multi-byte channels.
	Pixels []byte
}
