// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/gogpu/gputypes"
)

// IndexType is the element type of an index buffer.
type IndexType int32

const (
	IndexUint8 IndexType = iota
	IndexUint16
	IndexUint32
)

var indexTypeNames = [...]string{
	IndexUint8:  "Uint8",
	IndexUint16: "Uint16",
	IndexUint32: "Uint32",
}

func (it IndexType) String() string {
	if it >= 0 && int(it) < len(indexTypeNames) {
		return indexTypeNames[it]
	}
	return "Unknown"
}

// IndexTypeFor returns the index type for a component type,
// which must be one of the unsigned types.
func IndexTypeFor(component Format) (IndexType, bool) {
	switch component {
	case UnsignedByte:
		return IndexUint8, true
	case UnsignedShort:
		return IndexUint16, true
	case UnsignedInt:
		return IndexUint32, true
	}
	return IndexUint32, false
}

// Size returns the size of one index in bytes.
func (it IndexType) Size() int {
	switch it {
	case IndexUint8:
		return 1
	case IndexUint16:
		return 2
	}
	return 4
}

// IndexFormat returns the WebGPU index format. There is no 8 bit
// index format in WebGPU, so ok is false for [IndexUint8] and
// the backend must widen such indices.
func (it IndexType) IndexFormat() (format gputypes.IndexFormat, ok bool) {
	switch it {
	case IndexUint16:
		return gputypes.IndexFormatUint16, true
	case IndexUint32:
		return gputypes.IndexFormatUint32, true
	}
	return gputypes.IndexFormatUint16, false
}

// AttributeFormat returns the vertex format for count components of the
// given component type. Integer components are read as normalized values.
// ok is false for combinations WebGPU has no vertex format for.
func AttributeFormat(component Format, count int) (format gputypes.VertexFormat, ok bool) {
	switch component {
	case Float:
		switch count {
		case 1:
			return gputypes.VertexFormatFloat32, true
		case 2:
			return gputypes.VertexFormatFloat32x2, true
		case 3:
			return gputypes.VertexFormatFloat32x3, true
		case 4:
			return gputypes.VertexFormatFloat32x4, true
		}
	case UnsignedByte:
		switch count {
		case 2:
			return gputypes.VertexFormatUnorm8x2, true
		case 4:
			return gputypes.VertexFormatUnorm8x4, true
		}
	case UnsignedShort:
		switch count {
		case 2:
			return gputypes.VertexFormatUnorm16x2, true
		case 4:
			return gputypes.VertexFormatUnorm16x4, true
		}
	}
	return gputypes.VertexFormatFloat32, false
}

// Vertex attribute locations shared by the importer and the shaders.
const (
	PositionLocation = 0
	NormalLocation   = 1
	TexCoordLocation = 2
	TangentLocation  = 3
)
