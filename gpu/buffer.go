// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/gogpu/gputypes"
)

// BufferTarget is the role a [Buffer] is bound in.
type BufferTarget int32

const (
	VertexBuffer BufferTarget = iota
	IndexBuffer
	UniformBuffer
)

var bufferTargetNames = [...]string{
	VertexBuffer:  "VertexBuffer",
	IndexBuffer:   "IndexBuffer",
	UniformBuffer: "UniformBuffer",
}

func (bt BufferTarget) String() string {
	if bt >= 0 && int(bt) < len(bufferTargetNames) {
		return bufferTargetNames[bt]
	}
	return "Unknown"
}

// BufferTargetFromGL converts a GL buffer target as used by buffer views
// in model files. Element array buffers are index buffers, anything else
// is treated as vertex data.
func BufferTargetFromGL(code int) BufferTarget {
	if code == 34963 {
		return IndexBuffer
	}
	return VertexBuffer
}

// BufferConfig holds the allocation parameters of a [Buffer].
type BufferConfig struct {
	// Target is the role the buffer is created for.
	Target BufferTarget

	// Dynamic marks buffers that are rewritten every frame.
	Dynamic bool
}

// Usage returns the WebGPU usage flags for the buffer.
func (bc BufferConfig) Usage() gputypes.BufferUsage {
	usage := gputypes.BufferUsageCopyDst
	switch bc.Target {
	case IndexBuffer:
		usage |= gputypes.BufferUsageIndex
	case UniformBuffer:
		usage |= gputypes.BufferUsageUniform
	default:
		usage |= gputypes.BufferUsageVertex
	}
	return usage
}
