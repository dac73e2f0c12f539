// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gpu is the facade over the graphics device used by the renderer.

A [Device] creates the opaque GPU objects ([Texture], [Buffer],
[VertexArray], [ShaderProgram], [Framebuffer]) and executes the low-level
state and draw calls that the render command buffer issues. Objects that
are shared between several owners are wrapped in a reference counted
[Handle], which releases the device object when the last owner lets go.

Pipeline state enums use the WebGPU vocabulary from gputypes, so that a
backend can translate them directly into render pipeline descriptors.
The headless package provides an in-memory implementation.
*/
package gpu

import (
	"cogentcore.org/core/math32"
	"github.com/gogpu/gputypes"
)

// Resource is an object owned by a [Device].
type Resource interface {
	// Label returns the debugging name of the object.
	Label() string

	// Release frees the device object. The resource must not
	// be used afterwards.
	Release()
}

// Texture is an image in device memory, with its sampling parameters.
type Texture interface {
	Resource

	// SetParameters sets the sampling filters, wrap modes and
	// mip level count.
	SetParameters(cfg TextureConfig)

	// Config returns the current sampling parameters.
	Config() TextureConfig

	// SetData allocates the base level image and uploads data, which may
	// be nil to only allocate. internal is the storage format, pixel and
	// component describe the layout of data.
	SetData(internal Format, width, height int, pixel, component Format, data []byte) error

	// Size returns the base level width and height.
	Size() (width, height int)

	// InternalFormat returns the storage format given to SetData.
	InternalFormat() Format
}

// Buffer is a linear block of device memory.
type Buffer interface {
	Resource

	// SetData (re)allocates the buffer and uploads data.
	SetData(cfg BufferConfig, data []byte)

	// Update writes data at the given byte offset, which
	// must fit inside the current allocation.
	Update(offset int, data []byte) error

	// Size returns the allocated size in bytes.
	Size() int

	// Config returns the allocation parameters.
	Config() BufferConfig
}

// VertexArray binds vertex buffers, an index buffer and the
// attribute layout used by draw calls.
type VertexArray interface {
	Resource

	// BindVertexBuffer binds buf at the given binding index, starting at
	// offset bytes with stride bytes between consecutive vertices.
	BindVertexBuffer(index int, buf Buffer, offset, stride int)

	// BindIndexBuffer binds the element buffer.
	BindIndexBuffer(buf Buffer)

	// SetVertexAttribute enables the attribute at the given shader
	// location, reading format values from the vertex buffer binding
	// at relativeOffset within each vertex.
	SetVertexAttribute(location, binding int, format gputypes.VertexFormat, relativeOffset int)
}

// ShaderStage is one compiled stage source of a [ShaderProgram].
type ShaderStage struct {
	Stage  gputypes.ShaderStage
	Source string
}

// ShaderProgram is a linked set of shader stages.
type ShaderProgram interface {
	Resource

	// UniformLocation returns the location of the named uniform,
	// or -1 if the program does not use it.
	UniformLocation(name string) int
}

// Framebuffer is a render target made of texture attachments.
type Framebuffer interface {
	Resource

	// Attach sets the texture used for the given attachment point.
	Attach(point Attachment, tex Texture)

	// Attachment returns the texture at the given attachment point.
	Attachment(point Attachment) Texture

	// Check returns an error if the attachments are incomplete
	// or inconsistent in size.
	Check() error
}

// Device creates GPU objects and executes state and draw calls.
// All calls must be made from the rendering goroutine.
type Device interface {
	NewTexture(label string) Texture
	NewBuffer(label string) Buffer
	NewVertexArray(label string) VertexArray
	NewShaderProgram(label string, stages ...ShaderStage) (ShaderProgram, error)
	NewFramebuffer(label string) Framebuffer

	SetViewport(x, y, width, height int)
	SetDepthTest(enabled bool)
	SetDepthFunc(fn gputypes.CompareFunction)
	SetPolygonMode(mode PolygonMode)
	SetFaceCulling(enabled bool)
	SetCullFace(face gputypes.CullMode)
	SetBlending(enabled bool)
	SetBlendFactors(src, dst gputypes.BlendFactor)

	// Bind calls accept nil to unbind.
	BindVertexArray(va VertexArray)
	BindShaderProgram(sp ShaderProgram)
	BindFramebuffer(fb Framebuffer)
	BindTexture(unit int, tex Texture)
	BindUniformBuffer(slot int, buf Buffer)

	// SetUniform sets a single uniform of the bound program.
	SetUniform(location int, value any)

	// Clear clears the color attachments of the bound framebuffer
	// to color, and the depth attachment if depth is set.
	Clear(color math32.Vector4, depth bool)

	DrawArrays(topology gputypes.PrimitiveTopology, first, count, instances int)

	// DrawElements draws count indices of type index starting at the
	// byte offset into the bound index buffer.
	DrawElements(topology gputypes.PrimitiveTopology, count int, index IndexType, offset, instances int)
}

// PolygonMode is the rasterization mode of polygons.
type PolygonMode int32

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

var polygonModeNames = [...]string{
	PolygonFill:  "Fill",
	PolygonLine:  "Line",
	PolygonPoint: "Point",
}

func (pm PolygonMode) String() string {
	if pm >= 0 && int(pm) < len(polygonModeNames) {
		return polygonModeNames[pm]
	}
	return "Unknown"
}

// Attachment is a framebuffer attachment point.
type Attachment int32

const (
	ColorAttachment0 Attachment = iota
	ColorAttachment1
	ColorAttachment2
	ColorAttachment3
	DepthStencilAttachment
)

// MaxTextureUnits is the number of texture binding slots.
const MaxTextureUnits = 16
