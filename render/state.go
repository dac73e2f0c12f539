// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// GraphicsState caches the state of the graphics pipeline so that
// redundant device calls can be skipped. Setters only update the cache
// and report whether the value changed; they never touch a device.
type GraphicsState struct {
	viewport image.Rectangle

	depthTest bool
	depthFunc gputypes.CompareFunction

	polygonMode gpu.PolygonMode

	faceCulling bool
	cullFace    gputypes.CullMode

	blending bool
	blendSrc gputypes.BlendFactor
	blendDst gputypes.BlendFactor

	vertexArray    gpu.VertexArray
	program        gpu.ShaderProgram
	framebuffer    gpu.Framebuffer
	textures       [gpu.MaxTextureUnits]gpu.Texture
	uniformBuffers map[int]gpu.Buffer

	// uniforms holds the single uniform values of the current program.
	uniforms map[int]any
}

// NewGraphicsState returns a state matching a freshly created device.
func NewGraphicsState() *GraphicsState {
	gs := &GraphicsState{}
	gs.Reset()
	return gs
}

// Reset forgets all cached bindings and restores the initial state:
// depth test, culling and blending disabled, depth func less, back face
// culling, filled polygons and one/zero blending.
func (gs *GraphicsState) Reset() {
	*gs = GraphicsState{
		depthFunc:      gputypes.CompareFunctionLess,
		cullFace:       gputypes.CullModeBack,
		blendSrc:       gputypes.BlendFactorOne,
		blendDst:       gputypes.BlendFactorZero,
		uniformBuffers: map[int]gpu.Buffer{},
		uniforms:       map[int]any{},
	}
}

func (gs *GraphicsState) SetViewport(x, y, width, height int) bool {
	vp := image.Rect(x, y, x+width, y+height)
	if gs.viewport == vp {
		return false
	}
	gs.viewport = vp
	return true
}

// Viewport returns the cached viewport.
func (gs *GraphicsState) Viewport() image.Rectangle {
	return gs.viewport
}

func (gs *GraphicsState) SetDepthTest(enabled bool) bool {
	if gs.depthTest == enabled {
		return false
	}
	gs.depthTest = enabled
	return true
}

func (gs *GraphicsState) SetDepthFunc(fn gputypes.CompareFunction) bool {
	if gs.depthFunc == fn {
		return false
	}
	gs.depthFunc = fn
	return true
}

func (gs *GraphicsState) SetPolygonMode(mode gpu.PolygonMode) bool {
	if gs.polygonMode == mode {
		return false
	}
	gs.polygonMode = mode
	return true
}

func (gs *GraphicsState) SetFaceCulling(enabled bool) bool {
	if gs.faceCulling == enabled {
		return false
	}
	gs.faceCulling = enabled
	return true
}

func (gs *GraphicsState) SetCullFace(face gputypes.CullMode) bool {
	if gs.cullFace == face {
		return false
	}
	gs.cullFace = face
	return true
}

func (gs *GraphicsState) SetBlending(enabled bool) bool {
	if gs.blending == enabled {
		return false
	}
	gs.blending = enabled
	return true
}

func (gs *GraphicsState) SetBlendFactors(src, dst gputypes.BlendFactor) bool {
	if gs.blendSrc == src && gs.blendDst == dst {
		return false
	}
	gs.blendSrc, gs.blendDst = src, dst
	return true
}

func (gs *GraphicsState) BindVertexArray(va gpu.VertexArray) bool {
	if gs.vertexArray == va {
		return false
	}
	gs.vertexArray = va
	return true
}

// BindShaderProgram binds the program. A program change
// invalidates the cached single uniforms.
func (gs *GraphicsState) BindShaderProgram(sp gpu.ShaderProgram) bool {
	if gs.program == sp {
		return false
	}
	gs.program = sp
	clear(gs.uniforms)
	return true
}

// ShaderProgram returns the bound program, or nil.
func (gs *GraphicsState) ShaderProgram() gpu.ShaderProgram {
	return gs.program
}

func (gs *GraphicsState) BindFramebuffer(fb gpu.Framebuffer) bool {
	if gs.framebuffer == fb {
		return false
	}
	gs.framebuffer = fb
	return true
}

// BindTexture binds tex to the texture unit. Units outside
// [0, gpu.MaxTextureUnits) panic.
func (gs *GraphicsState) BindTexture(unit int, tex gpu.Texture) bool {
	if gs.textures[unit] == tex {
		return false
	}
	gs.textures[unit] = tex
	return true
}

func (gs *GraphicsState) BindUniformBuffer(slot int, buf gpu.Buffer) bool {
	if cur, ok := gs.uniformBuffers[slot]; ok && cur == buf {
		return false
	}
	gs.uniformBuffers[slot] = buf
	return true
}

// SetUniform records a single uniform value of the bound program.
// Values of types that cannot be compared always count as a change.
func (gs *GraphicsState) SetUniform(location int, value any) bool {
	if location < 0 {
		return false
	}
	if cur, ok := gs.uniforms[location]; ok && isComparable(value) && cur == value {
		return false
	}
	gs.uniforms[location] = value
	return true
}

func isComparable(v any) bool {
	switch v.(type) {
	case bool, int32, uint32, int, float32,
		math32.Vector2, math32.Vector3, math32.Vector4,
		math32.Matrix3, math32.Matrix4:
		return true
	}
	return false
}
