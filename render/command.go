// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// CommandType identifies the type of a [Command].
type CommandType uint8

const (
	// State commands
	CmdSetViewport CommandType = iota
	CmdSetDepthTest
	CmdSetDepthFunc
	CmdSetPolygonMode
	CmdSetFaceCulling
	CmdSetCullFace
	CmdSetBlending
	CmdSetBlendFactors

	// Binding commands
	CmdBindVertexArray
	CmdBindShaderProgram
	CmdBindFramebuffer
	CmdBindTexture
	CmdBindUniformBuffer
	CmdSetUniform
	CmdUpdateBuffer

	// Drawing commands
	CmdClear
	CmdDrawArrays
	CmdDrawElements
)

var commandTypeNames = [...]string{
	CmdSetViewport:       "SetViewport",
	CmdSetDepthTest:      "SetDepthTest",
	CmdSetDepthFunc:      "SetDepthFunc",
	CmdSetPolygonMode:    "SetPolygonMode",
	CmdSetFaceCulling:    "SetFaceCulling",
	CmdSetCullFace:       "SetCullFace",
	CmdSetBlending:       "SetBlending",
	CmdSetBlendFactors:   "SetBlendFactors",
	CmdBindVertexArray:   "BindVertexArray",
	CmdBindShaderProgram: "BindShaderProgram",
	CmdBindFramebuffer:   "BindFramebuffer",
	CmdBindTexture:       "BindTexture",
	CmdBindUniformBuffer: "BindUniformBuffer",
	CmdSetUniform:        "SetUniform",
	CmdUpdateBuffer:      "UpdateBuffer",
	CmdClear:             "Clear",
	CmdDrawArrays:        "DrawArrays",
	CmdDrawElements:      "DrawElements",
}

func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one deferred operation in a [CommandBuffer].
type Command interface {
	Type() CommandType
}

type SetViewportCommand struct {
	X, Y, Width, Height int
}

func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

type SetDepthTestCommand struct {
	Enabled bool
}

func (SetDepthTestCommand) Type() CommandType { return CmdSetDepthTest }

type SetDepthFuncCommand struct {
	Func gputypes.CompareFunction
}

func (SetDepthFuncCommand) Type() CommandType { return CmdSetDepthFunc }

type SetPolygonModeCommand struct {
	Mode gpu.PolygonMode
}

func (SetPolygonModeCommand) Type() CommandType { return CmdSetPolygonMode }

type SetFaceCullingCommand struct {
	Enabled bool
}

func (SetFaceCullingCommand) Type() CommandType { return CmdSetFaceCulling }

type SetCullFaceCommand struct {
	Face gputypes.CullMode
}

func (SetCullFaceCommand) Type() CommandType { return CmdSetCullFace }

type SetBlendingCommand struct {
	Enabled bool
}

func (SetBlendingCommand) Type() CommandType { return CmdSetBlending }

type SetBlendFactorsCommand struct {
	Src, Dst gputypes.BlendFactor
}

func (SetBlendFactorsCommand) Type() CommandType { return CmdSetBlendFactors }

// BindVertexArrayCommand binds a vertex array; nil unbinds.
type BindVertexArrayCommand struct {
	VertexArray gpu.VertexArray
}

func (BindVertexArrayCommand) Type() CommandType { return CmdBindVertexArray }

type BindShaderProgramCommand struct {
	Program gpu.ShaderProgram
}

func (BindShaderProgramCommand) Type() CommandType { return CmdBindShaderProgram }

// BindFramebufferCommand binds a render target; nil binds the default one.
type BindFramebufferCommand struct {
	Framebuffer gpu.Framebuffer
}

func (BindFramebufferCommand) Type() CommandType { return CmdBindFramebuffer }

type BindTextureCommand struct {
	Unit    int
	Texture gpu.Texture
}

func (BindTextureCommand) Type() CommandType { return CmdBindTexture }

type BindUniformBufferCommand struct {
	Slot   int
	Buffer gpu.Buffer
}

func (BindUniformBufferCommand) Type() CommandType { return CmdBindUniformBuffer }

// SetUniformCommand sets a single uniform of the program that is
// bound when the command executes. Uniforms the program does not
// declare are ignored.
type SetUniformCommand struct {
	Name  string
	Value any
}

func (SetUniformCommand) Type() CommandType { return CmdSetUniform }

// UpdateBufferCommand writes Data into Buffer at Offset.
type UpdateBufferCommand struct {
	Buffer gpu.Buffer
	Offset int
	Data   []byte
}

func (UpdateBufferCommand) Type() CommandType { return CmdUpdateBuffer }

type ClearCommand struct {
	Color math32.Vector4
	Depth bool
}

func (ClearCommand) Type() CommandType { return CmdClear }

type DrawArraysCommand struct {
	Topology  gputypes.PrimitiveTopology
	First     int
	Count     int
	Instances int
}

func (DrawArraysCommand) Type() CommandType { return CmdDrawArrays }

// DrawElementsCommand draws Count indices starting at index First
// of the bound index buffer.
type DrawElementsCommand struct {
	Topology  gputypes.PrimitiveTopology
	First     int
	Count     int
	IndexType gpu.IndexType
	Instances int
}

func (DrawElementsCommand) Type() CommandType { return CmdDrawElements }
