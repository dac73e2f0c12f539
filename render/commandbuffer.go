// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// ExecuteStats counts the device calls made by [CommandBuffer.Execute].
type ExecuteStats struct {
	// Issued is the number of commands that reached the device.
	Issued int

	// Suppressed is the number of state commands skipped
	// because the state was already current.
	Suppressed int

	// Draws is the number of draw calls issued.
	Draws int
}

func (es ExecuteStats) String() string {
	return fmt.Sprintf("issued: %d suppressed: %d draws: %d", es.Issued, es.Suppressed, es.Draws)
}

// CommandBuffer records commands for deferred execution on a device.
// State commands are filtered through a [GraphicsState] on execution,
// so call sites can record state freely without causing redundant
// device calls. The state persists across executions, matching the
// device state after the previous flush.
type CommandBuffer struct {
	commands []Command
	state    *GraphicsState
	stats    ExecuteStats
}

// NewCommandBuffer returns an empty command buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{state: NewGraphicsState()}
}

// Len returns the number of recorded commands.
func (cb *CommandBuffer) Len() int {
	return len(cb.commands)
}

// Commands returns the recorded commands.
func (cb *CommandBuffer) Commands() []Command {
	return cb.commands
}

// State returns the graphics state used to filter commands.
func (cb *CommandBuffer) State() *GraphicsState {
	return cb.state
}

// Stats returns the statistics of the last execution.
func (cb *CommandBuffer) Stats() ExecuteStats {
	return cb.stats
}

// Reset drops the recorded commands, keeping the cached state.
func (cb *CommandBuffer) Reset() {
	clear(cb.commands)
	cb.commands = cb.commands[:0]
}

// Add appends a command.
func (cb *CommandBuffer) Add(cmd Command) {
	cb.commands = append(cb.commands, cmd)
}

func (cb *CommandBuffer) SetViewport(x, y, width, height int) {
	cb.Add(SetViewportCommand{X: x, Y: y, Width: width, Height: height})
}

func (cb *CommandBuffer) SetDepthTest(enabled bool) {
	cb.Add(SetDepthTestCommand{Enabled: enabled})
}

func (cb *CommandBuffer) SetDepthFunc(fn gputypes.CompareFunction) {
	cb.Add(SetDepthFuncCommand{Func: fn})
}

func (cb *CommandBuffer) SetPolygonMode(mode gpu.PolygonMode) {
	cb.Add(SetPolygonModeCommand{Mode: mode})
}

func (cb *CommandBuffer) SetFaceCulling(enabled bool) {
	cb.Add(SetFaceCullingCommand{Enabled: enabled})
}

func (cb *CommandBuffer) SetCullFace(face gputypes.CullMode) {
	cb.Add(SetCullFaceCommand{Face: face})
}

func (cb *CommandBuffer) SetBlending(enabled bool) {
	cb.Add(SetBlendingCommand{Enabled: enabled})
}

func (cb *CommandBuffer) SetBlendFactors(src, dst gputypes.BlendFactor) {
	cb.Add(SetBlendFactorsCommand{Src: src, Dst: dst})
}

func (cb *CommandBuffer) BindVertexArray(va gpu.VertexArray) {
	cb.Add(BindVertexArrayCommand{VertexArray: va})
}

func (cb *CommandBuffer) BindShaderProgram(sp gpu.ShaderProgram) {
	cb.Add(BindShaderProgramCommand{Program: sp})
}

func (cb *CommandBuffer) BindFramebuffer(fb gpu.Framebuffer) {
	cb.Add(BindFramebufferCommand{Framebuffer: fb})
}

func (cb *CommandBuffer) BindTexture(unit int, tex gpu.Texture) {
	cb.Add(BindTextureCommand{Unit: unit, Texture: tex})
}

func (cb *CommandBuffer) BindUniformBuffer(slot int, buf gpu.Buffer) {
	cb.Add(BindUniformBufferCommand{Slot: slot, Buffer: buf})
}

func (cb *CommandBuffer) SetUniform(name string, value any) {
	cb.Add(SetUniformCommand{Name: name, Value: value})
}

func (cb *CommandBuffer) UpdateBuffer(buf gpu.Buffer, offset int, data []byte) {
	cb.Add(UpdateBufferCommand{Buffer: buf, Offset: offset, Data: data})
}

func (cb *CommandBuffer) Clear(color math32.Vector4, depth bool) {
	cb.Add(ClearCommand{Color: color, Depth: depth})
}

func (cb *CommandBuffer) DrawArrays(topology gputypes.PrimitiveTopology, first, count, instances int) {
	cb.Add(DrawArraysCommand{Topology: topology, First: first, Count: count, Instances: instances})
}

func (cb *CommandBuffer) DrawElements(topology gputypes.PrimitiveTopology, first, count int, index gpu.IndexType, instances int) {
	cb.Add(DrawElementsCommand{Topology: topology, First: first, Count: count, IndexType: index, Instances: instances})
}

// Execute issues the recorded commands on dev in order and clears the
// buffer. State and binding commands whose value is already current
// are skipped.
func (cb *CommandBuffer) Execute(dev gpu.Device) ExecuteStats {
	cb.stats = ExecuteStats{}
	for _, cmd := range cb.commands {
		if cb.execute(dev, cmd) {
			cb.stats.Issued++
		} else {
			cb.stats.Suppressed++
		}
	}
	cb.Reset()
	return cb.stats
}

// execute runs one command, returning false if it was suppressed.
func (cb *CommandBuffer) execute(dev gpu.Device, cmd Command) bool {
	gs := cb.state
	switch c := cmd.(type) {
	case SetViewportCommand:
		if !gs.SetViewport(c.X, c.Y, c.Width, c.Height) {
			return false
		}
		dev.SetViewport(c.X, c.Y, c.Width, c.Height)
	case SetDepthTestCommand:
		if !gs.SetDepthTest(c.Enabled) {
			return false
		}
		dev.SetDepthTest(c.Enabled)
	case SetDepthFuncCommand:
		if !gs.SetDepthFunc(c.Func) {
			return false
		}
		dev.SetDepthFunc(c.Func)
	case SetPolygonModeCommand:
		if !gs.SetPolygonMode(c.Mode) {
			return false
		}
		dev.SetPolygonMode(c.Mode)
	case SetFaceCullingCommand:
		if !gs.SetFaceCulling(c.Enabled) {
			return false
		}
		dev.SetFaceCulling(c.Enabled)
	case SetCullFaceCommand:
		if !gs.SetCullFace(c.Face) {
			return false
		}
		dev.SetCullFace(c.Face)
	case SetBlendingCommand:
		if !gs.SetBlending(c.Enabled) {
			return false
		}
		dev.SetBlending(c.Enabled)
	case SetBlendFactorsCommand:
		if !gs.SetBlendFactors(c.Src, c.Dst) {
			return false
		}
		dev.SetBlendFactors(c.Src, c.Dst)
	case BindVertexArrayCommand:
		if !gs.BindVertexArray(c.VertexArray) {
			return false
		}
		dev.BindVertexArray(c.VertexArray)
	case BindShaderProgramCommand:
		if !gs.BindShaderProgram(c.Program) {
			return false
		}
		dev.BindShaderProgram(c.Program)
	case BindFramebufferCommand:
		if !gs.BindFramebuffer(c.Framebuffer) {
			return false
		}
		dev.BindFramebuffer(c.Framebuffer)
	case BindTextureCommand:
		if c.Unit < 0 || c.Unit >= gpu.MaxTextureUnits {
			slog.Error("render: texture unit out of range", "unit", c.Unit)
			return false
		}
		if !gs.BindTexture(c.Unit, c.Texture) {
			return false
		}
		dev.BindTexture(c.Unit, c.Texture)
	case BindUniformBufferCommand:
		if !gs.BindUniformBuffer(c.Slot, c.Buffer) {
			return false
		}
		dev.BindUniformBuffer(c.Slot, c.Buffer)
	case SetUniformCommand:
		sp := gs.ShaderProgram()
		if sp == nil {
			slog.Error("render: uniform set without a bound shader program", "uniform", c.Name)
			return false
		}
		loc := sp.UniformLocation(c.Name)
		if !gs.SetUniform(loc, c.Value) {
			return false
		}
		dev.SetUniform(loc, c.Value)
	case UpdateBufferCommand:
		if err := c.Buffer.Update(c.Offset, c.Data); err != nil {
			slog.Error("render: buffer update failed", "buffer", c.Buffer.Label(), "err", err)
			return false
		}
	case ClearCommand:
		dev.Clear(c.Color, c.Depth)
	case DrawArraysCommand:
		dev.DrawArrays(c.Topology, c.First, c.Count, c.Instances)
		cb.stats.Draws++
	case DrawElementsCommand:
		dev.DrawElements(c.Topology, c.Count, c.IndexType, c.First*c.IndexType.Size(), c.Instances)
		cb.stats.Draws++
	default:
		slog.Error("render: unknown command", "type", cmd.Type())
		return false
	}
	return true
}
