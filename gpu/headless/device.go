// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package headless implements the [gpu.Device] facade in memory.
// It keeps all uploaded data, tracks bound state, and records every
// call and draw, which makes it the backend for tests and for running
// the engine without a window.
package headless

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

func (cl Call) String() string {
	return fmt.Sprintf("%s%v", cl.Name, cl.Args)
}

// Draw is one recorded draw call with the state it was issued in.
type Draw struct {
	Topology    gputypes.PrimitiveTopology
	Indexed     bool
	IndexType   gpu.IndexType
	First       int
	Offset      int
	Count       int
	Instances   int
	Program     *ShaderProgram
	VertexArray *VertexArray
	Framebuffer *Framebuffer
	Textures    [gpu.MaxTextureUnits]*Texture

	// Uniforms is a snapshot of the program uniforms at draw time.
	Uniforms map[int]any
}

// State is the current device state.
type State struct {
	Viewport     image.Rectangle
	DepthTest    bool
	DepthFunc    gputypes.CompareFunction
	PolygonMode  gpu.PolygonMode
	FaceCulling  bool
	CullFace     gputypes.CullMode
	Blending     bool
	BlendSrc     gputypes.BlendFactor
	BlendDst     gputypes.BlendFactor
	VertexArray  *VertexArray
	Program      *ShaderProgram
	Framebuffer  *Framebuffer
	Textures     [gpu.MaxTextureUnits]*Texture
	UniformSlots map[int]*Buffer
}

// Device is an in-memory [gpu.Device].
type Device struct {
	// Calls are all state and draw calls in order, when Record is set.
	Calls []Call

	// Draws are all draw calls in order.
	Draws []Draw

	// State is the current bound state.
	State State

	// Record enables recording into Calls.
	Record bool

	// live holds the resources created and not yet released.
	live map[gpu.Resource]struct{}

	// counts has the number of times each call name was made.
	counts map[string]int
}

// NewDevice returns a new recording [Device].
func NewDevice() *Device {
	dv := &Device{Record: true}
	dv.Reset()
	return dv
}

// Reset clears recorded calls, draws and counts, keeping resources.
func (dv *Device) Reset() {
	dv.Calls = nil
	dv.Draws = nil
	dv.counts = make(map[string]int)
	if dv.live == nil {
		dv.live = make(map[gpu.Resource]struct{})
	}
	if dv.State.UniformSlots == nil {
		dv.State.UniformSlots = make(map[int]*Buffer)
	}
}

// Count returns the number of calls made with the given name.
func (dv *Device) Count(name string) int {
	return dv.counts[name]
}

// Live returns the number of created resources not yet released.
func (dv *Device) Live() int {
	return len(dv.live)
}

func (dv *Device) record(name string, args ...any) {
	dv.counts[name]++
	if dv.Record {
		dv.Calls = append(dv.Calls, Call{Name: name, Args: args})
	}
}

func (dv *Device) track(res gpu.Resource) {
	dv.live[res] = struct{}{}
	dv.record("New", res.Label())
}

func (dv *Device) untrack(res gpu.Resource) {
	delete(dv.live, res)
	dv.record("Release", res.Label())
}

func (dv *Device) NewTexture(label string) gpu.Texture {
	tx := &Texture{device: dv, label: label}
	tx.config.Defaults()
	dv.track(tx)
	return tx
}

func (dv *Device) NewBuffer(label string) gpu.Buffer {
	bf := &Buffer{device: dv, label: label}
	dv.track(bf)
	return bf
}

func (dv *Device) NewVertexArray(label string) gpu.VertexArray {
	va := &VertexArray{device: dv, label: label}
	va.Bindings = make(map[int]VertexBinding)
	va.Attributes = make(map[int]VertexAttribute)
	dv.track(va)
	return va
}

func (dv *Device) NewShaderProgram(label string, stages ...gpu.ShaderStage) (gpu.ShaderProgram, error) {
	sp, err := compileProgram(dv, label, stages)
	if err != nil {
		slog.Error("headless: shader program failed to compile", "program", label, "error", err)
		return nil, err
	}
	dv.track(sp)
	return sp, nil
}

func (dv *Device) NewFramebuffer(label string) gpu.Framebuffer {
	fb := &Framebuffer{device: dv, label: label, attachments: make(map[gpu.Attachment]*Texture)}
	dv.track(fb)
	return fb
}

func (dv *Device) SetViewport(x, y, width, height int) {
	dv.State.Viewport = image.Rect(x, y, x+width, y+height)
	dv.record("SetViewport", x, y, width, height)
}

func (dv *Device) SetDepthTest(enabled bool) {
	dv.State.DepthTest = enabled
	dv.record("SetDepthTest", enabled)
}

func (dv *Device) SetDepthFunc(fn gputypes.CompareFunction) {
	dv.State.DepthFunc = fn
	dv.record("SetDepthFunc", fn)
}

func (dv *Device) SetPolygonMode(mode gpu.PolygonMode) {
	dv.State.PolygonMode = mode
	dv.record("SetPolygonMode", mode)
}

func (dv *Device) SetFaceCulling(enabled bool) {
	dv.State.FaceCulling = enabled
	dv.record("SetFaceCulling", enabled)
}

func (dv *Device) SetCullFace(face gputypes.CullMode) {
	dv.State.CullFace = face
	dv.record("SetCullFace", face)
}

func (dv *Device) SetBlending(enabled bool) {
	dv.State.Blending = enabled
	dv.record("SetBlending", enabled)
}

func (dv *Device) SetBlendFactors(src, dst gputypes.BlendFactor) {
	dv.State.BlendSrc, dv.State.BlendDst = src, dst
	dv.record("SetBlendFactors", src, dst)
}

func (dv *Device) BindVertexArray(va gpu.VertexArray) {
	dv.State.VertexArray = asType[*VertexArray](va)
	dv.record("BindVertexArray", label(va))
}

func (dv *Device) BindShaderProgram(sp gpu.ShaderProgram) {
	dv.State.Program = asType[*ShaderProgram](sp)
	dv.record("BindShaderProgram", label(sp))
}

func (dv *Device) BindFramebuffer(fb gpu.Framebuffer) {
	dv.State.Framebuffer = asType[*Framebuffer](fb)
	dv.record("BindFramebuffer", label(fb))
}

func (dv *Device) BindTexture(unit int, tex gpu.Texture) {
	if unit < 0 || unit >= gpu.MaxTextureUnits {
		panic(fmt.Sprintf("headless: texture unit %d out of range", unit))
	}
	dv.State.Textures[unit] = asType[*Texture](tex)
	dv.record("BindTexture", unit, label(tex))
}

func (dv *Device) BindUniformBuffer(slot int, buf gpu.Buffer) {
	dv.State.UniformSlots[slot] = asType[*Buffer](buf)
	dv.record("BindUniformBuffer", slot, label(buf))
}

func (dv *Device) SetUniform(location int, value any) {
	sp := dv.State.Program
	if sp == nil {
		panic("headless: SetUniform without a bound shader program")
	}
	if location >= 0 {
		sp.Uniforms[location] = value
	}
	dv.record("SetUniform", location, value)
}

func (dv *Device) Clear(color math32.Vector4, depth bool) {
	if fb := dv.State.Framebuffer; fb != nil {
		fb.Clears++
	}
	dv.record("Clear", color, depth)
}

func (dv *Device) DrawArrays(topology gputypes.PrimitiveTopology, first, count, instances int) {
	dv.addDraw(Draw{Topology: topology, First: first, Count: count, Instances: instances})
	dv.record("DrawArrays", topology, first, count, instances)
}

func (dv *Device) DrawElements(topology gputypes.PrimitiveTopology, count int, index gpu.IndexType, offset, instances int) {
	va := dv.State.VertexArray
	if va == nil || va.IndexBuffer == nil {
		panic("headless: DrawElements without a bound index buffer")
	}
	dv.addDraw(Draw{Topology: topology, Indexed: true, IndexType: index, Offset: offset, First: offset / index.Size(), Count: count, Instances: instances})
	dv.record("DrawElements", topology, count, index, offset, instances)
}

func (dv *Device) addDraw(dr Draw) {
	st := &dv.State
	if st.Program == nil {
		panic("headless: draw without a bound shader program")
	}
	dr.Program = st.Program
	dr.VertexArray = st.VertexArray
	dr.Framebuffer = st.Framebuffer
	dr.Textures = st.Textures
	dr.Uniforms = make(map[int]any, len(st.Program.Uniforms))
	for k, v := range st.Program.Uniforms {
		dr.Uniforms[k] = v
	}
	dv.Draws = append(dv.Draws, dr)
}

// asType converts a facade value to the concrete headless type,
// mapping nil to nil and panicking on foreign resources.
func asType[T any](v any) T {
	var zv T
	if v == nil {
		return zv
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("headless: resource of type %T was not created by a headless device", v))
	}
	return t
}

func label(res gpu.Resource) string {
	if res == nil {
		return ""
	}
	return res.Label()
}
