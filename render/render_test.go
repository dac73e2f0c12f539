// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"encoding/binary"
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/gpu/headless"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphicsStateViewport(t *testing.T) {
	gs := NewGraphicsState()
	assert.True(t, gs.SetViewport(0, 0, 800, 600))
	assert.False(t, gs.SetViewport(0, 0, 800, 600))
	assert.True(t, gs.SetViewport(0, 0, 1024, 600))
	assert.Equal(t, 1024, gs.Viewport().Dx())
}

func TestGraphicsStateSetters(t *testing.T) {
	gs := NewGraphicsState()
	assert.False(t, gs.SetDepthTest(false))
	assert.True(t, gs.SetDepthTest(true))
	assert.False(t, gs.SetDepthFunc(gputypes.CompareFunctionLess))
	assert.True(t, gs.SetDepthFunc(gputypes.CompareFunctionAlways))
	assert.False(t, gs.SetPolygonMode(gpu.PolygonFill))
	assert.True(t, gs.SetPolygonMode(gpu.PolygonLine))
	assert.True(t, gs.SetFaceCulling(true))
	assert.False(t, gs.SetFaceCulling(true))
	assert.True(t, gs.SetCullFace(gputypes.CullModeNone))
	assert.True(t, gs.SetBlending(true))
	assert.False(t, gs.SetBlendFactors(gputypes.BlendFactorOne, gputypes.BlendFactorZero))
	assert.True(t, gs.SetBlendFactors(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha))
	assert.False(t, gs.SetBlendFactors(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha))

	dv := headless.NewDevice()
	tx := dv.NewTexture("t")
	assert.True(t, gs.BindTexture(3, tx))
	assert.False(t, gs.BindTexture(3, tx))
	assert.True(t, gs.BindTexture(3, nil))
	assert.False(t, gs.BindVertexArray(nil))

	buf := dv.NewBuffer("ubo")
	assert.True(t, gs.BindUniformBuffer(0, buf))
	assert.False(t, gs.BindUniformBuffer(0, buf))

	sp, err := dv.NewShaderProgram("p",
		gpu.ShaderStage{Stage: gputypes.ShaderStageVertex, Source: "uniform mat4 model;"},
		gpu.ShaderStage{Stage: gputypes.ShaderStageFragment, Source: "uniform vec4 color;"})
	require.NoError(t, err)
	assert.True(t, gs.BindShaderProgram(sp))
	assert.True(t, gs.SetUniform(0, float32(1)))
	assert.False(t, gs.SetUniform(0, float32(1)))
	assert.True(t, gs.SetUniform(0, []float32{1}))
	assert.True(t, gs.SetUniform(0, []float32{1}))
	assert.False(t, gs.SetUniform(-1, float32(1)))
	assert.False(t, gs.BindShaderProgram(sp))

	gs.Reset()
	assert.True(t, gs.SetViewport(0, 0, 1024, 600))
	assert.Nil(t, gs.ShaderProgram())
}

func TestCommandTypeString(t *testing.T) {
	assert.Equal(t, "SetViewport", CmdSetViewport.String())
	assert.Equal(t, "DrawElements", DrawElementsCommand{}.Type().String())
	assert.Equal(t, "Unknown", CommandType(200).String())
}

func TestCommandBufferSuppression(t *testing.T) {
	dv := headless.NewDevice()
	cb := NewCommandBuffer()
	cb.SetViewport(0, 0, 800, 600)
	cb.SetViewport(0, 0, 800, 600)
	cb.SetDepthTest(true)
	cb.SetDepthTest(true)
	cb.SetBlending(false)
	require.Equal(t, 5, cb.Len())

	stats := cb.Execute(dv)
	assert.Equal(t, 2, stats.Issued)
	assert.Equal(t, 3, stats.Suppressed)
	assert.Equal(t, 0, cb.Len())
	assert.Equal(t, 1, dv.Count("SetViewport"))
	assert.Equal(t, 1, dv.Count("SetDepthTest"))
	assert.Equal(t, 0, dv.Count("SetBlending"))

	// state carries over to the next execution
	cb.SetViewport(0, 0, 800, 600)
	stats = cb.Execute(dv)
	assert.Equal(t, 0, stats.Issued)
	assert.Equal(t, 1, dv.Count("SetViewport"))
}

func TestCommandBufferDraw(t *testing.T) {
	dv := headless.NewDevice()
	sp, err := dv.NewShaderProgram("p",
		gpu.ShaderStage{Stage: gputypes.ShaderStageVertex, Source: "uniform mat4 model;"},
		gpu.ShaderStage{Stage: gputypes.ShaderStageFragment, Source: "uniform vec4 color;"})
	require.NoError(t, err)
	va := dv.NewVertexArray("mesh")
	ib := dv.NewBuffer("indices")
	ib.SetData(gpu.BufferConfig{Target: gpu.IndexBuffer}, make([]byte, 24))
	va.BindIndexBuffer(ib)

	cb := NewCommandBuffer()
	cb.SetUniform("model", math32.Matrix4{})
	cb.BindShaderProgram(sp)
	cb.BindVertexArray(va)
	cb.SetUniform("color", math32.Vec4(1, 0, 0, 1))
	cb.SetUniform("missing", float32(2))
	cb.DrawElements(gputypes.PrimitiveTopologyTriangleList, 6, 3, gpu.IndexUint16, 1)
	cb.UpdateBuffer(ib, 20, make([]byte, 8))

	stats := cb.Execute(dv)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 4, stats.Issued)
	assert.Equal(t, 3, stats.Suppressed)

	require.Len(t, dv.Draws, 1)
	dr := dv.Draws[0]
	assert.Equal(t, 12, dr.Offset)
	assert.Equal(t, 6, dr.First)
	assert.Equal(t, 3, dr.Count)
	assert.Equal(t, math32.Vec4(1, 0, 0, 1), dr.Uniforms[sp.UniformLocation("color")])
}

func TestPipelineRegistry(t *testing.T) {
	assert.Contains(t, Pipelines(), DeferredPBR)
	pl, err := NewPipeline(DeferredPBR)
	require.NoError(t, err)
	assert.Equal(t, DeferredPBR, pl.Kind())

	_, err = NewPipeline(PipelineKind(42))
	assert.Error(t, err)
	assert.Panics(t, func() { RegisterPipeline(DeferredPBR, func() Pipeline { return &Deferred{} }) })
	assert.Panics(t, func() { RegisterPipeline(PipelineKind(43), nil) })
	assert.Equal(t, "DeferredPBR", DeferredPBR.String())
}

func TestMaterial(t *testing.T) {
	dv := headless.NewDevice()
	mt := NewMaterial()
	assert.Equal(t, math32.Vec4(0.9, 0.9, 0.9, 1), mt.BaseColor)
	assert.Equal(t, float32(0), mt.Metallic)
	assert.Equal(t, float32(1), mt.Roughness)

	hd := gpu.Share(dv.NewTexture("albedo"))
	mt.BaseColorTexture = hd.Acquire()
	assert.Equal(t, hd, mt.Textures()[BaseColorUnit])
	mt.Release()
	assert.Nil(t, mt.BaseColorTexture)
	assert.Equal(t, 1, hd.Refs())
	assert.Equal(t, 1, dv.Live())
	hd.Release()
	assert.Equal(t, 0, dv.Live())
}

func TestSystemUnknownPipeline(t *testing.T) {
	dv := headless.NewDevice()
	sy := NewSystem(dv)
	cfg := &Configuration{}
	cfg.Defaults()
	cfg.Pipeline = PipelineKind(42)
	sy.Configure(cfg)
	assert.False(t, sy.Valid())

	assert.NotPanics(t, func() {
		sy.BeginRender()
		sy.SetModelMatrix(&math32.Matrix4{})
		sy.DrawMesh(gputypes.PrimitiveTopologyTriangleList, 0, 3, gpu.IndexUint16, 1)
		sy.FinishRender()
	})
	assert.Empty(t, dv.Draws)
	assert.Equal(t, 0, sy.CommandBuffer().Len())
}

// testMesh returns a vertex array with one triangle.
func testMesh(dv *headless.Device) gpu.VertexArray {
	va := dv.NewVertexArray("triangle")
	vb := dv.NewBuffer("vertices")
	vb.SetData(gpu.BufferConfig{Target: gpu.VertexBuffer}, make([]byte, 36))
	ib := dv.NewBuffer("indices")
	ib.SetData(gpu.BufferConfig{Target: gpu.IndexBuffer}, make([]byte, 6))
	va.BindVertexBuffer(0, vb, 0, 12)
	va.SetVertexAttribute(gpu.PositionLocation, 0, gputypes.VertexFormatFloat32x3, 0)
	va.BindIndexBuffer(ib)
	return va
}

func TestSystemDeferredFrame(t *testing.T) {
	dv := headless.NewDevice()
	sy := NewSystem(dv)
	cfg := &Configuration{}
	cfg.Defaults()
	cfg.Width, cfg.Height = 64, 32
	sy.Configure(cfg)
	require.True(t, sy.Valid())
	df := sy.Pipeline().(*Deferred)

	va := testMesh(dv)
	albedo := gpu.Share(dv.NewTexture("albedo"))
	mt := NewMaterial()
	mt.BaseColorTexture = albedo.Acquire()

	var vp, model math32.Matrix4
	vp.SetPerspective(45, 2, 0.1, 10)
	model.SetIdentity()

	frame := func() ExecuteStats {
		sy.BeginRender()
		sy.SetViewProjection(&vp)
		sy.BindVertexArray(va)
		sy.SetModelMatrix(&model)
		sy.PushMaterial(mt)
		sy.DrawMesh(gputypes.PrimitiveTopologyTriangleList, 0, 3, gpu.IndexUint16, 1)
		sy.FinishRender()
		return sy.CommandBuffer().Stats()
	}
	first := frame()
	require.Len(t, dv.Draws, 2)

	geo := dv.Draws[0]
	assert.True(t, geo.Indexed)
	assert.Equal(t, "deferred.geometry", geo.Program.Label())
	assert.Equal(t, "deferred.gbuffer", geo.Framebuffer.Label())
	assert.Same(t, albedo.Get().(*headless.Texture), geo.Textures[BaseColorUnit])
	assert.Equal(t, true, geo.Uniforms[geo.Program.UniformLocation("hasBaseColorTexture")])
	assert.Equal(t, false, geo.Uniforms[geo.Program.UniformLocation("hasNormalTexture")])
	assert.Equal(t, mt.BaseColor, geo.Uniforms[geo.Program.UniformLocation("baseColor")])
	assert.Equal(t, model, geo.Uniforms[geo.Program.UniformLocation("model")])

	light := dv.Draws[1]
	assert.False(t, light.Indexed)
	assert.Equal(t, 3, light.Count)
	assert.Nil(t, light.Framebuffer)
	assert.Equal(t, "gbufferDepth", light.Textures[GBufferDepthUnit].Label())
	assert.Equal(t, false, light.Uniforms[light.Program.UniformLocation("hasEnvironment")])

	camera := df.cameraData.(*headless.Buffer)
	assert.Equal(t, vp[0], math.Float32frombits(binary.LittleEndian.Uint32(camera.Data)))
	assert.InDelta(t, 0, math.Float32frombits(binary.LittleEndian.Uint32(camera.Data[64:])), 1e-4)
	assert.InDelta(t, 0, math.Float32frombits(binary.LittleEndian.Uint32(camera.Data[72:])), 1e-4)

	second := frame()
	assert.Len(t, dv.Draws, 4)
	assert.Greater(t, second.Suppressed, first.Suppressed)
	assert.Equal(t, 2, second.Draws)

	sy.Destroy()
	assert.False(t, sy.Valid())
	mt.Release()
	albedo.Release()
}

func TestSystemEnvironmentAndReconfigure(t *testing.T) {
	dv := headless.NewDevice()
	sy := NewSystem(dv)
	cfg := &Configuration{}
	cfg.Defaults()
	cfg.Width, cfg.Height = 8, 8
	sy.Configure(cfg)
	pl := sy.Pipeline()

	env := gpu.Share(dv.NewTexture("environment"))
	sy.SetEnvironmentTexture(env, 2)
	assert.Equal(t, 2, env.Refs())

	cfg.Width = 16
	sy.Configure(cfg)
	assert.Same(t, pl, sy.Pipeline())
	df := pl.(*Deferred)
	w, _ := df.targets[0].Size()
	assert.Equal(t, 16, w)

	sy.BeginRender()
	sy.FinishRender()
	light := dv.Draws[len(dv.Draws)-1]
	assert.Equal(t, true, light.Uniforms[light.Program.UniformLocation("hasEnvironment")])
	assert.Equal(t, float32(2), light.Uniforms[light.Program.UniformLocation("environmentMip")])
	assert.Equal(t, "environment", light.Textures[EnvironmentUnit].Label())

	sy.SetEnvironmentTexture(nil, 0)
	assert.Equal(t, 1, env.Refs())

	sy.Destroy()
	env.Release()
	assert.Equal(t, 0, dv.Live())
}
