// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"embed"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

//go:embed shaders/*
var shaders embed.FS

// Texture units of the geometry pass, in [Material.Textures] order.
const (
	BaseColorUnit = iota
	MetallicRoughnessUnit
	OcclusionUnit
	NormalUnit
	EmissiveUnit
)

// Texture units of the lighting pass.
const (
	GBufferAlbedoUnit = iota
	GBufferNormalUnit
	GBufferEmissiveUnit
	GBufferORMUnit
	GBufferDepthUnit
	EnvironmentUnit
)

// CameraDataSlot is the uniform buffer slot of the camera data block.
const CameraDataSlot = 0

// cameraDataSize is the std140 size of the view projection matrix
// followed by the camera position.
const cameraDataSize = 16*4 + 4*4

var materialSamplers = [5]string{
	"baseColorTexture", "metallicRoughnessTexture", "occlusionTexture", "normalTexture", "emissiveTexture",
}

var materialFlags = [5]string{
	"hasBaseColorTexture", "hasMetallicRoughnessTexture", "hasOcclusionTexture", "hasNormalTexture", "hasEmissiveTexture",
}

// gbufferTargets are the storage formats of the G-buffer attachments,
// the last one being the depth buffer.
var gbufferTargets = [5]struct {
	point              gpu.Attachment
	internal, pixel, c gpu.Format
	sampler            string
}{
	{gpu.ColorAttachment0, gpu.RGBA8, gpu.RGBA, gpu.UnsignedByte, "gbufferAlbedo"},
	{gpu.ColorAttachment1, gpu.RGBA16F, gpu.RGBA, gpu.Float, "gbufferNormal"},
	{gpu.ColorAttachment2, gpu.RGBA8, gpu.RGBA, gpu.UnsignedByte, "gbufferEmissive"},
	{gpu.ColorAttachment3, gpu.RGBA8, gpu.RGBA, gpu.UnsignedByte, "gbufferORM"},
	{gpu.DepthStencilAttachment, gpu.Depth24Stencil8, gpu.DepthStencil, gpu.UnsignedInt, "gbufferDepth"},
}

// Deferred is the [DeferredPBR] pipeline. The geometry pass writes
// albedo, normals, emissive color and occlusion-roughness-metallic
// values into a G-buffer; the lighting pass shades a full screen
// triangle from it, drawing the environment as the background.
type Deferred struct {
	dev  gpu.Device
	cmds *CommandBuffer

	config Configuration

	gbuffer  gpu.Framebuffer
	targets  [len(gbufferTargets)]gpu.Texture
	geometry gpu.ShaderProgram
	lighting gpu.ShaderProgram

	cameraData gpu.Buffer

	environment    *gpu.Handle[gpu.Texture]
	environmentMip float32

	viewProjection math32.Matrix4
	inverseVP      math32.Matrix4

	width, height int
}

func (df *Deferred) Kind() PipelineKind { return DeferredPBR }

func (df *Deferred) Create(dev gpu.Device, cmds *CommandBuffer, cfg *Configuration) error {
	df.dev = dev
	df.cmds = cmds
	df.config = *cfg
	df.viewProjection.SetIdentity()
	df.inverseVP.SetIdentity()

	var err error
	df.geometry, err = df.program("geometry")
	if err != nil {
		return err
	}
	df.lighting, err = df.program("lighting")
	if err != nil {
		return err
	}
	df.cameraData = dev.NewBuffer("deferred.camera")
	df.cameraData.SetData(gpu.BufferConfig{Target: gpu.UniformBuffer, Dynamic: true}, make([]byte, cameraDataSize))

	df.gbuffer = dev.NewFramebuffer("deferred.gbuffer")
	return df.resize(max(cfg.Width, 1), max(cfg.Height, 1))
}

// program loads and links the vertex and fragment shader of a pass.
func (df *Deferred) program(pass string) (gpu.ShaderProgram, error) {
	vert, err := shaders.ReadFile("shaders/" + pass + ".vert")
	if err != nil {
		return nil, err
	}
	frag, err := shaders.ReadFile("shaders/" + pass + ".frag")
	if err != nil {
		return nil, err
	}
	sp, err := df.dev.NewShaderProgram("deferred."+pass,
		gpu.ShaderStage{Stage: gputypes.ShaderStageVertex, Source: string(vert)},
		gpu.ShaderStage{Stage: gputypes.ShaderStageFragment, Source: string(frag)})
	if err != nil {
		return nil, fmt.Errorf("render.Deferred: %s pass: %w", pass, err)
	}
	return sp, nil
}

// resize (re)creates the G-buffer attachments at the given size.
func (df *Deferred) resize(width, height int) error {
	if width == df.width && height == df.height {
		return nil
	}
	df.width, df.height = width, height
	var errs []error
	for i, tg := range gbufferTargets {
		if df.targets[i] != nil {
			df.targets[i].Release()
		}
		tx := df.dev.NewTexture(tg.sampler)
		cfg := tx.Config()
		cfg.MinFilter, cfg.MagFilter = gpu.Nearest, gpu.Nearest
		cfg.WrapS, cfg.WrapT = gpu.ClampToEdge, gpu.ClampToEdge
		cfg.MipLevels = 1
		tx.SetParameters(cfg)
		errs = append(errs, tx.SetData(tg.internal, width, height, tg.pixel, tg.c, nil))
		df.targets[i] = tx
		df.gbuffer.Attach(tg.point, tx)
	}
	errs = append(errs, df.gbuffer.Check())
	return errors.Join(errs...)
}

func (df *Deferred) Configure(cfg *Configuration) {
	df.config = *cfg
	errors.Log(df.resize(max(cfg.Width, 1), max(cfg.Height, 1)))
}

// BeginRender sets up the geometry pass into the G-buffer.
func (df *Deferred) BeginRender() {
	cb := df.cmds
	cb.BindFramebuffer(df.gbuffer)
	cb.SetViewport(0, 0, df.width, df.height)
	cb.SetDepthTest(true)
	cb.SetDepthFunc(gputypes.CompareFunctionLess)
	cb.SetFaceCulling(true)
	cb.SetCullFace(gputypes.CullModeBack)
	cb.SetBlending(false)
	if df.config.Wireframe {
		cb.SetPolygonMode(gpu.PolygonLine)
	} else {
		cb.SetPolygonMode(gpu.PolygonFill)
	}
	cb.Clear(math32.Vector4{}, true)
	cb.BindShaderProgram(df.geometry)
	cb.BindUniformBuffer(CameraDataSlot, df.cameraData)
	for unit, name := range materialSamplers {
		cb.SetUniform(name, int32(unit))
	}
}

// FinishRender runs the lighting pass and flushes the command buffer.
func (df *Deferred) FinishRender() {
	cb := df.cmds
	cb.BindFramebuffer(nil)
	cb.SetViewport(0, 0, df.width, df.height)
	cb.SetDepthTest(false)
	cb.SetFaceCulling(false)
	cb.SetPolygonMode(gpu.PolygonFill)
	cb.Clear(df.config.ClearColor, true)
	cb.BindShaderProgram(df.lighting)
	cb.BindUniformBuffer(CameraDataSlot, df.cameraData)
	cb.BindVertexArray(nil)
	for i, tg := range gbufferTargets {
		cb.BindTexture(GBufferAlbedoUnit+i, df.targets[i])
		cb.SetUniform(tg.sampler, int32(GBufferAlbedoUnit+i))
	}
	hasEnv := df.environment.Valid()
	cb.SetUniform("hasEnvironment", hasEnv)
	if hasEnv {
		cb.BindTexture(EnvironmentUnit, df.environment.Get())
		cb.SetUniform("environmentTexture", int32(EnvironmentUnit))
		cb.SetUniform("environmentMip", df.environmentMip)
	}
	cb.SetUniform("inverseViewProjection", df.inverseVP)
	cb.SetUniform("clearColor", df.config.ClearColor)
	cb.DrawArrays(gputypes.PrimitiveTopologyTriangleList, 0, 3, 1)

	stats := cb.Execute(df.dev)
	slog.Debug("render.Deferred: frame", "stats", stats)
}

func (df *Deferred) SetViewport(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		slog.Warn("render.Deferred: ignoring empty viewport", "width", width, "height", height)
		return
	}
	errors.Log(df.resize(width, height))
	df.cmds.SetViewport(x, y, width, height)
}

// SetModelMatrix sets the model and normal matrix of the following draws.
func (df *Deferred) SetModelMatrix(model *math32.Matrix4) {
	var nm math32.Matrix3
	nm.SetNormalMatrix(model)
	df.cmds.SetUniform("model", *model)
	df.cmds.SetUniform("normalMatrix", nm)
}

// PushMaterial binds the textures and factors of mt for the following draws.
func (df *Deferred) PushMaterial(mt *Material) {
	cb := df.cmds
	cb.SetUniform("baseColor", mt.BaseColor)
	cb.SetUniform("metallic", mt.Metallic)
	cb.SetUniform("roughness", mt.Roughness)
	cb.SetUniform("emissive", mt.Emissive)
	cb.SetUniform("packedOcclusion", mt.PackedOcclusion)
	for unit, tx := range mt.Textures() {
		has := tx.Valid()
		cb.SetUniform(materialFlags[unit], has)
		if has {
			cb.BindTexture(BaseColorUnit+unit, tx.Get())
		}
	}
}

func (df *Deferred) DrawMesh(topology gputypes.PrimitiveTopology, first, count int, index gpu.IndexType, instances int) {
	df.cmds.DrawElements(topology, first, count, index, instances)
}

// SetViewProjection uploads the camera matrix. The camera position is
// recovered from the inverse matrix.
func (df *Deferred) SetViewProjection(viewProjection *math32.Matrix4) {
	df.viewProjection = *viewProjection
	inv, err := viewProjection.Inverse()
	if err != nil {
		slog.Warn("render.Deferred: view projection is not invertible")
		return
	}
	df.inverseVP = *inv
	eye := math32.Vec4(0, 0, 1, 0).MulMatrix4(inv)
	if math32.Abs(eye.W) < 1e-6 {
		// orthographic: use the near plane center
		eye = math32.Vec4(0, 0, -1, 1).MulMatrix4(inv)
	}
	pos := eye.PerspDiv()

	data := make([]byte, cameraDataSize)
	for i, v := range df.viewProjection {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	for i, v := range [4]float32{pos.X, pos.Y, pos.Z, 1} {
		binary.LittleEndian.PutUint32(data[64+i*4:], math.Float32bits(v))
	}
	df.cmds.UpdateBuffer(df.cameraData, 0, data)
}

// SetEnvironmentTexture takes an owner reference on hdr and
// drops the previous environment.
func (df *Deferred) SetEnvironmentTexture(hdr *gpu.Handle[gpu.Texture], renderedMip float32) {
	if hdr != nil {
		hdr.Acquire()
	}
	df.environment.Release()
	df.environment = hdr
	df.environmentMip = renderedMip
}

func (df *Deferred) Update(dt float32) {}

func (df *Deferred) Destroy() {
	df.environment.Release()
	df.environment = nil
	for i, tx := range df.targets {
		if tx != nil {
			tx.Release()
			df.targets[i] = nil
		}
	}
	for _, res := range []gpu.Resource{df.gbuffer, df.geometry, df.lighting, df.cameraData} {
		if res != nil {
			res.Release()
		}
	}
	df.gbuffer, df.geometry, df.lighting, df.cameraData = nil, nil, nil, nil
	df.width, df.height = 0, 0
}
