// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// System is the render system used by scenes and the application loop.
// It forwards frame calls to the configured [Pipeline], which records
// them into a command buffer shared across pipeline changes. Until a
// pipeline is configured successfully, frame calls do nothing.
type System struct {
	dev      gpu.Device
	cmds     *CommandBuffer
	pipeline Pipeline
}

// NewSystem returns a render system for dev without a pipeline.
func NewSystem(dev gpu.Device) *System {
	return &System{dev: dev, cmds: NewCommandBuffer()}
}

// Device returns the device the system renders with.
func (sy *System) Device() gpu.Device {
	return sy.dev
}

// CommandBuffer returns the command buffer shared with the pipelines.
func (sy *System) CommandBuffer() *CommandBuffer {
	return sy.cmds
}

// Pipeline returns the current pipeline, or nil.
func (sy *System) Pipeline() Pipeline {
	return sy.pipeline
}

// Configure applies cfg. When the pipeline kind changes the current
// pipeline is destroyed and a new one is created on the shared command
// buffer. An unknown kind or a failed creation is logged and leaves the
// system without a pipeline.
func (sy *System) Configure(cfg *Configuration) {
	if sy.pipeline != nil && sy.pipeline.Kind() == cfg.Pipeline {
		sy.pipeline.Configure(cfg)
		return
	}
	if sy.pipeline != nil {
		sy.pipeline.Destroy()
		sy.pipeline = nil
	}
	pl, err := NewPipeline(cfg.Pipeline)
	if err != nil {
		slog.Error("render.System: render pipeline cannot be created", "pipeline", cfg.Pipeline, "err", err)
		return
	}
	if err := pl.Create(sy.dev, sy.cmds, cfg); err != nil {
		slog.Error("render.System: render pipeline creation failed", "pipeline", cfg.Pipeline, "err", err)
		pl.Destroy()
		return
	}
	sy.pipeline = pl
	slog.Info("render.System: configured", "pipeline", cfg.Pipeline, "width", cfg.Width, "height", cfg.Height)
}

// Valid returns whether a pipeline is configured.
func (sy *System) Valid() bool {
	return sy.pipeline != nil
}

func (sy *System) BeginRender() {
	if sy.pipeline != nil {
		sy.pipeline.BeginRender()
	}
}

func (sy *System) FinishRender() {
	if sy.pipeline != nil {
		sy.pipeline.FinishRender()
	}
}

func (sy *System) SetViewport(x, y, width, height int) {
	if sy.pipeline != nil {
		sy.pipeline.SetViewport(x, y, width, height)
	}
}

func (sy *System) SetModelMatrix(model *math32.Matrix4) {
	if sy.pipeline != nil {
		sy.pipeline.SetModelMatrix(model)
	}
}

func (sy *System) PushMaterial(mt *Material) {
	if sy.pipeline != nil {
		sy.pipeline.PushMaterial(mt)
	}
}

// BindVertexArray records the vertex array binding for the next draws.
func (sy *System) BindVertexArray(va gpu.VertexArray) {
	if sy.pipeline != nil {
		sy.cmds.BindVertexArray(va)
	}
}

func (sy *System) DrawMesh(topology gputypes.PrimitiveTopology, first, count int, index gpu.IndexType, instances int) {
	if sy.pipeline != nil {
		sy.pipeline.DrawMesh(topology, first, count, index, instances)
	}
}

func (sy *System) SetViewProjection(viewProjection *math32.Matrix4) {
	if sy.pipeline != nil {
		sy.pipeline.SetViewProjection(viewProjection)
	}
}

func (sy *System) SetEnvironmentTexture(hdr *gpu.Handle[gpu.Texture], renderedMip float32) {
	if sy.pipeline != nil {
		sy.pipeline.SetEnvironmentTexture(hdr, renderedMip)
	}
}

func (sy *System) Update(dt float32) {
	if sy.pipeline != nil {
		sy.pipeline.Update(dt)
	}
}

// Destroy destroys the pipeline and drops pending commands.
func (sy *System) Destroy() {
	if sy.pipeline != nil {
		sy.pipeline.Destroy()
		sy.pipeline = nil
	}
	sy.cmds.Reset()
}
