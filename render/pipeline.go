// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"slices"
	"sync"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
	"github.com/gogpu/gputypes"
)

// PipelineKind selects the render pipeline implementation.
type PipelineKind int32

const (
	// DeferredPBR renders geometry into a G-buffer and shades it
	// in a full screen lighting pass.
	DeferredPBR PipelineKind = iota
)

func (pk PipelineKind) String() string {
	switch pk {
	case DeferredPBR:
		return "DeferredPBR"
	}
	return fmt.Sprintf("PipelineKind(%d)", int32(pk))
}

// Configuration configures the [System] and its pipeline.
type Configuration struct {
	// Pipeline is the pipeline implementation to use.
	Pipeline PipelineKind

	// Width and Height are the initial viewport size.
	Width  int
	Height int

	// ClearColor is the background color.
	ClearColor math32.Vector4

	// Wireframe draws polygon outlines only.
	Wireframe bool
}

// Defaults sets a deferred PBR pipeline at 1280x720.
func (cf *Configuration) Defaults() {
	cf.Pipeline = DeferredPBR
	cf.Width = 1280
	cf.Height = 720
	cf.ClearColor = math32.Vec4(0.1, 0.1, 0.1, 1)
}

// Pipeline is one render pipeline implementation. Frame calls are made
// between BeginRender and FinishRender, and record into the command
// buffer given to Create.
type Pipeline interface {
	// Kind returns the kind the pipeline was registered for.
	Kind() PipelineKind

	// Create allocates the device objects of the pipeline.
	Create(dev gpu.Device, cmds *CommandBuffer, cfg *Configuration) error

	// Configure applies a new configuration of the same kind.
	Configure(cfg *Configuration)

	BeginRender()
	FinishRender()

	SetViewport(x, y, width, height int)
	SetModelMatrix(model *math32.Matrix4)
	PushMaterial(mt *Material)
	DrawMesh(topology gputypes.PrimitiveTopology, first, count int, index gpu.IndexType, instances int)
	SetViewProjection(viewProjection *math32.Matrix4)

	// SetEnvironmentTexture sets the HDR environment, drawn as the
	// background at the given mip level. nil removes it.
	SetEnvironmentTexture(hdr *gpu.Handle[gpu.Texture], renderedMip float32)

	Update(dt float32)

	// Destroy releases the device objects of the pipeline.
	Destroy()
}

// PipelineFactory creates an uninitialized pipeline.
type PipelineFactory func() Pipeline

var (
	registryMu sync.RWMutex
	pipelines  = make(map[PipelineKind]PipelineFactory)
)

// RegisterPipeline registers the factory for a pipeline kind.
// It panics if factory is nil or the kind is already registered.
func RegisterPipeline(kind PipelineKind, factory PipelineFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("render: RegisterPipeline factory is nil")
	}
	if _, dup := pipelines[kind]; dup {
		panic("render: RegisterPipeline called twice for " + kind.String())
	}
	pipelines[kind] = factory
}

// NewPipeline returns a new pipeline of the given kind.
func NewPipeline(kind PipelineKind) (Pipeline, error) {
	registryMu.RLock()
	factory, ok := pipelines[kind]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown pipeline %v", kind)
	}
	return factory(), nil
}

// Pipelines returns the registered kinds in order.
func Pipelines() []PipelineKind {
	registryMu.RLock()
	defer registryMu.RUnlock()

	kinds := make([]PipelineKind, 0, len(pipelines))
	for kind := range pipelines {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

func init() {
	RegisterPipeline(DeferredPBR, func() Pipeline { return &Deferred{} })
}
