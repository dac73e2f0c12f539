// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/ecs"
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/render"
	"github.com/gogpu/gputypes"
)

// Renderer receives the draws of a scene. It is implemented
// by [render.System].
type Renderer interface {
	Device() gpu.Device
	BindVertexArray(va gpu.VertexArray)
	SetModelMatrix(model *math32.Matrix4)
	PushMaterial(mt *render.Material)
	DrawMesh(topology gputypes.PrimitiveTopology, first, count int, index gpu.IndexType, instances int)
	SetViewProjection(viewProjection *math32.Matrix4)
	SetEnvironmentTexture(hdr *gpu.Handle[gpu.Texture], renderedMip float32)
}

// Scene owns the entities of a 3D scene and their components,
// one [ecs.Store] per component type.
type Scene struct {
	// Name is used in log messages.
	Name string

	// Models loads the files given to [Scene.CreateEntitiesFromModel].
	Models asset.ModelLoader

	// Images loads the files given to [Scene.CreateEnvironmentFromHDR].
	Images asset.ImageLoader

	Transforms   *ecs.Store[Transform]
	Nodes        *ecs.Store[Node]
	Meshes       *ecs.Store[Mesh]
	Cameras      *ecs.Store[Camera]
	Environments *ecs.Store[Environment]

	// Bounds is the conservative bounding box of the last
	// imported model, in model coordinates.
	Bounds math32.Box3

	entities     *ecs.Allocator
	renderer     Renderer
	activeCamera ecs.Entity
}

// NewScene returns an empty scene drawing with rs that can hold up to
// maxEntities entities; maxEntities <= 0 uses [ecs.DefaultMaxEntities].
func NewScene(name string, rs Renderer, maxEntities int) *Scene {
	al := ecs.NewAllocator(maxEntities)
	return &Scene{
		Name:         name,
		Transforms:   ecs.NewStore[Transform](al.Max),
		Nodes:        ecs.NewStore[Node](al.Max),
		Meshes:       ecs.NewStore[Mesh](al.Max),
		Cameras:      ecs.NewStore[Camera](al.Max),
		Environments: ecs.NewStore[Environment](al.Max),
		entities:     al,
		renderer:     rs,
	}
}

// Renderer returns the renderer the scene draws with.
func (sc *Scene) Renderer() Renderer {
	return sc.renderer
}

func (sc *Scene) device() gpu.Device {
	return sc.renderer.Device()
}

// CreateEmpty issues a new entity without components. It panics
// when the entity bound of the scene is exceeded.
func (sc *Scene) CreateEmpty() ecs.Entity {
	return sc.entities.New()
}

// NumEntities returns the number of entities issued.
func (sc *Scene) NumEntities() int {
	return sc.entities.Len()
}

// MaxEntities returns the entity bound.
func (sc *Scene) MaxEntities() int {
	return sc.entities.Max
}

// Grow raises the entity bound by n. Component pointers
// obtained before are invalidated.
func (sc *Scene) Grow(n int) {
	sc.entities.Grow(n)
	sc.Transforms.Grow(n)
	sc.Nodes.Grow(n)
	sc.Meshes.Grow(n)
	sc.Cameras.Grow(n)
	sc.Environments.Grow(n)
}

// RemoveEntity detaches e and removes all of its components.
// Its children become roots, keeping their world placement.
func (sc *Scene) RemoveEntity(e ecs.Entity) {
	for _, child := range sc.Children(e) {
		sc.Detach(child)
	}
	sc.Detach(e)
	sc.Transforms.Remove(e)
	if ms := sc.Meshes.Get(e); ms != nil {
		ms.Release()
		sc.Meshes.Remove(e)
	}
	sc.Cameras.Remove(e)
	if en := sc.Environments.Get(e); en != nil {
		en.Release()
		sc.Environments.Remove(e)
	}
	if sc.activeCamera == e {
		sc.activeCamera = ecs.InvalidEntity
	}
	slog.Debug("xyz.Scene: entity removed", "scene", sc.Name, "entity", e)
}

// Destroy releases all device objects held by components,
// removes all components and resets the entity allocator.
func (sc *Scene) Destroy() {
	for i := range sc.Meshes.Len() {
		sc.Meshes.At(i).Release()
	}
	for i := range sc.Environments.Len() {
		sc.Environments.At(i).Release()
	}
	sc.Transforms.Reset()
	sc.Nodes.Reset()
	sc.Meshes.Reset()
	sc.Cameras.Reset()
	sc.Environments.Reset()
	sc.entities.Reset()
	sc.activeCamera = ecs.InvalidEntity
}
