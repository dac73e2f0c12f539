// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"math/rand/v2"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/ecs"
	"cogentcore.org/mango/gpu/headless"
	"cogentcore.org/mango/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, maxEntities int) (*Scene, *headless.Device, *render.System) {
	t.Helper()
	dv := headless.NewDevice()
	sy := render.NewSystem(dv)
	cfg := &render.Configuration{}
	cfg.Defaults()
	cfg.Width, cfg.Height = 64, 64
	sy.Configure(cfg)
	require.True(t, sy.Valid())
	return NewScene("test", sy, maxEntities), dv, sy
}

func assertMatrixNear(t *testing.T, want, got math32.Matrix4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func assertVectorNear(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-5)
	assert.InDelta(t, want.Y, got.Y, 1e-5)
	assert.InDelta(t, want.Z, got.Z, 1e-5)
}

// placed creates an entity with a transform at pos.
func placed(sc *Scene, pos math32.Vector3) ecs.Entity {
	e := sc.CreateEmpty()
	tr := sc.Transforms.Add(e, NewTransform())
	tr.Position = pos
	return e
}

func TestTransformAxisAngle(t *testing.T) {
	tr := NewTransform()
	tr.SetAxisAngle(math32.Pi/2, math32.Vec3(0, 0, 2))
	angle, axis := tr.AxisAngle()
	assert.InDelta(t, math32.Pi/2, angle, 1e-5)
	assertVectorNear(t, math32.Vec3(0, 0, 1), axis)

	tr.Position = math32.Vec3(1, 0, 0)
	tr.UpdateLocal()
	p := math32.Vec3(1, 0, 0).MulMatrix4(&tr.Local)
	assertVectorNear(t, math32.Vec3(1, 1, 0), p)
}

func TestHierarchyWorld(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	root := placed(sc, math32.Vec3(1, 0, 0))
	a := placed(sc, math32.Vec3(0, 1, 0))
	b := placed(sc, math32.Vec3(0, 0, 1))

	// attach bottom up so the order has to be restored
	sc.Attach(b, a)
	sc.Attach(a, root)
	assert.True(t, sc.nodesSorted())
	assert.Equal(t, a, sc.Parent(b))
	assert.Equal(t, []ecs.Entity{a}, sc.Children(root))

	sc.Update(0)
	assertVectorNear(t, math32.Vec3(1, 1, 1), sc.Transforms.Get(b).WorldPosition())
	assertVectorNear(t, math32.Vec3(1, 1, 0), sc.Transforms.Get(a).WorldPosition())
}

func TestUpdateIdempotent(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	p := placed(sc, math32.Vec3(1, 2, 3))
	c := placed(sc, math32.Vec3(-1, 0, 0.5))
	sc.Transforms.Get(p).SetAxisAngle(0.7, math32.Vec3(1, 1, 0))
	sc.Transforms.Get(c).Scale = math32.Vec3(2, 2, 2)
	sc.Attach(c, p)

	sc.Update(0)
	first := *sc.Transforms.Get(c)
	sc.Update(0)
	second := *sc.Transforms.Get(c)
	assert.Equal(t, first.Local, second.Local)
	assert.Equal(t, first.World, second.World)
}

func TestDetachRoundTrip(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	parent := placed(sc, math32.Vec3(2, 0, 0))
	sc.Transforms.Get(parent).SetAxisAngle(math32.Pi/3, math32.Vec3(0, 1, 0))
	child := placed(sc, math32.Vec3(0, 1, 0))
	sc.Transforms.Get(child).SetAxisAngle(0.4, math32.Vec3(1, 0, 0))

	sc.Update(0)
	before := sc.Transforms.Get(child).World
	sc.Attach(child, parent)
	sc.Detach(child)
	assertMatrixNear(t, before, sc.Transforms.Get(child).Local)

	// placement under a parent survives detaching
	sc.Attach(child, parent)
	sc.Update(0)
	attached := sc.Transforms.Get(child).World
	sc.Detach(child)
	assert.False(t, sc.Nodes.Has(child))
	sc.Update(0)
	assertMatrixNear(t, attached, sc.Transforms.Get(child).World)

	// detaching a root does nothing
	sc.Detach(child)
	assertMatrixNear(t, attached, sc.Transforms.Get(child).World)
}

func TestDetachBeforeUpdate(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	parent := placed(sc, math32.Vec3(5, 0, 0))
	child := placed(sc, math32.Vec3(1, 2, 3))

	sc.Attach(child, parent)
	sc.Detach(child)
	sc.Update(0)
	tr := sc.Transforms.Get(child)
	assertVectorNear(t, math32.Vec3(1, 2, 3), tr.Position)
	assertVectorNear(t, math32.Vec3(1, 2, 3), tr.WorldPosition())

	// reattaching moves it under the parent, and detaching keeps that
	sc.Attach(child, parent)
	sc.Update(0)
	assertVectorNear(t, math32.Vec3(6, 2, 3), tr.WorldPosition())
	sc.Detach(child)
	sc.Update(0)
	assertVectorNear(t, math32.Vec3(6, 2, 3), tr.Position)
	assertVectorNear(t, math32.Vec3(6, 2, 3), tr.WorldPosition())
}

func TestAttachRejects(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	a := sc.CreateEmpty()
	b := sc.CreateEmpty()
	sc.Attach(a, a)
	sc.Attach(a, ecs.InvalidEntity)
	assert.Equal(t, 0, sc.Nodes.Len())

	sc.Attach(b, a)
	sc.Attach(a, b)
	assert.Equal(t, ecs.InvalidEntity, sc.Parent(a))
	assert.Equal(t, a, sc.Parent(b))

	// transforms are created on attach
	assert.True(t, sc.Transforms.Has(a))
	assert.True(t, sc.Transforms.Has(b))
}

func TestNodeOrderRandom(t *testing.T) {
	const n = 40
	sc, _, _ := newTestScene(t, n)
	ents := make([]ecs.Entity, n)
	for i := range ents {
		ents[i] = sc.CreateEmpty()
	}
	rnd := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		child := ents[rnd.IntN(n)]
		if rnd.IntN(4) == 0 {
			sc.Detach(child)
		} else {
			sc.Attach(child, ents[rnd.IntN(n)])
		}
		require.True(t, sc.nodesSorted(), "node order: %v", sc.Nodes)
	}
	for _, e := range ents {
		depth := 0
		for p := sc.Parent(e); p.IsValid(); p = sc.Parent(p) {
			depth++
			require.Less(t, depth, n, "cycle at %v", e)
		}
	}
}

func TestEntityBound(t *testing.T) {
	sc, _, _ := newTestScene(t, 5)
	for range 5 {
		sc.CreateEmpty()
	}
	assert.Equal(t, 5, sc.NumEntities())
	assert.Panics(t, func() { sc.CreateEmpty() })

	sc.Grow(2)
	assert.Equal(t, 7, sc.MaxEntities())
	assert.NotPanics(t, func() { sc.CreateEmpty() })
}

func TestDestroyRefill(t *testing.T) {
	sc, _, _ := newTestScene(t, 3)
	for range 3 {
		placed(sc, math32.Vec3(1, 0, 0))
	}
	sc.Destroy()
	assert.Equal(t, 0, sc.NumEntities())
	assert.Equal(t, 0, sc.Transforms.Len())
	for range 3 {
		assert.NotPanics(t, func() { placed(sc, math32.Vec3(0, 1, 0)) })
	}
	assert.Equal(t, ecs.Entity(1), sc.Transforms.EntityAt(0))
	assert.Panics(t, func() { sc.CreateEmpty() })
}

func TestRemoveEntity(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	parent := placed(sc, math32.Vec3(3, 0, 0))
	child := placed(sc, math32.Vec3(0, 1, 0))
	sc.Attach(child, parent)
	sc.Update(0)

	sc.RemoveEntity(parent)
	assert.False(t, sc.Transforms.Has(parent))
	assert.False(t, sc.Nodes.Has(child))
	sc.Update(0)
	assertVectorNear(t, math32.Vec3(3, 1, 0), sc.Transforms.Get(child).WorldPosition())

	cam := sc.CreateDefaultCamera()
	sc.RemoveEntity(cam)
	assert.Equal(t, ecs.InvalidEntity, sc.ActiveCamera())
	assert.False(t, sc.ActiveCameraData().Valid())
}

func TestDefaultCamera(t *testing.T) {
	sc, _, _ := newTestScene(t, 0)
	assert.False(t, sc.ActiveCamera().IsValid())
	e := sc.CreateDefaultCamera()
	assert.Equal(t, e, sc.ActiveCamera())

	cd := sc.ActiveCameraData()
	require.True(t, cd.Valid())
	assert.Equal(t, Perspective, cd.Camera.Kind)
	assert.InDelta(t, 16.0/9.0, cd.Camera.Aspect, 1e-6)
	assert.InDelta(t, math32.DegToRad(45), cd.Camera.FOV, 1e-6)
	assertVectorNear(t, math32.Vec3(0, 0, 1.5), cd.Transform.Position)

	sc.Update(0)
	center := math32.Vec4(0, 0, 0, 1).MulMatrix4(&cd.Camera.ViewProjection).PerspDiv()
	assert.InDelta(t, 0, center.X, 1e-5)
	assert.InDelta(t, 0, center.Y, 1e-5)
	assertVectorNear(t, math32.Vec3(0, 1, 0), cd.Camera.Up)

	cd.Camera.Kind = Orthographic
	sc.Update(0)
	edge := math32.Vec4(cd.Camera.Aspect*9.9, 0, 0, 1).MulMatrix4(&cd.Camera.ViewProjection).PerspDiv()
	assert.InDelta(t, 1, edge.X, 1e-4)
	assert.Equal(t, "Orthographic", cd.Camera.Kind.String())
}

func TestCameraOrbitZoom(t *testing.T) {
	var cm Camera
	cm.Defaults()
	tr := NewTransform()
	tr.Position = math32.Vec3(0, 0, 2)
	cm.Orbit(&tr, 90, 0)
	assert.InDelta(t, 2, tr.Position.Length(), 1e-5)
	assert.InDelta(t, 0, tr.Position.Z, 1e-5)

	cm.Zoom(&tr, 0.5)
	assert.InDelta(t, 1, tr.Position.Length(), 1e-5)
}
