// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/ecs"
)

// CameraKind is the projection of a [Camera].
type CameraKind int32

const (
	Perspective CameraKind = iota
	Orthographic
)

func (ck CameraKind) String() string {
	switch ck {
	case Perspective:
		return "Perspective"
	case Orthographic:
		return "Orthographic"
	}
	return fmt.Sprintf("CameraKind(%d)", int32(ck))
}

// Camera defines the projection of the view from the entity that owns
// it, looking at Target. The matrices are recomputed from the entity
// transform on every [Scene.Update].
type Camera struct {
	Kind CameraKind

	// Near and Far are the clip plane distances.
	Near float32
	Far  float32

	// FOV is the vertical field of view in radians.
	FOV float32

	// Aspect is the width over height ratio.
	Aspect float32

	// Up is the up direction, kept orthogonal to the view direction.
	Up math32.Vector3

	// Target is the point the camera looks at.
	Target math32.Vector3

	View           math32.Matrix4
	Projection     math32.Matrix4
	ViewProjection math32.Matrix4
}

// Defaults sets a 45 degree 16:9 perspective camera looking at the
// origin, with clip planes at 0.1 and 10.
func (cm *Camera) Defaults() {
	cm.Kind = Perspective
	cm.Aspect = 16.0 / 9.0
	cm.Near = 0.1
	cm.Far = 10
	cm.FOV = math32.DegToRad(45)
	cm.Up = math32.Vec3(0, 1, 0)
	cm.Target = math32.Vector3{}
	cm.View.SetIdentity()
	cm.Projection.SetIdentity()
	cm.ViewProjection.SetIdentity()
}

// Update recomputes the matrices for a camera at pos.
func (cm *Camera) Update(pos math32.Vector3) {
	front := cm.Target.Sub(pos)
	if front.Length() == 0 {
		front = math32.Vec3(0, 0, -1)
	}
	front = front.Normal()
	right := math32.Vec3(0, 1, 0).Cross(front)
	if right.Length() < 1e-6 {
		// looking straight up or down
		right = math32.Vec3(1, 0, 0)
	}
	right = right.Normal()
	cm.Up = front.Cross(right).Normal()

	var look math32.Quat
	look.SetFromRotationMatrix(math32.NewLookAt(pos, cm.Target, cm.Up))
	var placement math32.Matrix4
	placement.SetTransform(pos, look, math32.Vec3(1, 1, 1))
	view, err := placement.Inverse()
	if err != nil {
		slog.Warn("xyz.Camera: degenerate view", "position", pos, "target", cm.Target)
		return
	}
	cm.View = *view

	switch cm.Kind {
	case Orthographic:
		dist := cm.Far - cm.Near
		cm.Projection.SetOrthographic(2*cm.Aspect*dist, 2*dist, cm.Near, cm.Far)
	default:
		cm.Projection.SetPerspective(math32.RadToDeg(cm.FOV), cm.Aspect, cm.Near, cm.Far)
	}
	cm.ViewProjection.MulMatrices(&cm.Projection, &cm.View)
}

// Orbit moves tr around the camera target by the given angles in
// degrees (delX left/right, delY up/down), keeping its distance.
func (cm *Camera) Orbit(tr *Transform, delX, delY float32) {
	ctdir := tr.Position.Sub(cm.Target)
	if ctdir.Length() == 0 {
		ctdir.Set(0, 0, 1)
	}
	dir := ctdir.Normal()
	up := cm.Up
	right := up.Cross(dir).Normal()

	dx := ctdir.MulQuat(math32.NewQuatAxisAngle(up, math32.DegToRad(delX))).Sub(ctdir)
	dy := ctdir.MulQuat(math32.NewQuatAxisAngle(right, math32.DegToRad(delY))).Sub(ctdir)
	tr.Position = tr.Position.Add(dx).Add(dy)
}

// Zoom moves tr toward the target by the given fraction of the
// current distance; negative values move away.
func (cm *Camera) Zoom(tr *Transform, fraction float32) {
	ctaxis := tr.Position.Sub(cm.Target)
	if ctaxis.Length() == 0 {
		ctaxis.Set(0, 0, 1)
	}
	tr.Position = tr.Position.Sub(ctaxis.MulScalar(fraction))
}

// CameraData is the camera and transform of a camera entity.
type CameraData struct {
	Entity    ecs.Entity
	Camera    *Camera
	Transform *Transform
}

// Valid returns whether both components are present.
func (cd CameraData) Valid() bool {
	return cd.Camera != nil && cd.Transform != nil
}

// CreateDefaultCamera creates a camera entity at (0, 0, 1.5) with
// [Camera.Defaults] and makes it the active camera.
func (sc *Scene) CreateDefaultCamera() ecs.Entity {
	e := sc.CreateEmpty()
	cm := sc.Cameras.Create(e)
	cm.Defaults()
	tr := sc.Transforms.Add(e, NewTransform())
	tr.Position = math32.Vec3(0, 0, 1.5)
	tr.UpdateLocal()
	cm.Update(tr.Position)
	sc.activeCamera = e
	return e
}

// ActiveCamera returns the active camera entity, or
// [ecs.InvalidEntity] if there is none.
func (sc *Scene) ActiveCamera() ecs.Entity {
	return sc.activeCamera
}

// SetActiveCamera makes e the active camera. It is ignored with
// an error if e has no camera.
func (sc *Scene) SetActiveCamera(e ecs.Entity) {
	if !sc.Cameras.Has(e) {
		slog.Error("xyz.Scene: SetActiveCamera of an entity without camera", "entity", e)
		return
	}
	sc.activeCamera = e
}

// ActiveCameraData returns the components of the active camera.
func (sc *Scene) ActiveCameraData() CameraData {
	e := sc.activeCamera
	return CameraData{Entity: e, Camera: sc.Cameras.Get(e), Transform: sc.Transforms.Get(e)}
}

// updateCameras recomputes the camera matrices from the world
// position of their entities.
func (sc *Scene) updateCameras() {
	for i := range sc.Cameras.Len() {
		tr := sc.Transforms.Get(sc.Cameras.EntityAt(i))
		if tr == nil {
			continue
		}
		sc.Cameras.At(i).Update(tr.WorldPosition())
	}
}
