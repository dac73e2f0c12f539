// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/core/math32"
)

// Transform is the placement of an entity: position, rotation and
// scale relative to its parent, with the matrices computed from them
// by [Scene.Update].
type Transform struct {

	// Position is the translation relative to the parent.
	Position math32.Vector3

	// Rotation is a unit quaternion.
	Rotation math32.Quat

	// Scale is the per axis scale factor.
	Scale math32.Vector3

	// Local is the transform relative to the parent, T * R * S.
	Local math32.Matrix4

	// World is the transform in world coordinates: Local
	// premultiplied by the parent World.
	World math32.Matrix4
}

// NewTransform returns an identity [Transform].
func NewTransform() Transform {
	tr := Transform{}
	tr.Defaults()
	return tr
}

// Defaults sets an identity rotation and unit scale where unset,
// and resets the matrices to identity.
func (tr *Transform) Defaults() {
	if tr.Rotation.IsNil() {
		tr.Rotation.SetIdentity()
	}
	if tr.Scale == (math32.Vector3{}) {
		tr.Scale.Set(1, 1, 1)
	}
	tr.Local.SetIdentity()
	tr.World.SetIdentity()
}

// UpdateLocal recomputes Local from Position, Rotation and Scale,
// and resets World to Local.
func (tr *Transform) UpdateLocal() {
	tr.Local.SetTransform(tr.Position, tr.Rotation, tr.Scale)
	tr.World = tr.Local
}

// UpdateWorld sets World from the given parent world matrix.
func (tr *Transform) UpdateWorld(parent *math32.Matrix4) {
	tr.World.MulMatrices(parent, &tr.Local)
}

// SetMatrix sets Local and decomposes it into Position,
// Rotation and Scale.
func (tr *Transform) SetMatrix(m *math32.Matrix4) {
	tr.Local = *m
	tr.Position, tr.Rotation, tr.Scale = tr.Local.Decompose()
}

// SetAxisAngle sets the rotation from an axis and an angle in radians.
func (tr *Transform) SetAxisAngle(angle float32, axis math32.Vector3) {
	tr.Rotation.SetFromAxisAngle(axis.Normal(), angle)
}

// AxisAngle returns the rotation as an angle in radians
// around a unit axis.
func (tr *Transform) AxisAngle() (angle float32, axis math32.Vector3) {
	aa := tr.Rotation.ToAxisAngle()
	return aa.W, math32.Vec3(aa.X, aa.Y, aa.Z)
}

// SetEulerRotation sets the rotation in Euler angles (degrees).
func (tr *Transform) SetEulerRotation(x, y, z float32) {
	tr.Rotation.SetFromEuler(math32.Vec3(x, y, z).MulScalar(math32.DegToRadFactor))
}

// EulerRotation returns the rotation in Euler angles (degrees).
func (tr *Transform) EulerRotation() math32.Vector3 {
	return tr.Rotation.ToEuler().MulScalar(math32.RadToDegFactor)
}

// RotateOnAxis rotates around the given local axis by angle degrees.
func (tr *Transform) RotateOnAxis(x, y, z, angle float32) {
	tr.Rotation.SetMul(math32.NewQuatAxisAngle(math32.Vec3(x, y, z), math32.DegToRad(angle)))
}

// LookAt points the rotation at target, with the given up direction.
func (tr *Transform) LookAt(target, up math32.Vector3) {
	tr.Rotation.SetFromRotationMatrix(math32.NewLookAt(tr.Position, target, up))
}

// WorldPosition returns the translation of the world matrix.
func (tr *Transform) WorldPosition() math32.Vector3 {
	var pos math32.Vector3
	pos.SetFromMatrixPos(&tr.World)
	return pos
}

// bake makes the current world placement the local one,
// for an entity that loses its parent.
func (tr *Transform) bake() {
	tr.SetMatrix(&tr.World)
	tr.World = tr.Local
}
