// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cogentcore.org/core/math32"
	"cogentcore.org/mango/gpu"
)

// Material is a metallic-roughness PBR material. Each texture is
// optional; when it is nil the corresponding factor is used instead.
// Textures are shared handles, so one texture may serve many materials.
type Material struct {
	BaseColor        math32.Vector4
	BaseColorTexture *gpu.Handle[gpu.Texture]

	Metallic  float32
	Roughness float32

	// MetallicRoughnessTexture holds roughness in green and metalness
	// in blue, plus occlusion in red when PackedOcclusion is set.
	MetallicRoughnessTexture *gpu.Handle[gpu.Texture]

	OcclusionTexture *gpu.Handle[gpu.Texture]
	NormalTexture    *gpu.Handle[gpu.Texture]

	Emissive        math32.Vector3
	EmissiveTexture *gpu.Handle[gpu.Texture]

	// PackedOcclusion is set when occlusion is read from the
	// red channel of MetallicRoughnessTexture.
	PackedOcclusion bool
}

// NewMaterial returns a material with default values.
func NewMaterial() *Material {
	mt := &Material{}
	mt.Defaults()
	return mt
}

// Defaults sets an opaque light gray dielectric.
func (mt *Material) Defaults() {
	mt.BaseColor = math32.Vec4(0.9, 0.9, 0.9, 1)
	mt.Metallic = 0
	mt.Roughness = 1
}

// Textures returns the texture handles in their binding unit order:
// base color, metallic-roughness, occlusion, normal and emissive.
func (mt *Material) Textures() [5]*gpu.Handle[gpu.Texture] {
	return [5]*gpu.Handle[gpu.Texture]{
		mt.BaseColorTexture, mt.MetallicRoughnessTexture,
		mt.OcclusionTexture, mt.NormalTexture, mt.EmissiveTexture,
	}
}

// Release drops the material's ownership of its textures.
func (mt *Material) Release() {
	for _, tx := range mt.Textures() {
		tx.Release()
	}
	mt.BaseColorTexture = nil
	mt.MetallicRoughnessTexture = nil
	mt.OcclusionTexture = nil
	mt.NormalTexture = nil
	mt.EmissiveTexture = nil
}
