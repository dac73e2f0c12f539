// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// Render submits the scene to the renderer: the view projection of the
// active camera, then for every mesh with a transform its model matrix
// and one draw per primitive with its material. It must be called
// between the begin and finish of a renderer frame.
func (sc *Scene) Render() {
	rs := sc.renderer
	if cd := sc.ActiveCameraData(); cd.Valid() {
		rs.SetViewProjection(&cd.Camera.ViewProjection)
	}
	for i := range sc.Meshes.Len() {
		tr := sc.Transforms.Get(sc.Meshes.EntityAt(i))
		if tr == nil {
			continue
		}
		ms := sc.Meshes.At(i)
		rs.SetModelMatrix(&tr.World)
		for pi, pr := range ms.Primitives {
			if !pr.VertexArray.Valid() {
				continue
			}
			rs.BindVertexArray(pr.VertexArray.Get())
			rs.PushMaterial(ms.Materials[pi])
			rs.DrawMesh(pr.Topology, pr.First, pr.Count, pr.IndexType, pr.Instances)
		}
	}
}
