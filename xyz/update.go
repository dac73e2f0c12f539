// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

// Update recomputes the transforms and cameras of the scene:
// local matrices first, then world matrices down the hierarchy,
// then the camera matrices from the final world positions.
func (sc *Scene) Update(dt float32) {
	sc.updateTransforms()
	sc.updateHierarchy()
	sc.updateCameras()
}

func (sc *Scene) updateTransforms() {
	sc.Transforms.ForEach(func(tr *Transform, _ *int) {
		tr.UpdateLocal()
	}, false)
}

// updateHierarchy relies on the node order: the world matrix of
// a parent is final before any of its children is visited.
func (sc *Scene) updateHierarchy() {
	sc.Nodes.ForEach(func(nd *Node, index *int) {
		tr := sc.Transforms.Get(sc.Nodes.EntityAt(*index))
		ptr := sc.Transforms.Get(nd.Parent)
		if tr == nil || ptr == nil {
			return
		}
		tr.UpdateWorld(&ptr.World)
	}, false)
}
