// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"log/slog"

	"cogentcore.org/mango/ecs"
)

// Node links an entity to its parent in the scene hierarchy.
// The node store of a [Scene] is kept sorted so that the node of a
// parent always comes before the nodes of its children, which lets
// [Scene.Update] propagate world transforms in one pass.
type Node struct {
	Parent ecs.Entity
}

// Parent returns the parent of e, or [ecs.InvalidEntity] for a root.
func (sc *Scene) Parent(e ecs.Entity) ecs.Entity {
	if nd := sc.Nodes.Get(e); nd != nil {
		return nd.Parent
	}
	return ecs.InvalidEntity
}

// Children returns the direct children of e in node order.
func (sc *Scene) Children(e ecs.Entity) []ecs.Entity {
	var children []ecs.Entity
	for i, nd := range sc.Nodes.Values {
		if nd.Parent == e {
			children = append(children, sc.Nodes.EntityAt(i))
		}
	}
	return children
}

// Attach makes parent the parent of child, detaching child from its
// current parent first. Invalid entities, attaching an entity to itself
// and attachments that would close a cycle are logged and ignored.
// Both entities get a default [Transform] if they have none.
func (sc *Scene) Attach(child, parent ecs.Entity) {
	if !child.IsValid() || !parent.IsValid() {
		slog.Error("xyz.Scene: Attach of an invalid entity", "child", child, "parent", parent)
		return
	}
	if child == parent {
		slog.Error("xyz.Scene: cannot attach an entity to itself", "entity", child)
		return
	}
	for p := parent; p.IsValid(); p = sc.Parent(p) {
		if p == child {
			slog.Error("xyz.Scene: Attach would create a cycle", "child", child, "parent", parent)
			return
		}
	}
	if sc.Nodes.Has(child) {
		sc.Detach(child)
	}
	// child is a root here, so its world placement is its local one;
	// Detach bakes this if no Update runs in between.
	if tr := sc.Transforms.Get(child); tr != nil {
		tr.UpdateLocal()
	}
	sc.Nodes.Add(child, Node{Parent: parent})
	sc.sortNodes()

	sc.ensureTransform(parent)
	sc.ensureTransform(child)
}

// Detach removes the parent link of child. The world transform from the
// last [Scene.Update], or from the time of attaching if there was none
// since, becomes the local one, so the entity keeps its placement.
// It does nothing if child has no parent.
func (sc *Scene) Detach(child ecs.Entity) {
	if !sc.Nodes.Has(child) {
		slog.Debug("xyz.Scene: Detach of an entity without parent", "entity", child)
		return
	}
	if tr := sc.Transforms.Get(child); tr != nil {
		tr.bake()
	}
	sc.Nodes.SortRemove(child)
}

func (sc *Scene) ensureTransform(e ecs.Entity) *Transform {
	if tr := sc.Transforms.Get(e); tr != nil {
		return tr
	}
	return sc.Transforms.Add(e, NewTransform())
}

// sortNodes restores the parent before child order of the node store.
// The order is computed first as a stable topological order, placing
// each entry after the entry of its parent while keeping the relative
// order of unrelated entries, and is then applied in one permutation.
func (sc *Scene) sortNodes() {
	n := sc.Nodes.Len()
	if n < 2 {
		return
	}
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make([]int, n)
	order := make([]int, 0, n)
	var visit func(i int)
	visit = func(i int) {
		if marks[i] != unvisited {
			return
		}
		marks[i] = visiting
		if pi := sc.Nodes.IndexOf(sc.Nodes.At(i).Parent); pi >= 0 && marks[pi] == unvisited {
			visit(pi)
		}
		marks[i] = done
		order = append(order, i)
	}
	for i := range n {
		visit(i)
	}
	for i, from := range order {
		if from != i {
			sc.Nodes.Permute(order)
			return
		}
	}
}

// nodesSorted returns whether every node comes after the node of its parent.
func (sc *Scene) nodesSorted() bool {
	for i, nd := range sc.Nodes.Values {
		if pi := sc.Nodes.IndexOf(nd.Parent); pi >= i {
			return false
		}
	}
	return true
}
