// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/ecs"
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/render"
	"github.com/gogpu/gputypes"
)

// attributeLocations maps vertex attribute semantics
// to shader input locations.
var attributeLocations = map[string]int{
	"POSITION":   gpu.PositionLocation,
	"NORMAL":     gpu.NormalLocation,
	"TEXCOORD_0": gpu.TexCoordLocation,
	"TANGENT":    gpu.TangentLocation,
}

var topologies = map[asset.PrimitiveMode]gputypes.PrimitiveTopology{
	asset.Points:        gputypes.PrimitiveTopologyPointList,
	asset.Lines:         gputypes.PrimitiveTopologyLineList,
	asset.LineStrip:     gputypes.PrimitiveTopologyLineStrip,
	asset.Triangles:     gputypes.PrimitiveTopologyTriangleList,
	asset.TriangleStrip: gputypes.PrimitiveTopologyTriangleStrip,
}

var componentFormats = map[asset.ComponentType]gpu.Format{
	asset.ComponentByte:          gpu.Byte,
	asset.ComponentUnsignedByte:  gpu.UnsignedByte,
	asset.ComponentShort:         gpu.Short,
	asset.ComponentUnsignedShort: gpu.UnsignedShort,
	asset.ComponentUnsignedInt:   gpu.UnsignedInt,
	asset.ComponentFloat:         gpu.Float,
}

// CreateEntitiesFromModel loads the model at path with the scene
// model loader and creates its entities, see
// [Scene.CreateEntitiesFromDocument].
func (sc *Scene) CreateEntitiesFromModel(path string) ([]ecs.Entity, error) {
	if sc.Models == nil {
		return nil, fmt.Errorf("xyz.Scene: no model loader to load %q", path)
	}
	doc, err := sc.Models.LoadModel(path)
	if err != nil {
		return nil, err
	}
	return sc.CreateEntitiesFromDocument(asset.BaseName(path), doc)
}

// CreateEntitiesFromDocument creates one entity per node of the default
// scene of doc (the first one if unset), under a new root entity that
// scales the model to unit size. Parts of the document that cannot be
// used are logged and skipped. The active camera, created if there is
// none, is aimed at the center of the model. It returns the root
// followed by the node entities.
func (sc *Scene) CreateEntitiesFromDocument(name string, doc *asset.Document) ([]ecs.Entity, error) {
	if len(doc.Scenes) == 0 {
		return nil, fmt.Errorf("xyz.Scene: model %q has no scenes", name)
	}
	si := doc.Scene
	if si < 0 {
		si = 0
	}
	if si >= len(doc.Scenes) {
		return nil, fmt.Errorf("xyz.Scene: model %q has no scene %d", name, si)
	}

	im := &importer{
		sc:       sc,
		doc:      doc,
		name:     name,
		buffers:  make(map[int]*gpu.Handle[gpu.Buffer]),
		textures: make(map[textureKey]*gpu.Handle[gpu.Texture]),
		visiting: make([]bool, len(doc.Nodes)),
		bounds:   math32.B3Empty(),
	}
	defer im.release()

	root := sc.CreateEmpty()
	sc.Transforms.Add(root, NewTransform())
	im.entities = append(im.entities, root)

	identity := *math32.Identity4()
	for _, ni := range doc.Scenes[si].Nodes {
		if e := im.node(ni, identity); e.IsValid() {
			sc.Attach(e, root)
		}
	}
	sc.Bounds = im.bounds
	if im.bounds.IsEmpty() {
		slog.Warn("xyz.Scene: model has no bounds", "model", name)
		return im.entities, nil
	}

	bmin, bmax := im.bounds.Min, im.bounds.Max
	scale := 1 / (max(bmax.X, bmax.Y, bmax.Z) - min(bmin.X, bmin.Y, bmin.Z))
	sc.Transforms.Get(root).Scale = math32.Vec3(scale, scale, scale)

	if !sc.activeCamera.IsValid() {
		sc.CreateDefaultCamera()
	}
	if cd := sc.ActiveCameraData(); cd.Valid() {
		cd.Camera.Target = im.bounds.Center().MulScalar(scale)
		cd.Transform.Position.Y = (bmax.Y + bmin.Y) * 0.75 * scale
	}
	slog.Info("xyz.Scene: model imported", "model", name, "entities", len(im.entities), "bounds", im.bounds)
	return im.entities, nil
}

type textureKey struct {
	index int
	srgb  bool
}

// importer holds the state of one document import. Device objects
// shared by several primitives are created once and referenced by
// each user; the importer drops its own reference when done.
type importer struct {
	sc   *Scene
	doc  *asset.Document
	name string

	buffers  map[int]*gpu.Handle[gpu.Buffer]
	textures map[textureKey]*gpu.Handle[gpu.Texture]

	// visiting marks the nodes on the current recursion path.
	visiting []bool

	entities []ecs.Entity
	bounds   math32.Box3
}

func (im *importer) release() {
	for _, bf := range im.buffers {
		bf.Release()
	}
	for _, tx := range im.textures {
		tx.Release()
	}
}

// node creates the entity of node ni and its subtree.
func (im *importer) node(ni int, parentWorld math32.Matrix4) ecs.Entity {
	if ni < 0 || ni >= len(im.doc.Nodes) {
		slog.Warn("xyz.Scene: invalid node reference", "model", im.name, "node", ni)
		return ecs.InvalidEntity
	}
	if im.visiting[ni] {
		slog.Warn("xyz.Scene: node hierarchy has a cycle", "model", im.name, "node", ni)
		return ecs.InvalidEntity
	}
	im.visiting[ni] = true
	defer func() { im.visiting[ni] = false }()

	sc := im.sc
	nd := &im.doc.Nodes[ni]
	e := sc.CreateEmpty()
	tr := sc.Transforms.Add(e, NewTransform())
	if nd.Matrix != nil {
		tr.SetMatrix(nd.Matrix)
	} else {
		if nd.Translation != nil {
			tr.Position = *nd.Translation
		}
		if nd.Rotation != nil {
			tr.Rotation = *nd.Rotation
		}
		if nd.Scale != nil {
			tr.Scale = *nd.Scale
		}
	}
	tr.UpdateLocal()
	var world math32.Matrix4
	world.MulMatrices(&parentWorld, &tr.Local)

	if nd.Mesh >= 0 {
		if nd.Mesh < len(im.doc.Meshes) {
			mesh := &im.doc.Meshes[nd.Mesh]
			sc.Meshes.Add(e, im.mesh(mesh))
			im.expandBounds(&world, mesh)
		} else {
			slog.Warn("xyz.Scene: invalid mesh reference", "model", im.name, "node", nd.Name, "mesh", nd.Mesh)
		}
	}
	im.entities = append(im.entities, e)

	for _, ci := range nd.Children {
		if child := im.node(ci, world); child.IsValid() {
			sc.Attach(child, e)
		}
	}
	return e
}

func (im *importer) mesh(mesh *asset.Mesh) Mesh {
	var ms Mesh
	for pi := range mesh.Primitives {
		pr, mt, ok := im.primitive(mesh, pi, &ms)
		if !ok {
			continue
		}
		ms.Add(pr, mt)
	}
	return ms
}

// accessor returns accessor ai, or nil if out of range.
func (im *importer) accessor(ai int) *asset.Accessor {
	if ai < 0 || ai >= len(im.doc.Accessors) {
		return nil
	}
	return &im.doc.Accessors[ai]
}

// primitive builds the draw of primitive pi, reporting false
// if it has to be skipped.
func (im *importer) primitive(mesh *asset.Mesh, pi int, ms *Mesh) (Primitive, *render.Material, bool) {
	src := &mesh.Primitives[pi]
	log := slog.With("model", im.name, "mesh", mesh.Name, "primitive", pi)

	topology, ok := topologies[src.Mode]
	if !ok {
		log.Warn("xyz.Scene: unsupported primitive mode", "mode", src.Mode)
		return Primitive{}, nil, false
	}
	idx := im.accessor(src.Indices)
	if idx == nil {
		log.Debug("xyz.Scene: primitive without indices is not drawn")
		return Primitive{}, nil, false
	}
	if idx.Sparse != nil {
		log.Error("xyz.Scene: sparse accessors are not supported")
		return Primitive{}, nil, false
	}
	for _, ai := range src.Attributes {
		if ac := im.accessor(ai); ac != nil && ac.Sparse != nil {
			log.Error("xyz.Scene: sparse accessors are not supported")
			return Primitive{}, nil, false
		}
	}
	itype, ok := gpu.IndexTypeFor(componentFormats[idx.ComponentType])
	if !ok {
		log.Warn("xyz.Scene: invalid index component type", "type", idx.ComponentType)
		return Primitive{}, nil, false
	}
	ibuf := im.buffer(idx.BufferView)
	if ibuf == nil {
		log.Warn("xyz.Scene: index buffer view is missing", "view", idx.BufferView)
		return Primitive{}, nil, false
	}
	if idx.ByteOffset%itype.Size() != 0 {
		log.Warn("xyz.Scene: misaligned index offset", "offset", idx.ByteOffset)
		return Primitive{}, nil, false
	}

	va := im.sc.device().NewVertexArray(fmt.Sprintf("%s.%s.%d", im.name, mesh.Name, pi))
	va.BindIndexBuffer(ibuf.Get())
	pr := Primitive{
		Buffers:   []*gpu.Handle[gpu.Buffer]{ibuf.Acquire()},
		Topology:  topology,
		First:     idx.ByteOffset / itype.Size(),
		Count:     idx.Count,
		IndexType: itype,
		Instances: 1,
	}

	names := make([]string, 0, len(src.Attributes))
	for nm := range src.Attributes {
		names = append(names, nm)
	}
	slices.Sort(names)
	binding := 0
	for _, nm := range names {
		loc, ok := attributeLocations[nm]
		if !ok {
			log.Debug("xyz.Scene: vertex attribute ignored", "attribute", nm)
			continue
		}
		ac := im.accessor(src.Attributes[nm])
		if ac == nil {
			log.Warn("xyz.Scene: invalid accessor", "attribute", nm)
			continue
		}
		vbuf := im.buffer(ac.BufferView)
		if vbuf == nil {
			log.Warn("xyz.Scene: vertex buffer view is missing", "attribute", nm, "view", ac.BufferView)
			continue
		}
		stride := ac.Stride(&im.doc.BufferViews[ac.BufferView])
		if stride <= 0 {
			log.Warn("xyz.Scene: invalid attribute stride", "attribute", nm, "stride", stride)
			continue
		}
		format, ok := gpu.AttributeFormat(componentFormats[ac.ComponentType], ac.Type.Components())
		if !ok {
			log.Warn("xyz.Scene: unsupported attribute format", "attribute", nm, "type", ac.ComponentType, "components", ac.Type.Components())
			continue
		}
		va.BindVertexBuffer(binding, vbuf.Get(), ac.ByteOffset, stride)
		va.SetVertexAttribute(loc, binding, format, 0)
		pr.Buffers = append(pr.Buffers, vbuf.Acquire())
		binding++
		switch loc {
		case gpu.NormalLocation:
			ms.HasNormals = true
		case gpu.TangentLocation:
			ms.HasTangents = true
		}
	}
	pr.VertexArray = gpu.Share(va)
	return pr, im.material(src.Material), true
}

// buffer returns the device buffer of buffer view vi, creating it on
// first use, or nil if the view cannot be used as a buffer.
func (im *importer) buffer(vi int) *gpu.Handle[gpu.Buffer] {
	if bf, ok := im.buffers[vi]; ok {
		return bf
	}
	im.buffers[vi] = nil
	if vi < 0 || vi >= len(im.doc.BufferViews) {
		return nil
	}
	bv := &im.doc.BufferViews[vi]
	if bv.Target == asset.TargetNone {
		slog.Warn("xyz.Scene: buffer view has no target", "model", im.name, "view", vi)
		return nil
	}
	data := im.doc.Bytes(vi)
	if data == nil {
		slog.Warn("xyz.Scene: buffer view is out of range", "model", im.name, "view", vi)
		return nil
	}
	buf := im.sc.device().NewBuffer(fmt.Sprintf("%s.view%d", im.name, vi))
	buf.SetData(gpu.BufferConfig{Target: gpu.BufferTargetFromGL(bv.Target)}, data)
	bf := gpu.Share(buf)
	im.buffers[vi] = bf
	return bf
}

// material returns a new material for material index mi, with
// the defaults if mi is -1.
func (im *importer) material(mi int) *render.Material {
	mt := render.NewMaterial()
	if mi < 0 {
		return mt
	}
	if mi >= len(im.doc.Materials) {
		slog.Warn("xyz.Scene: invalid material reference", "model", im.name, "material", mi)
		return mt
	}
	src := &im.doc.Materials[mi]
	if src.Name != "" {
		slog.Debug("xyz.Scene: loading material", "model", im.name, "material", src.Name)
	}

	if mt.BaseColorTexture = im.texture(src.BaseColorTexture, true); mt.BaseColorTexture == nil {
		mt.BaseColor = src.BaseColorFactor
	}
	if mt.MetallicRoughnessTexture = im.texture(src.MetallicRoughnessTexture, false); mt.MetallicRoughnessTexture == nil {
		mt.Metallic = src.MetallicFactor
		mt.Roughness = src.RoughnessFactor
	}
	if oc := src.OcclusionTexture; oc != nil {
		mr := src.MetallicRoughnessTexture
		if mr != nil && mr.Index == oc.Index {
			mt.PackedOcclusion = true
		} else {
			mt.OcclusionTexture = im.texture(oc, false)
		}
	}
	mt.NormalTexture = im.texture(src.NormalTexture, false)
	if mt.EmissiveTexture = im.texture(src.EmissiveTexture, true); mt.EmissiveTexture == nil {
		mt.Emissive = src.EmissiveFactor
	}
	return mt
}

// texture returns a new reference to the device texture for ti,
// uploading it on first use, or nil if ti is nil or unusable.
func (im *importer) texture(ti *asset.TextureInfo, srgb bool) *gpu.Handle[gpu.Texture] {
	if ti == nil {
		return nil
	}
	key := textureKey{ti.Index, srgb}
	if tx, ok := im.textures[key]; ok {
		if tx == nil {
			return nil
		}
		return tx.Acquire()
	}
	im.textures[key] = nil
	log := slog.With("model", im.name, "texture", ti.Index)

	if ti.Index < 0 || ti.Index >= len(im.doc.Textures) {
		log.Warn("xyz.Scene: invalid texture reference")
		return nil
	}
	src := &im.doc.Textures[ti.Index]
	if src.Source < 0 || src.Source >= len(im.doc.Images) {
		log.Warn("xyz.Scene: texture has no image", "image", src.Source)
		return nil
	}
	img := &im.doc.Images[src.Source]

	var cfg gpu.TextureConfig
	cfg.Defaults()
	if src.Sampler >= 0 && src.Sampler < len(im.doc.Samplers) {
		sm := &im.doc.Samplers[src.Sampler]
		setParameter(&cfg.MinFilter, sm.MinFilter)
		setParameter(&cfg.MagFilter, sm.MagFilter)
		setParameter(&cfg.WrapS, sm.WrapS)
		setParameter(&cfg.WrapT, sm.WrapT)
	}
	cfg.MipLevels = gpu.MipCount(img.Width, img.Height)
	if err := cfg.Validate(); err != nil {
		log.Warn("xyz.Scene: invalid sampler, using defaults", "err", err)
		cfg.Defaults()
		cfg.MipLevels = gpu.MipCount(img.Width, img.Height)
	}

	component := gpu.ComponentType(img.Bits)
	if img.Float {
		component = gpu.Float
	}
	tex := im.sc.device().NewTexture(fmt.Sprintf("%s.texture%d", im.name, ti.Index))
	tex.SetParameters(cfg)
	err := tex.SetData(gpu.InternalFormat(img.Components, srgb), img.Width, img.Height, gpu.PixelFormat(img.Components), component, img.Pixels)
	if err != nil {
		log.Warn("xyz.Scene: texture upload failed", "err", err)
		tex.Release()
		return nil
	}
	tx := gpu.Share(tex)
	im.textures[key] = tx
	return tx.Acquire()
}

// setParameter sets p from a GL enum value; 0 leaves it unchanged.
func setParameter(p *gpu.TextureParameter, code int) {
	if code == 0 {
		return
	}
	if tp, ok := gpu.TextureParameterFromGL(code); ok {
		*p = tp
	}
}

// expandBounds grows the import bounds by the position bounds of the
// mesh primitives placed by world. Each box is inflated to the cube
// around the sphere through its corners, so the bounds stay
// conservative under rotation.
func (im *importer) expandBounds(world *math32.Matrix4, mesh *asset.Mesh) {
	for _, pr := range mesh.Primitives {
		ai, ok := pr.Attributes["POSITION"]
		if !ok {
			continue
		}
		ac := im.accessor(ai)
		if ac == nil || len(ac.Min) < 3 || len(ac.Max) < 3 {
			continue
		}
		bmin := math32.Vec3(ac.Min[0], ac.Min[1], ac.Min[2]).MulMatrix4(world)
		bmax := math32.Vec3(ac.Max[0], ac.Max[1], ac.Max[2]).MulMatrix4(world)
		center := bmin.Add(bmax).MulScalar(0.5)
		radius := bmax.Sub(center).Length()
		r := math32.Vec3(radius, radius, radius)
		im.bounds.ExpandByBox(math32.Box3{Min: center.Sub(r), Max: center.Add(r)})
	}
}
