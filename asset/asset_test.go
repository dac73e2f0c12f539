// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessorStride(t *testing.T) {
	ac := Accessor{ComponentType: ComponentFloat, Type: Vec3}
	assert.Equal(t, 12, ac.ElementSize())
	assert.Equal(t, 12, ac.Stride(nil))
	assert.Equal(t, 12, ac.Stride(&BufferView{}))
	assert.Equal(t, 32, ac.Stride(&BufferView{ByteStride: 32}))

	ac = Accessor{ComponentType: ComponentUnsignedShort, Type: Scalar}
	assert.Equal(t, 2, ac.ElementSize())
	assert.Equal(t, 0, ComponentType(1).Size())
	assert.Equal(t, 16, Mat4.Components())
}

func TestDocumentBytes(t *testing.T) {
	doc := &Document{
		Buffers:     []Buffer{{Data: []byte{0, 1, 2, 3, 4, 5}}},
		BufferViews: []BufferView{{Buffer: 0, ByteOffset: 2, ByteLength: 3}, {Buffer: 0, ByteOffset: 4, ByteLength: 4}, {Buffer: 3}, {Buffer: 0, ByteOffset: 4, ByteLength: -2}},
	}
	assert.Equal(t, []byte{2, 3, 4}, doc.Bytes(0))
	assert.Nil(t, doc.Bytes(1))
	assert.Nil(t, doc.Bytes(2))
	assert.Nil(t, doc.Bytes(-1))
	assert.Nil(t, doc.Bytes(5))
	assert.Nil(t, doc.Bytes(3), "negative length")
}

func TestBuilderBox(t *testing.T) {
	bd := NewBuilder("box")
	mat := Material{Name: "red"}
	mat.Defaults()
	mi := bd.AddMaterial(mat)
	mesh := bd.AddBox("cube", math32.Vec3(1, 2, 3), mi)
	nd := NewNode("cube")
	nd.Mesh = mesh
	bd.AddRoot(bd.AddNode(nd))

	doc := bd.Doc
	require.Len(t, doc.Meshes, 1)
	prim := doc.Meshes[0].Primitives[0]
	assert.Equal(t, Triangles, prim.Mode)
	assert.Equal(t, mi, prim.Material)

	pos := doc.Accessors[prim.Attributes["POSITION"]]
	assert.Equal(t, 24, pos.Count)
	assert.Equal(t, []float32{-1, -2, -3}, pos.Min)
	assert.Equal(t, []float32{1, 2, 3}, pos.Max)
	assert.Equal(t, TargetArrayBuffer, doc.BufferViews[pos.BufferView].Target)
	assert.Equal(t, 12, pos.Stride(&doc.BufferViews[pos.BufferView]))

	idx := doc.Accessors[prim.Indices]
	assert.Equal(t, 36, idx.Count)
	assert.Equal(t, ComponentUnsignedShort, idx.ComponentType)
	assert.Len(t, doc.Bytes(idx.BufferView), 72)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)
}

func TestBuilderSphere(t *testing.T) {
	bd := NewBuilder("ball")
	mesh := bd.AddSphere("ball", 2, 4, -1)
	prim := bd.Doc.Meshes[mesh].Primitives[0]
	assert.Equal(t, -1, prim.Material)
	assert.Contains(t, prim.Attributes, "TEXCOORD_0")

	pos := bd.Doc.Accessors[prim.Attributes["POSITION"]]
	assert.Equal(t, 25, pos.Count)
	for c := range 3 {
		assert.InDelta(t, -2, pos.Min[c], 1e-5)
		assert.InDelta(t, 2, pos.Max[c], 1e-5)
	}
	assert.Equal(t, 72, bd.Doc.Accessors[prim.Indices].Count)

	// too few segments are raised to 3
	small := bd.AddSphere("small", 1, 1, -1)
	assert.Equal(t, 16, bd.Doc.Accessors[bd.Doc.Meshes[small].Primitives[0].Attributes["POSITION"]].Count)
}

func TestBuilderTexture(t *testing.T) {
	bd := NewBuilder("tex")
	t0 := bd.AddTexture(Image{Width: 1, Height: 1, Components: 4, Bits: 8, Pixels: make([]byte, 4)}, nil)
	t1 := bd.AddTexture(Image{Width: 1, Height: 1, Components: 1, Bits: 8, Pixels: make([]byte, 1)}, &Sampler{MagFilter: 9728})
	assert.Equal(t, -1, bd.Doc.Textures[t0].Sampler)
	assert.Equal(t, 0, bd.Doc.Textures[t1].Sampler)
	assert.Equal(t, 1, bd.Doc.Textures[t1].Source)
}

func TestLibrary(t *testing.T) {
	lb := Library{}
	lb.Add(NewBuilder("helmet").Doc)
	doc, err := lb.LoadModel("models/helmet.gltf")
	require.NoError(t, err)
	assert.Equal(t, "helmet", doc.Name)
	_, err = lb.LoadModel("models/sponza.gltf")
	assert.Error(t, err)

	var ml ModelLoader = ModelLoaderFunc(lb.LoadModel)
	_, err = ml.LoadModel("helmet")
	assert.NoError(t, err)
}

func TestFromGoImage(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 0, color.Gray{Y: 7})
	im := FromGoImage(gray, ImageConfig{})
	assert.Equal(t, 1, im.Components)
	assert.Equal(t, 8, im.Bits)
	assert.Equal(t, []byte{0, 7, 0, 0}, im.Pixels)

	g16 := image.NewGray16(image.Rect(0, 0, 1, 1))
	g16.SetGray16(0, 0, color.Gray16{Y: 0x0102})
	im = FromGoImage(g16, ImageConfig{})
	assert.Equal(t, 16, im.Bits)
	assert.Equal(t, []byte{0x02, 0x01}, im.Pixels)

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.RGBA{R: 255, G: 128, A: 255})
	im = FromGoImage(rgba, ImageConfig{})
	assert.Equal(t, 4, im.Components)
	assert.Equal(t, []byte{255, 128, 0, 255}, im.Pixels)

	im = FromGoImage(rgba, ImageConfig{HDR: true})
	assert.True(t, im.Float)
	assert.Equal(t, 32, im.Bits)
	px := im.FloatPixels()
	require.Len(t, px, 4)
	assert.InDelta(t, 1.0, px[0], 1e-5)
	assert.InDelta(t, SRGBToLinear(128.0/255), px[1], 1e-4)
	assert.InDelta(t, 0.0, px[2], 1e-6)
	assert.InDelta(t, 1.0, px[3], 1e-6)
}

func TestSRGBToLinear(t *testing.T) {
	assert.Equal(t, float32(0), SRGBToLinear(0))
	assert.InDelta(t, 1.0, SRGBToLinear(1), 1e-6)
	assert.InDelta(t, 0.04/12.92, SRGBToLinear(0.04), 1e-7)
	assert.InDelta(t, 0.2140, SRGBToLinear(0.5), 1e-3)
}

func TestFileImageLoader(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	fsys := fstest.MapFS{
		"textures/albedo.bin": {Data: buf.Bytes()},
		"textures/notes.txt":  {Data: []byte("not an image at all")},
	}
	fl := &FileImageLoader{FS: fsys}
	im, err := fl.LoadImage("textures/albedo.bin", ImageConfig{})
	require.NoError(t, err)
	assert.Equal(t, "albedo", im.Name)
	assert.Equal(t, 3, im.Width)
	assert.Equal(t, 2, im.Height)
	assert.Equal(t, []byte{10, 20, 30, 40}, im.Pixels[len(im.Pixels)-4:])

	_, err = fl.LoadImage("textures/notes.txt", ImageConfig{})
	assert.Error(t, err)
	_, err = fl.LoadImage("textures/missing.png", ImageConfig{})
	assert.Error(t, err)
}
