// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
)

type testResource struct {
	released int
}

func (tr *testResource) Label() string { return "test" }
func (tr *testResource) Release()      { tr.released++ }

func TestHandleRefCount(t *testing.T) {
	res := &testResource{}
	hd := Share[*testResource](res)
	assert.Equal(t, 1, hd.Refs())
	other := hd.Acquire()
	assert.Same(t, hd, other)
	assert.Equal(t, 2, hd.Refs())

	hd.Release()
	assert.Equal(t, 0, res.released)
	assert.True(t, hd.Valid())
	assert.Same(t, res, hd.Get())

	other.Release()
	assert.Equal(t, 1, res.released)
	assert.False(t, hd.Valid())
	assert.Panics(t, func() { hd.Get() })
	assert.Panics(t, func() { hd.Release() })

	var nilHandle *Handle[*testResource]
	assert.NotPanics(t, func() { nilHandle.Release() })
	assert.Equal(t, 0, nilHandle.Refs())
}

func TestMipCount(t *testing.T) {
	assert.Equal(t, 1, MipCount(1, 1))
	assert.Equal(t, 1, MipCount(0, 0))
	assert.Equal(t, 9, MipCount(256, 256))
	assert.Equal(t, 10, MipCount(512, 300))
	assert.Equal(t, 10, MipCount(1023, 4))
	assert.Equal(t, 11, MipCount(16, 1024))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, Red, PixelFormat(1))
	assert.Equal(t, RGBA, PixelFormat(4))
	assert.Equal(t, UndefinedFormat, PixelFormat(5))

	assert.Equal(t, SRGB8, InternalFormat(3, true))
	assert.Equal(t, RGB8, InternalFormat(3, false))
	assert.Equal(t, SRGB8Alpha8, InternalFormat(4, true))
	assert.Equal(t, RGBA8, InternalFormat(4, false))
	assert.Equal(t, R8, InternalFormat(1, true))

	assert.Equal(t, UnsignedByte, ComponentType(8))
	assert.Equal(t, UnsignedShort, ComponentType(16))
	assert.Equal(t, UnsignedInt, ComponentType(32))
	assert.Equal(t, UndefinedFormat, ComponentType(12))

	assert.Equal(t, gputypes.TextureFormatRGBA8UnormSrgb, SRGB8.TextureFormat())
	assert.Equal(t, gputypes.TextureFormatRGBA32Float, RGBA32F.TextureFormat())
	assert.True(t, SRGB8Alpha8.IsSRGB())
	assert.Equal(t, 3, RGB.Channels())
	assert.Equal(t, 2, UnsignedShort.Bytes())
	assert.Equal(t, "SRGB8Alpha8", SRGB8Alpha8.String())
}

func TestTextureParameters(t *testing.T) {
	var tc TextureConfig
	tc.Defaults()
	assert.NoError(t, tc.Validate())
	assert.Equal(t, LinearMipmapLinear, tc.MinFilter)
	assert.Equal(t, gputypes.FilterModeLinear, tc.MinFilter.MipmapFilterMode())
	assert.Equal(t, gputypes.AddressModeRepeat, tc.WrapS.AddressMode())

	tc.MagFilter = LinearMipmapLinear
	assert.Error(t, tc.Validate())

	p, ok := TextureParameterFromGL(33071)
	assert.True(t, ok)
	assert.Equal(t, ClampToEdge, p)
	_, ok = TextureParameterFromGL(1)
	assert.False(t, ok)
}

func TestIndexAndAttributeFormats(t *testing.T) {
	it, ok := IndexTypeFor(UnsignedShort)
	assert.True(t, ok)
	assert.Equal(t, 2, it.Size())
	f, ok := it.IndexFormat()
	assert.True(t, ok)
	assert.Equal(t, gputypes.IndexFormatUint16, f)
	_, ok = IndexUint8.IndexFormat()
	assert.False(t, ok)
	_, ok = IndexTypeFor(Float)
	assert.False(t, ok)

	vf, ok := AttributeFormat(Float, 3)
	assert.True(t, ok)
	assert.Equal(t, gputypes.VertexFormatFloat32x3, vf)
	_, ok = AttributeFormat(UnsignedByte, 3)
	assert.False(t, ok)

	assert.Equal(t, IndexBuffer, BufferTargetFromGL(34963))
	assert.Equal(t, VertexBuffer, BufferTargetFromGL(34962))
	assert.NotZero(t, BufferConfig{Target: UniformBuffer}.Usage()&gputypes.BufferUsageUniform)
}
