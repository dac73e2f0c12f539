// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"github.com/gogpu/gputypes"
)

// Format names storage formats, pixel layouts and component types
// for texture uploads, using the classic GL vocabulary in which
// image decoders and model files describe their data.
type Format int32

const (
	UndefinedFormat Format = iota

	// pixel layouts
	Red
	RG
	RGB
	RGBA
	DepthStencil

	// storage formats
	R8
	RG8
	RGB8
	RGBA8
	SRGB8
	SRGB8Alpha8
	RGBA16F
	RGBA32F
	Depth24Stencil8

	// component types
	Byte
	UnsignedByte
	Short
	UnsignedShort
	UnsignedInt
	Float
)

var formatNames = [...]string{
	UndefinedFormat: "Undefined",
	Red:             "Red",
	RG:              "RG",
	RGB:             "RGB",
	RGBA:            "RGBA",
	DepthStencil:    "DepthStencil",
	R8:              "R8",
	RG8:             "RG8",
	RGB8:            "RGB8",
	RGBA8:           "RGBA8",
	SRGB8:           "SRGB8",
	SRGB8Alpha8:     "SRGB8Alpha8",
	RGBA16F:         "RGBA16F",
	RGBA32F:         "RGBA32F",
	Depth24Stencil8: "Depth24Stencil8",
	Byte:            "Byte",
	UnsignedByte:    "UnsignedByte",
	Short:           "Short",
	UnsignedShort:   "UnsignedShort",
	UnsignedInt:     "UnsignedInt",
	Float:           "Float",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Unknown"
}

// PixelFormat returns the pixel layout for the given number of
// channels (1 to 4), or [UndefinedFormat].
func PixelFormat(channels int) Format {
	switch channels {
	case 1:
		return Red
	case 2:
		return RG
	case 3:
		return RGB
	case 4:
		return RGBA
	}
	return UndefinedFormat
}

// InternalFormat returns the 8 bit per channel storage format for the
// given number of channels. Three and four channel images use the
// sRGB variants when srgb is set.
func InternalFormat(channels int, srgb bool) Format {
	switch channels {
	case 1:
		return R8
	case 2:
		return RG8
	case 3:
		if srgb {
			return SRGB8
		}
		return RGB8
	case 4:
		if srgb {
			return SRGB8Alpha8
		}
		return RGBA8
	}
	return UndefinedFormat
}

// ComponentType returns the unsigned component type for the given
// bit depth (8, 16 or 32), or [UndefinedFormat].
func ComponentType(bits int) Format {
	switch bits {
	case 8:
		return UnsignedByte
	case 16:
		return UnsignedShort
	case 32:
		return UnsignedInt
	}
	return UndefinedFormat
}

// Channels returns the number of channels of a pixel layout.
// Packed depth-stencil values count as one channel.
func (f Format) Channels() int {
	switch f {
	case Red, DepthStencil:
		return 1
	case RG:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// Bytes returns the size in bytes of one component of a component type.
func (f Format) Bytes() int {
	switch f {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case UnsignedInt, Float:
		return 4
	}
	return 0
}

// IsSRGB returns whether a storage format is sRGB encoded.
func (f Format) IsSRGB() bool {
	return f == SRGB8 || f == SRGB8Alpha8
}

// TextureFormat returns the WebGPU texture format used to store a
// storage format. WebGPU has no three channel formats, so those are
// stored with an alpha channel.
func (f Format) TextureFormat() gputypes.TextureFormat {
	return formatToTextureFormat[f]
}

var formatToTextureFormat = map[Format]gputypes.TextureFormat{
	R8:              gputypes.TextureFormatR8Unorm,
	RG8:             gputypes.TextureFormatRG8Unorm,
	RGB8:            gputypes.TextureFormatRGBA8Unorm,
	RGBA8:           gputypes.TextureFormatRGBA8Unorm,
	SRGB8:           gputypes.TextureFormatRGBA8UnormSrgb,
	SRGB8Alpha8:     gputypes.TextureFormatRGBA8UnormSrgb,
	RGBA16F:         gputypes.TextureFormatRGBA16Float,
	RGBA32F:         gputypes.TextureFormatRGBA32Float,
	Depth24Stencil8: gputypes.TextureFormatDepth24PlusStencil8,
}
