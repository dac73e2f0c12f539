// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gputypes"
)

// TextureParameter is a texture filter or wrap mode.
type TextureParameter int32

const (
	Nearest TextureParameter = iota
	Linear
	NearestMipmapNearest
	LinearMipmapNearest
	NearestMipmapLinear
	LinearMipmapLinear

	Repeat
	ClampToEdge
	MirroredRepeat
)

var textureParameterNames = [...]string{
	Nearest:              "Nearest",
	Linear:               "Linear",
	NearestMipmapNearest: "NearestMipmapNearest",
	LinearMipmapNearest:  "LinearMipmapNearest",
	NearestMipmapLinear:  "NearestMipmapLinear",
	LinearMipmapLinear:   "LinearMipmapLinear",
	Repeat:               "Repeat",
	ClampToEdge:          "ClampToEdge",
	MirroredRepeat:       "MirroredRepeat",
}

func (tp TextureParameter) String() string {
	if tp >= 0 && int(tp) < len(textureParameterNames) {
		return textureParameterNames[tp]
	}
	return "Unknown"
}

// TextureParameterFromGL converts a GL sampler enum value, as used
// in model files, to a [TextureParameter].
func TextureParameterFromGL(code int) (TextureParameter, bool) {
	switch code {
	case 9728:
		return Nearest, true
	case 9729:
		return Linear, true
	case 9984:
		return NearestMipmapNearest, true
	case 9985:
		return LinearMipmapNearest, true
	case 9986:
		return NearestMipmapLinear, true
	case 9987:
		return LinearMipmapLinear, true
	case 10497:
		return Repeat, true
	case 33071:
		return ClampToEdge, true
	case 33648:
		return MirroredRepeat, true
	}
	return Nearest, false
}

// IsFilter returns whether the parameter is a filter rather than a wrap mode.
func (tp TextureParameter) IsFilter() bool {
	return tp <= LinearMipmapLinear
}

// UsesMipmaps returns whether the filter samples mip levels.
func (tp TextureParameter) UsesMipmaps() bool {
	return tp >= NearestMipmapNearest && tp <= LinearMipmapLinear
}

// FilterMode returns the WebGPU filter within a level.
func (tp TextureParameter) FilterMode() gputypes.FilterMode {
	switch tp {
	case Linear, LinearMipmapNearest, LinearMipmapLinear:
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// MipmapFilterMode returns the WebGPU filter between levels.
func (tp TextureParameter) MipmapFilterMode() gputypes.FilterMode {
	switch tp {
	case NearestMipmapLinear, LinearMipmapLinear:
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// AddressMode returns the WebGPU address mode for a wrap mode.
func (tp TextureParameter) AddressMode() gputypes.AddressMode {
	switch tp {
	case ClampToEdge:
		return gputypes.AddressModeClampToEdge
	case MirroredRepeat:
		return gputypes.AddressModeMirrorRepeat
	}
	return gputypes.AddressModeRepeat
}

// TextureConfig holds the sampling parameters of a [Texture].
type TextureConfig struct {
	// MinFilter is the minification filter.
	MinFilter TextureParameter

	// MagFilter is the magnification filter; mipmap filters are invalid here.
	MagFilter TextureParameter

	// WrapS is the wrap mode along the horizontal axis.
	WrapS TextureParameter

	// WrapT is the wrap mode along the vertical axis.
	WrapT TextureParameter

	// MipLevels is the number of mip levels to allocate and generate.
	MipLevels int
}

// Defaults sets trilinear filtering with repeat wrapping and one level.
func (tc *TextureConfig) Defaults() {
	tc.MinFilter = LinearMipmapLinear
	tc.MagFilter = Linear
	tc.WrapS = Repeat
	tc.WrapT = Repeat
	tc.MipLevels = 1
}

// Validate returns an error for filter and wrap values used
// in the wrong place.
func (tc *TextureConfig) Validate() error {
	switch {
	case !tc.MinFilter.IsFilter():
		return fmt.Errorf("gpu.TextureConfig: MinFilter %v is not a filter", tc.MinFilter)
	case tc.MagFilter != Nearest && tc.MagFilter != Linear:
		return fmt.Errorf("gpu.TextureConfig: MagFilter %v must be Nearest or Linear", tc.MagFilter)
	case tc.WrapS.IsFilter() || tc.WrapT.IsFilter():
		return fmt.Errorf("gpu.TextureConfig: wrap modes %v, %v are not wrap modes", tc.WrapS, tc.WrapT)
	case tc.MipLevels < 1:
		return fmt.Errorf("gpu.TextureConfig: MipLevels %d must be >= 1", tc.MipLevels)
	}
	return nil
}

// MipCount returns the number of levels in a full mip chain for an
// image of the given size: floor(log2(max(width, height))) + 1.
func MipCount(width, height int) int {
	mx := max(width, height)
	if mx <= 1 {
		return 1
	}
	return int(math32.Floor(math32.Log2(float32(mx)))) + 1
}
