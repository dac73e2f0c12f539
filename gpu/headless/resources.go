// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"fmt"
	"image"
	"regexp"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mango/gpu"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gputypes"
)

//////// Texture

// TextureDescriptor is the WebGPU description of a texture allocation.
type TextureDescriptor struct {
	Label         string
	Size          gputypes.Extent3D
	MipLevelCount uint32
	Format        gputypes.TextureFormat
	Usage         gputypes.TextureUsage
}

// SamplerDescriptor is the WebGPU description of a texture sampler.
type SamplerDescriptor struct {
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
}

// Texture is an in-memory [gpu.Texture].
type Texture struct {
	// Data is the uploaded base level.
	Data []byte

	// PixelFormat and ComponentType describe the layout of Data.
	PixelFormat   gpu.Format
	ComponentType gpu.Format

	// Mips is the generated mip chain for 8 bit textures, starting with
	// the base level converted to RGBA. It is nil for other types or
	// when only one level is configured.
	Mips []*image.RGBA

	// Released is set once Release has been called.
	Released bool

	device   *Device
	label    string
	config   gpu.TextureConfig
	internal gpu.Format
	width    int
	height   int
}

func (tx *Texture) Label() string {
	if tx == nil {
		return ""
	}
	return tx.label
}

func (tx *Texture) Release() {
	if tx.Released {
		return
	}
	tx.Released = true
	tx.Data = nil
	tx.Mips = nil
	tx.device.untrack(tx)
}

func (tx *Texture) SetParameters(cfg gpu.TextureConfig) {
	errors.Log(cfg.Validate())
	tx.config = cfg
	tx.device.record("SetTextureParameters", tx.label, cfg)
	tx.generateMips()
}

func (tx *Texture) Config() gpu.TextureConfig {
	return tx.config
}

func (tx *Texture) Size() (width, height int) {
	return tx.width, tx.height
}

func (tx *Texture) InternalFormat() gpu.Format {
	return tx.internal
}

func (tx *Texture) SetData(internal gpu.Format, width, height int, pixel, component gpu.Format, data []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless.Texture %q: invalid size %dx%d", tx.label, width, height)
	}
	if internal.TextureFormat() == gputypes.TextureFormatUndefined {
		return fmt.Errorf("headless.Texture %q: unsupported internal format %v", tx.label, internal)
	}
	ch := pixel.Channels()
	bytes := component.Bytes()
	if ch == 0 || bytes == 0 {
		return fmt.Errorf("headless.Texture %q: invalid pixel layout %v / %v", tx.label, pixel, component)
	}
	if need := width * height * ch * bytes; data != nil && len(data) != need {
		return fmt.Errorf("headless.Texture %q: data has %d bytes, %dx%d %v %v needs %d", tx.label, len(data), width, height, pixel, component, need)
	}
	tx.internal = internal
	tx.width, tx.height = width, height
	tx.PixelFormat, tx.ComponentType = pixel, component
	tx.Data = data
	tx.device.record("SetTextureData", tx.label, internal, width, height, pixel, component)
	tx.generateMips()
	return nil
}

// Descriptor returns the WebGPU allocation for the texture.
func (tx *Texture) Descriptor() TextureDescriptor {
	return TextureDescriptor{
		Label:         tx.label,
		Size:          gputypes.Extent3D{Width: uint32(tx.width), Height: uint32(tx.height), DepthOrArrayLayers: 1},
		MipLevelCount: uint32(max(tx.config.MipLevels, 1)),
		Format:        tx.internal.TextureFormat(),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// Sampler returns the WebGPU sampler for the texture parameters.
func (tx *Texture) Sampler() SamplerDescriptor {
	return SamplerDescriptor{
		AddressModeU: tx.config.WrapS.AddressMode(),
		AddressModeV: tx.config.WrapT.AddressMode(),
		MagFilter:    tx.config.MagFilter.FilterMode(),
		MinFilter:    tx.config.MinFilter.FilterMode(),
		MipmapFilter: tx.config.MinFilter.MipmapFilterMode(),
	}
}

// rgba expands 8 bit data of any channel count into an RGBA image.
func (tx *Texture) rgba() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tx.width, tx.height))
	ch := tx.PixelFormat.Channels()
	for i := range tx.width * tx.height {
		src := tx.Data[i*ch : i*ch+ch]
		dst := img.Pix[i*4 : i*4+4]
		dst[3] = 255
		switch ch {
		case 1:
			dst[0], dst[1], dst[2] = src[0], src[0], src[0]
		default:
			copy(dst, src)
		}
	}
	return img
}

func (tx *Texture) generateMips() {
	tx.Mips = nil
	if tx.Data == nil || tx.config.MipLevels <= 1 || tx.ComponentType != gpu.UnsignedByte {
		return
	}
	levels := min(tx.config.MipLevels, gpu.MipCount(tx.width, tx.height))
	base := tx.rgba()
	tx.Mips = append(tx.Mips, base)
	w, h := tx.width, tx.height
	for range levels - 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		tx.Mips = append(tx.Mips, transform.Resize(tx.Mips[len(tx.Mips)-1], w, h, transform.Linear))
	}
}

//////// Buffer

// Buffer is an in-memory [gpu.Buffer].
type Buffer struct {
	// Data is the buffer contents.
	Data []byte

	// Released is set once Release has been called.
	Released bool

	device *Device
	label  string
	config gpu.BufferConfig
}

func (bf *Buffer) Label() string {
	if bf == nil {
		return ""
	}
	return bf.label
}

func (bf *Buffer) Release() {
	if bf.Released {
		return
	}
	bf.Released = true
	bf.Data = nil
	bf.device.untrack(bf)
}

func (bf *Buffer) SetData(cfg gpu.BufferConfig, data []byte) {
	bf.config = cfg
	bf.Data = append([]byte(nil), data...)
	bf.device.record("SetBufferData", bf.label, cfg.Target, len(data))
}

func (bf *Buffer) Update(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(bf.Data) {
		return fmt.Errorf("headless.Buffer %q: update of %d bytes at %d exceeds size %d", bf.label, len(data), offset, len(bf.Data))
	}
	copy(bf.Data[offset:], data)
	bf.device.record("UpdateBuffer", bf.label, offset, len(data))
	return nil
}

func (bf *Buffer) Size() int {
	return len(bf.Data)
}

func (bf *Buffer) Config() gpu.BufferConfig {
	return bf.config
}

//////// VertexArray

// VertexBinding is a vertex buffer bound to a [VertexArray] slot.
type VertexBinding struct {
	Buffer *Buffer
	Offset int
	Stride int
}

// VertexAttribute is an enabled shader input of a [VertexArray].
type VertexAttribute struct {
	Binding        int
	Format         gputypes.VertexFormat
	RelativeOffset int
}

// VertexArray is an in-memory [gpu.VertexArray].
type VertexArray struct {
	Bindings    map[int]VertexBinding
	Attributes  map[int]VertexAttribute
	IndexBuffer *Buffer

	// Released is set once Release has been called.
	Released bool

	device *Device
	label  string
}

func (va *VertexArray) Label() string {
	if va == nil {
		return ""
	}
	return va.label
}

func (va *VertexArray) Release() {
	if va.Released {
		return
	}
	va.Released = true
	va.device.untrack(va)
}

func (va *VertexArray) BindVertexBuffer(index int, buf gpu.Buffer, offset, stride int) {
	va.Bindings[index] = VertexBinding{Buffer: asType[*Buffer](buf), Offset: offset, Stride: stride}
	va.device.record("BindVertexBuffer", va.label, index, label(buf), offset, stride)
}

func (va *VertexArray) BindIndexBuffer(buf gpu.Buffer) {
	va.IndexBuffer = asType[*Buffer](buf)
	va.device.record("BindIndexBuffer", va.label, label(buf))
}

func (va *VertexArray) SetVertexAttribute(location, binding int, format gputypes.VertexFormat, relativeOffset int) {
	va.Attributes[location] = VertexAttribute{Binding: binding, Format: format, RelativeOffset: relativeOffset}
	va.device.record("SetVertexAttribute", va.label, location, binding, format, relativeOffset)
}

// Layouts returns the WebGPU vertex buffer layouts, one per binding
// in binding order, with the attributes that read from it.
func (va *VertexArray) Layouts() []gputypes.VertexBufferLayout {
	mx := -1
	for b := range va.Bindings {
		mx = max(mx, b)
	}
	layouts := make([]gputypes.VertexBufferLayout, 0, mx+1)
	for b := 0; b <= mx; b++ {
		bd := va.Bindings[b]
		var attrs []gputypes.VertexAttribute
		for loc, at := range va.Attributes {
			if at.Binding != b {
				continue
			}
			attrs = append(attrs, gputypes.VertexAttribute{Format: at.Format, Offset: uint64(at.RelativeOffset), ShaderLocation: uint32(loc)})
		}
		layouts = append(layouts, gputypes.VertexBufferLayout{
			ArrayStride: uint64(bd.Stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		})
	}
	return layouts
}

//////// ShaderProgram

// uniformDecl matches GLSL uniform declarations outside of blocks.
var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)

// ShaderProgram is an in-memory [gpu.ShaderProgram]. Compilation
// checks the stage set and assigns uniform locations in
// declaration order.
type ShaderProgram struct {
	Stages []gpu.ShaderStage

	// Locations maps uniform names to locations.
	Locations map[string]int

	// Uniforms holds the current uniform values by location.
	Uniforms map[int]any

	// Released is set once Release has been called.
	Released bool

	device *Device
	label  string
}

func compileProgram(dv *Device, label string, stages []gpu.ShaderStage) (*ShaderProgram, error) {
	var hasVertex, hasFragment, hasCompute bool
	for _, st := range stages {
		if st.Source == "" {
			return nil, fmt.Errorf("headless: program %q has an empty stage", label)
		}
		switch st.Stage {
		case gputypes.ShaderStageVertex:
			hasVertex = true
		case gputypes.ShaderStageFragment:
			hasFragment = true
		case gputypes.ShaderStageCompute:
			hasCompute = true
		}
	}
	if !hasCompute && !(hasVertex && hasFragment) {
		return nil, fmt.Errorf("headless: program %q needs a vertex and a fragment stage", label)
	}
	sp := &ShaderProgram{device: dv, label: label, Stages: stages}
	sp.Locations = make(map[string]int)
	sp.Uniforms = make(map[int]any)
	for _, st := range stages {
		for _, m := range uniformDecl.FindAllStringSubmatch(st.Source, -1) {
			if _, has := sp.Locations[m[1]]; !has {
				sp.Locations[m[1]] = len(sp.Locations)
			}
		}
	}
	return sp, nil
}

func (sp *ShaderProgram) Label() string {
	if sp == nil {
		return ""
	}
	return sp.label
}

func (sp *ShaderProgram) Release() {
	if sp.Released {
		return
	}
	sp.Released = true
	sp.device.untrack(sp)
}

func (sp *ShaderProgram) UniformLocation(name string) int {
	loc, ok := sp.Locations[name]
	if !ok {
		return -1
	}
	return loc
}

// Uniform returns the current value of the named uniform.
func (sp *ShaderProgram) Uniform(name string) any {
	loc, ok := sp.Locations[name]
	if !ok {
		return nil
	}
	return sp.Uniforms[loc]
}

//////// Framebuffer

// Framebuffer is an in-memory [gpu.Framebuffer].
type Framebuffer struct {
	// Clears counts Clear calls while bound.
	Clears int

	// Released is set once Release has been called.
	Released bool

	device      *Device
	label       string
	attachments map[gpu.Attachment]*Texture
}

func (fb *Framebuffer) Label() string {
	if fb == nil {
		return ""
	}
	return fb.label
}

func (fb *Framebuffer) Release() {
	if fb.Released {
		return
	}
	fb.Released = true
	fb.device.untrack(fb)
}

func (fb *Framebuffer) Attach(point gpu.Attachment, tex gpu.Texture) {
	fb.attachments[point] = asType[*Texture](tex)
	fb.device.record("Attach", fb.label, point, label(tex))
}

func (fb *Framebuffer) Attachment(point gpu.Attachment) gpu.Texture {
	tx, ok := fb.attachments[point]
	if !ok || tx == nil {
		return nil
	}
	return tx
}

func (fb *Framebuffer) Check() error {
	if len(fb.attachments) == 0 {
		return fmt.Errorf("headless.Framebuffer %q: no attachments", fb.label)
	}
	var sz image.Point
	for point, tx := range fb.attachments {
		if tx == nil || tx.Released {
			return fmt.Errorf("headless.Framebuffer %q: attachment %d is missing", fb.label, point)
		}
		w, h := tx.Size()
		if sz == (image.Point{}) {
			sz = image.Pt(w, h)
		} else if sz != image.Pt(w, h) {
			return fmt.Errorf("headless.Framebuffer %q: attachment %d is %dx%d, expected %v", fb.label, point, w, h, sz)
		}
	}
	return nil
}
