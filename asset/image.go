// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"

	"cogentcore.org/core/math32"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// FileImageLoader is an [ImageLoader] decoding PNG, JPEG, GIF, BMP,
// TIFF and WebP files. The content type is sniffed from the data,
// so file extensions do not matter.
type FileImageLoader struct {
	// FS is the filesystem to read from; nil reads from the OS.
	FS fs.FS
}

func (fl *FileImageLoader) LoadImage(path string, cfg ImageConfig) (*Image, error) {
	var data []byte
	var err error
	if fl.FS != nil {
		data, err = fs.ReadFile(fl.FS, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("asset.FileImageLoader: %s: %w", path, err)
	}
	im := FromGoImage(img, cfg)
	im.Name = BaseName(path)
	return im, nil
}

// DecodeImage sniffs the content type of data and decodes it.
func DecodeImage(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, fmt.Errorf("data is not a known image format")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind.MIME.Value, err)
	}
	return img, nil
}

// FromGoImage converts a Go image to pixel data. Gray images keep one
// channel, 16 bit images keep their depth, and everything else becomes
// 8 bit RGBA with straight alpha. With cfg.HDR the result is always
// linear float RGBA.
func FromGoImage(img image.Image, cfg ImageConfig) *Image {
	if cfg.HDR {
		return floatImage(img)
	}
	bounds := img.Bounds()
	im := &Image{Width: bounds.Dx(), Height: bounds.Dy()}
	switch src := img.(type) {
	case *image.Gray:
		im.Components, im.Bits = 1, 8
		im.Pixels = packRows(src.Pix, src.Stride, im.Width, im.Height)
	case *image.Gray16:
		im.Components, im.Bits = 1, 16
		im.Pixels = swap16(packRows(src.Pix, src.Stride, im.Width*2, im.Height))
	case *image.NRGBA64:
		im.Components, im.Bits = 4, 16
		im.Pixels = swap16(packRows(src.Pix, src.Stride, im.Width*8, im.Height))
	default:
		nrgba, ok := img.(*image.NRGBA)
		if !ok || nrgba.Rect.Min != (image.Point{}) {
			nrgba = image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
			draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
		}
		im.Components, im.Bits = 4, 8
		im.Pixels = packRows(nrgba.Pix, nrgba.Stride, im.Width*4, im.Height)
	}
	return im
}

// packRows copies rows of rowBytes out of a strided pixel buffer.
func packRows(pix []byte, stride, rowBytes, rows int) []byte {
	out := make([]byte, rowBytes*rows)
	for y := range rows {
		copy(out[y*rowBytes:(y+1)*rowBytes], pix[y*stride:y*stride+rowBytes])
	}
	return out
}

// swap16 converts big-endian Go 16 bit pixels to little-endian in place.
func swap16(pix []byte) []byte {
	for i := 0; i+1 < len(pix); i += 2 {
		pix[i], pix[i+1] = pix[i+1], pix[i]
	}
	return pix
}

// floatImage converts to linear float RGBA, decoding the sRGB transfer
// function of the color channels.
func floatImage(img image.Image) *Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	im := &Image{Width: w, Height: h, Components: 4, Bits: 32, Float: true}
	im.Pixels = make([]byte, w*h*16)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			af := float32(a) / 0xffff
			var rgb [3]float32
			for c, v := range [3]uint32{r, g, b} {
				cf := float32(v) / 0xffff
				if af > 0 {
					cf /= af
				}
				rgb[c] = SRGBToLinear(cf)
			}
			for c, v := range [4]float32{rgb[0], rgb[1], rgb[2], af} {
				binary.LittleEndian.PutUint32(im.Pixels[i+c*4:], math.Float32bits(v))
			}
			i += 16
		}
	}
	return im
}

// SRGBToLinear converts an sRGB encoded component in [0, 1] to linear.
func SRGBToLinear(srgb float32) float32 {
	if srgb <= 0.04045 {
		return srgb / 12.92
	}
	return math32.Pow((srgb+0.055)/1.055, 2.4)
}

// FloatPixels returns the pixels of a float image as float32 values.
func (im *Image) FloatPixels() []float32 {
	if !im.Float {
		return nil
	}
	out := make([]float32, len(im.Pixels)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(im.Pixels[i*4:]))
	}
	return out
}
