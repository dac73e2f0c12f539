// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/ecs"
	"cogentcore.org/mango/gpu"
)

// Environment is the HDR image lighting a scene and drawn as its
// background. A scene uses one environment.
type Environment struct {
	// RotationScale orients the environment image.
	RotationScale math32.Matrix3

	// HDR is the floating point environment texture.
	HDR *gpu.Handle[gpu.Texture]

	// RenderedMip is the mip level drawn as the background.
	RenderedMip float32
}

// Release drops the texture reference.
func (en *Environment) Release() {
	en.HDR.Release()
	en.HDR = nil
}

// CreateEnvironmentFromHDR loads the image at path as linear float
// RGBA, uploads it and makes it the environment of the renderer,
// drawn at the given mip level.
func (sc *Scene) CreateEnvironmentFromHDR(path string, renderedMip float32) (ecs.Entity, error) {
	if sc.Images == nil {
		return ecs.InvalidEntity, fmt.Errorf("xyz.Scene: no image loader to load %q", path)
	}
	im, err := sc.Images.LoadImage(path, asset.ImageConfig{HDR: true})
	if err != nil {
		return ecs.InvalidEntity, err
	}
	if !im.Float || im.Components != 4 {
		return ecs.InvalidEntity, fmt.Errorf("xyz.Scene: %q did not load as float RGBA", path)
	}

	tex := sc.device().NewTexture("environment." + asset.BaseName(path))
	cfg := tex.Config()
	cfg.MinFilter, cfg.MagFilter = gpu.Linear, gpu.Linear
	cfg.WrapS, cfg.WrapT = gpu.ClampToEdge, gpu.ClampToEdge
	cfg.MipLevels = 1
	tex.SetParameters(cfg)
	if err := tex.SetData(gpu.RGBA32F, im.Width, im.Height, gpu.RGBA, gpu.Float, im.Pixels); err != nil {
		tex.Release()
		return ecs.InvalidEntity, err
	}

	e := sc.CreateEmpty()
	en := sc.Environments.Create(e)
	en.RotationScale = math32.Identity3()
	en.HDR = gpu.Share(tex)
	en.RenderedMip = renderedMip
	sc.renderer.SetEnvironmentTexture(en.HDR, renderedMip)
	slog.Info("xyz.Scene: environment created", "path", path, "width", im.Width, "height", im.Height)
	return e, nil
}
