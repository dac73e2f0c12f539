// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mango renders a procedural scene on the headless device,
// orbiting the camera for a number of frames. The settings file
// configures the window, renderer and environment.
package main

import (
	"log/slog"

	"cogentcore.org/core/cli"
	"cogentcore.org/core/math32"
	"cogentcore.org/mango/app"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/gpu/headless"
)

// Config is the configuration of the mango command.
type Config struct {

	// Settings is a TOML or YAML application settings file.
	Settings string `posarg:"0" required:"-"`

	// Frames is the number of frames to render.
	Frames int `default:"120" flag:"n,frames"`

	// Orbit is the camera orbit speed in degrees per second.
	Orbit float32 `default:"30"`

	// Boxes is the number of boxes in the procedural scene.
	Boxes int `default:"8"`

	// Save writes the effective settings to this file.
	Save string
}

func main() { //types:skip
	opts := cli.DefaultOptions("mango", "Mango renders a 3D scene on a headless device.")
	cli.Run(opts, &Config{}, Run)
}

// Run renders the configured scene.
func Run(c *Config) error { //cli:cmd -root
	cfg := app.NewConfig()
	if c.Settings != "" {
		if err := cfg.Open(c.Settings); err != nil {
			return err
		}
	}
	if c.Frames > 0 {
		cfg.Window.Frames = c.Frames
	}
	if c.Save != "" {
		if err := cfg.Save(c.Save); err != nil {
			return err
		}
	}

	// models come from the procedural library; the ring is
	// shown when the settings name no model
	lib := asset.Library{}
	lib.Add(boxRing("ring", c.Boxes))
	if cfg.Scene.Model == "" {
		cfg.Scene.Model = "ring"
	}

	dv := headless.NewDevice()
	dv.Record = false
	ws := app.NewHeadlessWindow(&cfg.Window)
	ap, err := app.New(cfg, dv, ws, lib)
	if err != nil {
		return err
	}
	defer ap.Destroy()

	sc := ap.Scene()
	ws.SetDropCallback(func(paths []string) {
		for _, p := range paths {
			if _, err := sc.CreateEntitiesFromModel(p); err != nil {
				slog.Error("mango: dropped model", "path", p, "err", err)
			}
		}
	})

	ap.OnUpdate = func(dt float32) {
		if cd := sc.ActiveCameraData(); cd.Valid() {
			cd.Camera.Orbit(cd.Transform, c.Orbit*dt, 0)
		}
	}
	frames := ap.Run()
	slog.Info("mango: done", "frames", frames, "draws", len(dv.Draws), "entities", sc.NumEntities())
	return nil
}

// boxRing returns a document with n boxes of varying color placed on
// a ring around a center sphere.
func boxRing(name string, n int) *asset.Document {
	bd := asset.NewBuilder(name)
	center := asset.NewNode("center")
	center.Mesh = bd.AddSphere("center", 0.6, 24, -1)
	ci := bd.AddNode(center)
	bd.AddRoot(ci)
	for i := range n {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		var mt asset.Material
		mt.Defaults()
		mt.BaseColorFactor = math32.Vec4(0.5+0.5*math32.Cos(angle), 0.5+0.5*math32.Sin(angle), 0.5, 1)
		mt.MetallicFactor = float32(i%2) * 0.8
		mt.RoughnessFactor = 0.3
		nd := asset.NewNode("box")
		nd.Mesh = bd.AddBox("box", math32.Vec3(0.2, 0.2, 0.2), bd.AddMaterial(mt))
		pos := math32.Vec3(2*math32.Cos(angle), 0, 2*math32.Sin(angle))
		rot := math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), -angle)
		nd.Translation = &pos
		nd.Rotation = &rot
		bd.AddChild(ci, bd.AddNode(nd))
	}
	return bd.Doc
}
