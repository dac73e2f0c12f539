// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/render"
	"cogentcore.org/mango/xyz"
)

// Context holds the services of an [Application]. The accessors
// of required services panic if the service is not set.
type Context struct {
	device gpu.Device
	window WindowSystem
	input  InputSystem
	render *render.System
	scene  *xyz.Scene

	// Models and Images are given to scenes made current.
	Models asset.ModelLoader
	Images asset.ImageLoader
}

// NewContext returns a context rendering to dev in window ws,
// with a render system that still has to be configured.
func NewContext(dev gpu.Device, ws WindowSystem, in InputSystem) *Context {
	if in == nil {
		in = NoInput{}
	}
	return &Context{device: dev, window: ws, input: in, render: render.NewSystem(dev)}
}

func must[T comparable](svc T, name string) T {
	var zero T
	if svc == zero {
		panic("app.Context: no " + name)
	}
	return svc
}

func (cx *Context) Device() gpu.Device {
	return must(cx.device, "device")
}

func (cx *Context) WindowSystem() WindowSystem {
	return must(cx.window, "window system")
}

func (cx *Context) InputSystem() InputSystem {
	return must(cx.input, "input system")
}

func (cx *Context) RenderSystem() *render.System {
	return must(cx.render, "render system")
}

// Scene returns the current scene.
func (cx *Context) Scene() *xyz.Scene {
	return must(cx.scene, "current scene")
}

// HasScene reports whether a current scene is set.
func (cx *Context) HasScene() bool {
	return cx.scene != nil
}

// NewScene creates a scene rendered by the render system,
// using the context loaders.
func (cx *Context) NewScene(name string, maxEntities int) *xyz.Scene {
	sc := xyz.NewScene(name, cx.RenderSystem(), maxEntities)
	sc.Models = cx.Models
	sc.Images = cx.Images
	return sc
}

// SetScene makes sc the current scene.
func (cx *Context) SetScene(sc *xyz.Scene) {
	cx.scene = sc
}

// Destroy destroys the scene, render system and window.
func (cx *Context) Destroy() {
	if cx.scene != nil {
		cx.scene.Destroy()
		cx.scene = nil
	}
	if cx.render != nil {
		cx.render.Destroy()
	}
	if cx.window != nil {
		cx.window.Destroy()
	}
}
