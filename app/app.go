// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app drives the frame loop: it owns the window, input and
// render systems and the current scene, and updates and renders them
// once per frame until the window closes.
package app

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/gpu"
	"cogentcore.org/mango/xyz"
)

// Application runs the frame loop over its [Context].
type Application struct {
	Context *Context

	// OnUpdate is called each frame with the frame time in seconds,
	// before the systems update.
	OnUpdate func(dt float32)

	// Frames is the number of frames run.
	Frames int

	timer Timer
}

// NewApplication returns an application running cx.
func NewApplication(cx *Context) *Application {
	ap := &Application{Context: cx}
	ap.timer.Start()
	return ap
}

// New sets up an application from cfg: it configures the window and
// the render system, creates the current scene and loads the
// configured model through models and the configured environment.
// Load failures are logged and leave the scene without that content;
// models may be nil when no model is configured. An invalid render
// configuration is an error.
func New(cfg *Config, dev gpu.Device, ws WindowSystem, models asset.ModelLoader) (*Application, error) {
	slog.SetLogLoggerLevel(cfg.LogLevel())
	rc, err := cfg.RenderConfiguration()
	if err != nil {
		return nil, err
	}
	ws.Configure(&cfg.Window)
	ws.SetVSync(cfg.Window.VSync)

	cx := NewContext(dev, ws, nil)
	cx.Models = models
	cx.Images = &asset.FileImageLoader{}
	rs := cx.RenderSystem()
	rs.Configure(rc)
	if !rs.Valid() {
		cx.Destroy()
		return nil, errors.New("app.New: render system configuration failed")
	}

	sc := cx.NewScene(cfg.Scene.Name, cfg.Scene.MaxEntities)
	cx.SetScene(sc)
	ap := NewApplication(cx)
	ws.SetResizeCallback(ap.Resize)
	ap.Load(&cfg.Scene)
	return ap, nil
}

// Load imports the model and environment named in cfg into the
// current scene. Each failure is logged, and the joined errors
// are returned.
func (ap *Application) Load(cfg *SceneConfig) error {
	sc := ap.Context.Scene()
	var errs []error
	if cfg.Model != "" {
		_, err := sc.CreateEntitiesFromModel(cfg.Model)
		errs = append(errs, errors.Log(err))
	}
	if cfg.Environment != "" {
		_, err := sc.CreateEnvironmentFromHDR(cfg.Environment, cfg.EnvironmentMip)
		errs = append(errs, errors.Log(err))
	}
	return errors.Join(errs...)
}

// Resize updates the viewport and the aspect of the active camera.
func (ap *Application) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	cx := ap.Context
	cx.RenderSystem().SetViewport(0, 0, width, height)
	if !cx.HasScene() {
		return
	}
	if cd := cx.Scene().ActiveCameraData(); cd.Camera != nil {
		cd.Camera.Aspect = float32(width) / float32(height)
	}
	slog.Debug("app.Application: resized", "width", width, "height", height)
}

// Run runs frames until the window should close and returns
// the number of frames run.
func (ap *Application) Run() int {
	for ap.Frame() {
	}
	slog.Debug("app.Application: stopped", "frames", ap.Frames, "frameTime", ap.timer.Avg())
	return ap.Frames
}

// Frame runs one frame and reports whether it ran. Events are polled
// first; after a close request no frame is run.
func (ap *Application) Frame() bool {
	cx := ap.Context
	ws := cx.WindowSystem()
	is := cx.InputSystem()
	rs := cx.RenderSystem()
	sc := cx.Scene()

	ws.PollEvents()
	if ws.ShouldClose() {
		return false
	}

	dt := ap.timer.Seconds()
	ap.timer.Restart()

	if ap.OnUpdate != nil {
		ap.OnUpdate(dt)
	}
	ws.Update(dt)
	is.Update(dt)
	rs.Update(dt)
	sc.Update(dt)

	rs.BeginRender()
	sc.Render()
	rs.FinishRender()

	ws.SwapBuffers()
	ap.Frames++
	return true
}

// Destroy destroys the context.
func (ap *Application) Destroy() {
	ap.Context.Destroy()
}

// Scene returns the current scene.
func (ap *Application) Scene() *xyz.Scene {
	return ap.Context.Scene()
}
