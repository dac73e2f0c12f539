// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/asset"
	"cogentcore.org/mango/gpu/headless"
	"cogentcore.org/mango/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cf := NewConfig()
	rc, err := cf.RenderConfiguration()
	require.NoError(t, err)
	assert.Equal(t, render.DeferredPBR, rc.Pipeline)
	assert.Equal(t, 1280, rc.Width)
	assert.Equal(t, 720, rc.Height)
	assert.Equal(t, math32.Vec4(0.1, 0.1, 0.1, 1), rc.ClearColor)
	assert.Equal(t, slog.LevelInfo, cf.LogLevel())

	cf.Log.Level = "debug"
	assert.Equal(t, slog.LevelDebug, cf.LogLevel())
	cf.Log.Level = "loud"
	assert.Equal(t, slog.LevelInfo, cf.LogLevel())
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()
	cf := NewConfig()
	cf.Window.Title = "demo"
	cf.Window.Frames = 12
	cf.Render.Wireframe = true
	cf.Scene.Model = "models/box.gltf"
	cf.Scene.EnvironmentMip = 2

	for _, name := range []string{"mango.toml", "mango.yaml"} {
		fn := filepath.Join(dir, name)
		require.NoError(t, cf.Save(fn))
		got := NewConfig()
		require.NoError(t, got.Open(fn), name)
		assert.Equal(t, cf, got, name)
	}

	fn := filepath.Join(dir, "partial.toml")
	require.NoError(t, os.WriteFile(fn, []byte("[window]\nwidth = 640\n"), 0666))
	got := NewConfig()
	require.NoError(t, got.Open(fn))
	assert.Equal(t, 640, got.Window.Width)
	assert.Equal(t, 720, got.Window.Height)

	fn = filepath.Join(dir, "mango.yml")
	require.NoError(t, os.WriteFile(fn, []byte("render:\n  pipeline: deferredpbr\nlog:\n  level: warn\n"), 0666))
	got = NewConfig()
	require.NoError(t, got.Open(fn))
	assert.Equal(t, slog.LevelWarn, got.LogLevel())
	_, err := got.RenderConfiguration()
	assert.NoError(t, err)

	fn = filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(fn, []byte("[window\n"), 0666))
	assert.Error(t, NewConfig().Open(fn))
	assert.Error(t, NewConfig().Open(filepath.Join(dir, "mango.json")))
	assert.Error(t, NewConfig().Open(filepath.Join(dir, "missing.toml")))
}

func TestPipelineByName(t *testing.T) {
	kind, err := PipelineByName("")
	require.NoError(t, err)
	assert.Equal(t, render.DeferredPBR, kind)

	_, err = PipelineByName("Forward")
	assert.Error(t, err)
	cf := NewConfig()
	cf.Render.Pipeline = "Forward"
	_, err = cf.RenderConfiguration()
	assert.Error(t, err)
}

func TestTimer(t *testing.T) {
	now := time.Unix(100, 0)
	tm := Timer{Now: func() time.Time { return now }}
	assert.Equal(t, float32(0), tm.Seconds())
	tm.Start()
	now = now.Add(16 * time.Millisecond)
	assert.InDelta(t, 0.016, tm.Seconds(), 1e-6)

	// Start does not restart a running timer
	tm.Start()
	assert.Equal(t, 16*time.Millisecond, tm.Elapsed())
	tm.Restart()
	assert.Equal(t, time.Duration(0), tm.Elapsed())
	now = now.Add(8 * time.Millisecond)
	tm.Restart()
	assert.Equal(t, 2, tm.N)
	assert.Equal(t, 12*time.Millisecond, tm.Avg())
	tm.Stop()
	assert.Equal(t, time.Duration(0), tm.Elapsed())
}

func TestContextMissingService(t *testing.T) {
	cx := &Context{}
	assert.Panics(t, func() { cx.Device() })
	assert.Panics(t, func() { cx.WindowSystem() })
	assert.Panics(t, func() { cx.Scene() })

	cx = NewContext(headless.NewDevice(), NewHeadlessWindow(&WindowConfig{}), nil)
	assert.NotPanics(t, func() { cx.InputSystem().Update(0) })
	assert.False(t, cx.HasScene())
	assert.Panics(t, func() { cx.Scene() })
}

func newTestApp(t *testing.T, frames int) (*Application, *headless.Device, *HeadlessWindow) {
	t.Helper()
	cf := NewConfig()
	cf.Window.Width, cf.Window.Height = 64, 32
	cf.Window.Frames = frames
	dv := headless.NewDevice()
	hw := NewHeadlessWindow(&cf.Window)
	ap, err := New(cf, dv, hw, nil)
	require.NoError(t, err)
	return ap, dv, hw
}

func TestRunFrames(t *testing.T) {
	ap, dv, hw := newTestApp(t, 3)
	var dts []float32
	ap.OnUpdate = func(dt float32) {
		dts = append(dts, dt)
	}
	assert.Equal(t, 3, ap.Run())
	assert.Len(t, dts, 3)
	assert.Equal(t, 3, hw.Swaps)
	assert.Equal(t, 4, hw.Polls)
	// one lighting pass per frame with an empty scene
	assert.Len(t, dv.Draws, 3)

	assert.False(t, ap.Frame())
	assert.Equal(t, 3, ap.Frames)
	ap.Destroy()
	assert.True(t, hw.ShouldClose())
	assert.Equal(t, 0, dv.Live())
}

func TestRunScene(t *testing.T) {
	ap, dv, hw := newTestApp(t, 0)
	sc := ap.Scene()
	bd := asset.NewBuilder("box")
	nd := asset.NewNode("box")
	nd.Mesh = bd.AddBox("box", math32.Vec3(1, 1, 1), -1)
	bd.AddRoot(bd.AddNode(nd))
	_, err := sc.CreateEntitiesFromDocument("box", bd.Doc)
	require.NoError(t, err)

	ap.OnUpdate = func(dt float32) {
		if ap.Frames == 1 {
			hw.Close()
		}
	}
	assert.Equal(t, 2, ap.Run())
	require.Len(t, dv.Draws, 4)
	assert.Equal(t, 36, dv.Draws[2].Count)
	ap.Destroy()
	assert.Equal(t, 0, dv.Live())
}

func TestResizeAndDrop(t *testing.T) {
	ap, dv, hw := newTestApp(t, 0)
	sc := ap.Scene()
	sc.CreateDefaultCamera()

	var dropped []string
	hw.SetDropCallback(func(paths []string) { dropped = paths })
	hw.SetSize(200, 100)
	hw.SetSize(0, 100)
	hw.Drop("a.gltf", "b.gltf")
	assert.Nil(t, dropped)
	assert.Equal(t, float32(16.0/9.0), sc.ActiveCameraData().Camera.Aspect)

	require.True(t, ap.Frame())
	assert.Equal(t, []string{"a.gltf", "b.gltf"}, dropped)
	assert.Equal(t, float32(2), sc.ActiveCameraData().Camera.Aspect)
	w, h := hw.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
	assert.Equal(t, image.Rect(0, 0, 200, 100), dv.State.Viewport)
	ap.Destroy()
}

func testLibrary() asset.Library {
	lib := asset.Library{}
	bd := asset.NewBuilder("cube")
	nd := asset.NewNode("cube")
	nd.Mesh = bd.AddBox("cube", math32.Vec3(1, 1, 1), -1)
	bd.AddRoot(bd.AddNode(nd))
	lib.Add(bd.Doc)
	return lib
}

func TestLoadErrors(t *testing.T) {
	ap, _, _ := newTestApp(t, 1)
	err := ap.Load(&SceneConfig{Model: "missing.gltf", Environment: "missing.hdr"})
	assert.Error(t, err)
	assert.Equal(t, 0, ap.Scene().NumEntities())

	ap.Scene().Models = testLibrary()
	require.NoError(t, ap.Load(&SceneConfig{Model: "cube.gltf"}))
	assert.True(t, ap.Scene().ActiveCamera().IsValid())
	ap.Destroy()
}

func TestNewLoadsModel(t *testing.T) {
	cf := NewConfig()
	cf.Window.Frames = 1
	cf.Scene.Model = "models/cube.gltf"

	// a failed load leaves a running, empty scene
	dv := headless.NewDevice()
	ap, err := New(cf, dv, NewHeadlessWindow(&cf.Window), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ap.Scene().NumEntities())
	assert.Equal(t, 1, ap.Run())
	ap.Destroy()
	assert.Equal(t, 0, dv.Live())

	dv = headless.NewDevice()
	ap, err = New(cf, dv, NewHeadlessWindow(&cf.Window), testLibrary())
	require.NoError(t, err)
	assert.Equal(t, 1, ap.Scene().Meshes.Len())
	assert.Equal(t, 1, ap.Run())
	ap.Destroy()
	assert.Equal(t, 0, dv.Live())
}
