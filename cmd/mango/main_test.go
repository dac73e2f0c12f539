// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"cogentcore.org/mango/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRing(t *testing.T) {
	doc := boxRing("ring", 5)
	require.Len(t, doc.Nodes, 6)
	assert.Len(t, doc.Nodes[0].Children, 5)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)
	assert.Len(t, doc.Materials, 5)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	save := filepath.Join(dir, "mango.toml")
	require.NoError(t, Run(&Config{Frames: 3, Orbit: 30, Boxes: 4, Save: save}))

	cfg := app.NewConfig()
	require.NoError(t, cfg.Open(save))
	assert.Equal(t, 3, cfg.Window.Frames)

	assert.Error(t, Run(&Config{Settings: filepath.Join(dir, "missing.yaml")}))

	// an unknown model is logged and the scene stays empty
	cfg.Scene.Model = "models/unknown.gltf"
	require.NoError(t, cfg.Save(save))
	assert.NoError(t, Run(&Config{Settings: save, Frames: 2, Boxes: 3}))
}
