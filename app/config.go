// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
	"cogentcore.org/mango/render"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the configuration of an [Application], read from
// TOML or YAML files.
type Config struct {
	Window WindowConfig `toml:"window" yaml:"window"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Scene  SceneConfig  `toml:"scene" yaml:"scene"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`

	// Frames is the number of frames after which a headless
	// window closes; 0 runs until closed.
	Frames int `toml:"frames" yaml:"frames"`
}

type RenderConfig struct {
	// Pipeline is the name of the render pipeline, such as DeferredPBR.
	Pipeline   string     `toml:"pipeline" yaml:"pipeline"`
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
	Wireframe  bool       `toml:"wireframe" yaml:"wireframe"`
}

type SceneConfig struct {
	Name string `toml:"name" yaml:"name"`

	// MaxEntities bounds the number of entities; 0 uses the default.
	MaxEntities int `toml:"max_entities" yaml:"max_entities"`

	// Model is a model path loaded at startup, if set, through the
	// model loader given to [New].
	Model string `toml:"model" yaml:"model"`

	// Environment is an HDR image path loaded at startup, if set.
	Environment    string  `toml:"environment" yaml:"environment"`
	EnvironmentMip float32 `toml:"environment_mip" yaml:"environment_mip"`
}

type LogConfig struct {
	// Level is the minimum slog level: debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// Defaults sets a 1280x720 window with the deferred PBR pipeline.
func (cf *Config) Defaults() {
	cf.Window = WindowConfig{Title: "mango", Width: 1280, Height: 720, VSync: true}
	cf.Render = RenderConfig{Pipeline: render.DeferredPBR.String(), ClearColor: [4]float32{0.1, 0.1, 0.1, 1}}
	cf.Scene = SceneConfig{Name: "main"}
	cf.Log = LogConfig{Level: "info"}
}

// NewConfig returns a [Config] with defaults.
func NewConfig() *Config {
	cf := &Config{}
	cf.Defaults()
	return cf
}

// Open reads the config file, as TOML or YAML depending on its
// extension, over the current values.
func (cf *Config) Open(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cf)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cf)
	default:
		return fmt.Errorf("app.Config: unsupported config file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("app.Config: %s: %w", filename, err)
	}
	return nil
}

// Save writes the config to the file, as YAML for .yaml and .yml
// and TOML otherwise.
func (cf *Config) Save(filename string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cf)
	default:
		data, err = toml.Marshal(cf)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0666)
}

// RenderConfiguration returns the render system configuration for
// the render and window sections.
func (cf *Config) RenderConfiguration() (*render.Configuration, error) {
	rc := &render.Configuration{}
	rc.Defaults()
	kind, err := PipelineByName(cf.Render.Pipeline)
	if err != nil {
		return nil, err
	}
	rc.Pipeline = kind
	rc.Width, rc.Height = cf.Window.Width, cf.Window.Height
	c := cf.Render.ClearColor
	rc.ClearColor = math32.Vec4(c[0], c[1], c[2], c[3])
	rc.Wireframe = cf.Render.Wireframe
	return rc, nil
}

// PipelineByName returns the registered pipeline kind with the given
// name, ignoring case. An empty name selects [render.DeferredPBR].
func PipelineByName(name string) (render.PipelineKind, error) {
	if name == "" {
		return render.DeferredPBR, nil
	}
	for _, kind := range render.Pipelines() {
		if strings.EqualFold(kind.String(), name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("app.Config: unknown render pipeline %q", name)
}

// LogLevel returns the slog level of the log section,
// or [slog.LevelInfo] if it cannot be parsed.
func (cf *Config) LogLevel() slog.Level {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(cf.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lv
}
