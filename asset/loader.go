// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ModelLoader loads a scene description from a path.
type ModelLoader interface {
	LoadModel(path string) (*Document, error)
}

// ModelLoaderFunc adapts a function to a [ModelLoader].
type ModelLoaderFunc func(path string) (*Document, error)

func (fn ModelLoaderFunc) LoadModel(path string) (*Document, error) {
	return fn(path)
}

// ImageConfig controls how an image is decoded.
type ImageConfig struct {
	// HDR requests linear 32 bit float RGBA data.
	HDR bool
}

// ImageLoader loads decoded pixel data from a path.
type ImageLoader interface {
	LoadImage(path string, cfg ImageConfig) (*Image, error)
}

// Library is a [ModelLoader] serving documents added to it by name,
// for procedurally built content and tests. Paths are matched by their
// base name without extension.
type Library map[string]*Document

// Add adds the document under its Name.
func (lb Library) Add(doc *Document) {
	lb[doc.Name] = doc
}

func (lb Library) LoadModel(path string) (*Document, error) {
	doc, ok := lb[BaseName(path)]
	if !ok {
		return nil, fmt.Errorf("asset.Library: model %q not found", path)
	}
	return doc, nil
}

// BaseName returns the file name of path without directory and extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
