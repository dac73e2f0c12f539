// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"log/slog"
)

// WindowSystem is the platform window the application renders to.
// The underlying surface is double buffered.
type WindowSystem interface {
	// Configure recreates the window with the given configuration.
	Configure(cfg *WindowConfig)

	// PollEvents processes pending platform events such as
	// close requests, resizes and dropped files.
	PollEvents()

	// ShouldClose reports whether the window received a close request.
	ShouldClose() bool

	Update(dt float32)

	// SwapBuffers presents the frame; called after rendering finished.
	SwapBuffers()

	// SetSize resizes the window.
	SetSize(width, height int)
	Size() (width, height int)

	SetVSync(enabled bool)

	// SetResizeCallback sets the function called with the new size
	// after each resize.
	SetResizeCallback(fn func(width, height int))

	// SetDropCallback sets the function called with the paths of
	// files dropped onto the window.
	SetDropCallback(fn func(paths []string))

	Destroy()
}

// InputSystem processes user input once per frame.
type InputSystem interface {
	Update(dt float32)
}

// HeadlessWindow is a [WindowSystem] without a platform window.
// It requests close after Frames swaps, if positive, or after [HeadlessWindow.Close].
type HeadlessWindow struct {
	Config WindowConfig

	// Swaps is the number of presented frames.
	Swaps int

	// Polls is the number of PollEvents calls.
	Polls int

	closed  bool
	resize  func(width, height int)
	drop    func(paths []string)
	pending []func()
}

// NewHeadlessWindow returns a window with the given configuration.
func NewHeadlessWindow(cfg *WindowConfig) *HeadlessWindow {
	hw := &HeadlessWindow{}
	hw.Configure(cfg)
	return hw
}

func (hw *HeadlessWindow) Configure(cfg *WindowConfig) {
	hw.Config = *cfg
	slog.Debug("app.HeadlessWindow: configured", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
}

// PollEvents delivers the resizes and drops queued since the last poll.
func (hw *HeadlessWindow) PollEvents() {
	hw.Polls++
	events := hw.pending
	hw.pending = nil
	for _, ev := range events {
		ev()
	}
}

func (hw *HeadlessWindow) ShouldClose() bool {
	return hw.closed || (hw.Config.Frames > 0 && hw.Swaps >= hw.Config.Frames)
}

// Close requests the window to close.
func (hw *HeadlessWindow) Close() {
	hw.closed = true
}

func (hw *HeadlessWindow) Update(dt float32) {}

func (hw *HeadlessWindow) SwapBuffers() {
	hw.Swaps++
}

// SetSize resizes the window; the resize callback runs on the next
// poll. Non-positive sizes are ignored.
func (hw *HeadlessWindow) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	hw.Config.Width, hw.Config.Height = width, height
	hw.pending = append(hw.pending, func() {
		if hw.resize != nil {
			hw.resize(width, height)
		}
	})
}

func (hw *HeadlessWindow) Size() (width, height int) {
	return hw.Config.Width, hw.Config.Height
}

func (hw *HeadlessWindow) SetVSync(enabled bool) {
	hw.Config.VSync = enabled
}

func (hw *HeadlessWindow) SetResizeCallback(fn func(width, height int)) {
	hw.resize = fn
}

func (hw *HeadlessWindow) SetDropCallback(fn func(paths []string)) {
	hw.drop = fn
}

// Drop simulates files dropped onto the window, delivered on
// the next poll.
func (hw *HeadlessWindow) Drop(paths ...string) {
	hw.pending = append(hw.pending, func() {
		if hw.drop != nil {
			hw.drop(paths)
		}
	})
}

func (hw *HeadlessWindow) Destroy() {
	hw.closed = true
	hw.pending = nil
}

// NoInput is an [InputSystem] that ignores input.
type NoInput struct{}

func (NoInput) Update(dt float32) {}
