// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package websink implements a virtual panel serving its content over
// HTTP. Client requests get an initial snapshot of the framebuffer and are
// updated further on every finished transfer.
//
// The panel implements the v2display.Bus and v2display.Controller
// contracts, consuming the same window-select and RGB 5:6:5 pixel stream a
// hardware controller receives, into a framebuffer kept in that wire
// format. The primary use case is the development of display outputs on a
// host machine; devices with network connectivity can also use it to
// mirror their local display via a web interface.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which is often used by IP cameras. Because of its better suitability for
// computer-drawn graphics the PNG image format is used by default. JPEG,
// or the raw RGB 5:6:5 framebuffer exactly as a hardware panel would hold
// it, can be selected via Options.Format or using the "format" URL
// parameter.
package websink

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"sync"

	v2display "github.com/versioduo/V2Display"
)

// Options for websink panels.
type Options struct {
	// Format specifies the image format to send to clients.
	Format ImageFormat
}

// Panel is a virtual display panel with an HTTP frame stream attached.
type Panel struct {
	defaultFormat ImageFormat

	hw struct {
		w int
		h int
	}

	mu sync.Mutex
	// Native framebuffer in the panel wire format, logical size for the
	// current orientation.
	fb       []v2display.Color
	width    int
	height   int
	clients  map[*client]struct{}
	snapshot map[imageConfig][]byte

	win image.Rectangle
	cur image.Point

	// Carry for a pixel split across two Write calls.
	partial    byte
	hasPartial bool
}

var _ v2display.Bus = (*Panel)(nil)
var _ v2display.Controller = (*Panel)(nil)
var _ http.Handler = (*Panel)(nil)

// New creates a new websink panel of the given physical size.
func New(width, height int, opt *Options) *Panel {
	p := &Panel{
		clients:  map[*client]struct{}{},
		snapshot: map[imageConfig][]byte{},
	}
	if opt != nil {
		p.defaultFormat = opt.Format
	}
	p.hw.w = width
	p.hw.h = height
	p.resize(width, height)
	return p
}

// String returns the name of the device.
func (p *Panel) String() string {
	return fmt.Sprintf("websink.Panel{%dx%d}", p.hw.w, p.hw.h)
}

func (p *Panel) resize(w, h int) {
	p.width = w
	p.height = h
	p.fb = make([]v2display.Color, w*h)
}

// Reset implements v2display.Controller.
func (p *Panel) Reset() error {
	p.mu.Lock()
	for i := range p.fb {
		p.fb[i] = 0
	}
	p.win = image.Rectangle{}
	p.hasPartial = false
	p.bufferChangedLocked()
	p.mu.Unlock()
	return nil
}

// SetOrientation implements v2display.Controller.
func (p *Panel) SetOrientation(r v2display.Rotation) (int, int, error) {
	var w, h int
	switch r {
	case v2display.Rotate0, v2display.Rotate180:
		w, h = p.hw.w, p.hw.h
	case v2display.Rotate90, v2display.Rotate270:
		w, h = p.hw.h, p.hw.w
	default:
		return 0, 0, fmt.Errorf("websink: unsupported rotation %d", r)
	}
	p.mu.Lock()
	p.resize(w, h)
	p.mu.Unlock()
	return w, h, nil
}

// SetWindow implements v2display.Controller.
func (p *Panel) SetWindow(x, y, width, height int) error {
	p.win = image.Rect(x, y, x+width, y+height)
	p.cur = p.win.Min
	p.hasPartial = false
	return nil
}

// Begin implements v2display.Bus.
func (p *Panel) Begin() error {
	return nil
}

// WriteCommand implements v2display.Bus. The panel is its own controller;
// raw chip commands have nothing to do.
func (p *Panel) WriteCommand(cmd byte, args ...byte) error {
	return nil
}

// Write implements v2display.Bus, consuming big-endian RGB 5:6:5 pixels
// into the current window, wrapping per row like controller RAM.
func (p *Panel) Write(data []byte) error {
	p.mu.Lock()
	for _, b := range data {
		if !p.hasPartial {
			p.partial = b
			p.hasPartial = true
			continue
		}
		p.hasPartial = false
		p.setPixelLocked(v2display.Color(uint16(p.partial)<<8 | uint16(b)))
	}
	p.mu.Unlock()
	return nil
}

// Done implements v2display.Bus.
func (p *Panel) Done() bool {
	return true
}

// End implements v2display.Bus. A finished transfer publishes the frame to
// all connected clients.
func (p *Panel) End() error {
	p.mu.Lock()
	p.bufferChangedLocked()
	p.mu.Unlock()
	return nil
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (p *Panel) Halt() error {
	p.mu.Lock()
	p.terminateClientsLocked()
	p.mu.Unlock()
	return nil
}

func (p *Panel) setPixelLocked(c v2display.Color) {
	if p.win.Empty() {
		return
	}
	pt := p.cur
	p.cur.X++
	if p.cur.X >= p.win.Max.X {
		p.cur.X = p.win.Min.X
		p.cur.Y++
		if p.cur.Y >= p.win.Max.Y {
			p.cur.Y = p.win.Min.Y
		}
	}
	if pt.X < 0 || pt.Y < 0 || pt.X >= p.width || pt.Y >= p.height {
		return
	}
	p.fb[pt.Y*p.width+pt.X] = c
}

// frame exposes the native framebuffer to the stdlib image encoders.
type frame struct {
	fb     []v2display.Color
	width  int
	height int
}

func (f *frame) ColorModel() color.Model {
	return v2display.Model
}

func (f *frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

func (f *frame) At(x, y int) color.Color {
	return f.fb[y*f.width+x]
}
