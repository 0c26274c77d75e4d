// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a virtual panel that renders to a terminal
// using ANSI color codes.
//
// It implements both the v2display.Bus and v2display.Controller contracts,
// consuming the window-select and RGB 5:6:5 pixel stream exactly like a
// hardware controller would. Useful while you are waiting for your panel
// to come by mail, and as an end-to-end test vehicle.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	v2display "github.com/versioduo/V2Display"
)

// Opts represents the options available for this panel.
type Opts struct {
	// W and H are the panel dimensions at Rotate0.
	W int
	H int

	// Palette used to map pixels to ANSI codes. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette

	// Writer receiving the frames. Defaults to a colorable stdout.
	Writer io.Writer
}

// Screen is a panel emulator that outputs to the console.
type Screen struct {
	w       io.Writer
	palette ansi256.Palette

	hw struct {
		w int
		h int
	}
	// Logical size for the current orientation.
	width  int
	height int

	fb  []v2display.Color
	win image.Rectangle
	cur image.Point

	// Carry for a pixel split across two Write calls.
	partial    byte
	hasPartial bool

	buf bytes.Buffer
}

// New returns a Screen that displays at the console.
func New(opts *Opts) *Screen {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	s := &Screen{
		w:       w,
		palette: *p,
		width:   opts.W,
		height:  opts.H,
		fb:      make([]v2display.Color, opts.W*opts.H),
	}
	s.hw.w = opts.W
	s.hw.h = opts.H
	return s
}

func (s *Screen) String() string {
	return fmt.Sprintf("termview.Screen{%dx%d}", s.width, s.height)
}

// Reset implements v2display.Controller.
func (s *Screen) Reset() error {
	for i := range s.fb {
		s.fb[i] = 0
	}
	s.win = image.Rectangle{}
	s.hasPartial = false
	return nil
}

// SetOrientation implements v2display.Controller.
func (s *Screen) SetOrientation(r v2display.Rotation) (int, int, error) {
	switch r {
	case v2display.Rotate0, v2display.Rotate180:
		s.width, s.height = s.hw.w, s.hw.h
	case v2display.Rotate90, v2display.Rotate270:
		s.width, s.height = s.hw.h, s.hw.w
	default:
		return 0, 0, fmt.Errorf("termview: unsupported rotation %d", r)
	}
	s.fb = make([]v2display.Color, s.width*s.height)
	return s.width, s.height, nil
}

// SetWindow implements v2display.Controller.
func (s *Screen) SetWindow(x, y, width, height int) error {
	s.win = image.Rect(x, y, x+width, y+height)
	s.cur = s.win.Min
	s.hasPartial = false
	return nil
}

// Begin implements v2display.Bus.
func (s *Screen) Begin() error {
	return nil
}

// WriteCommand implements v2display.Bus. The screen is its own controller;
// raw chip commands have nothing to do.
func (s *Screen) WriteCommand(cmd byte, args ...byte) error {
	return nil
}

// Write implements v2display.Bus, consuming big-endian RGB 5:6:5 pixels
// into the current window, wrapping per row like controller RAM.
func (s *Screen) Write(p []byte) error {
	for _, b := range p {
		if !s.hasPartial {
			s.partial = b
			s.hasPartial = true
			continue
		}
		s.hasPartial = false
		s.setPixel(v2display.Color(uint16(s.partial)<<8 | uint16(b)))
	}
	return nil
}

// Done implements v2display.Bus.
func (s *Screen) Done() bool {
	return true
}

// End implements v2display.Bus and pushes a frame to the terminal.
func (s *Screen) End() error {
	return s.refresh()
}

// Halt implements conn.Resource. It resets the terminal colors so the
// shell is not corrupted.
func (s *Screen) Halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

func (s *Screen) setPixel(c v2display.Color) {
	if s.win.Empty() {
		return
	}
	pt := s.cur
	s.cur.X++
	if s.cur.X >= s.win.Max.X {
		s.cur.X = s.win.Min.X
		s.cur.Y++
		if s.cur.Y >= s.win.Max.Y {
			s.cur.Y = s.win.Min.Y
		}
	}
	if pt.X < 0 || pt.Y < 0 || pt.X >= s.width || pt.Y >= s.height {
		return
	}
	s.fb[pt.Y*s.width+pt.X] = c
}

func (s *Screen) refresh() error {
	// This code is designed to minimize the amount of memory allocated per
	// frame.
	s.buf.Reset()
	_, _ = s.buf.WriteString("\033[H\033[0m")
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			r, g, b, _ := s.fb[y*s.width+x].RGBA()
			c := color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
			_, _ = io.WriteString(&s.buf, s.palette.Block(c))
		}
		_, _ = s.buf.WriteString("\033[0m\n")
	}
	_, err := s.buf.WriteTo(s.w)
	return err
}

var _ v2display.Bus = &Screen{}
var _ v2display.Controller = &Screen{}
var _ fmt.Stringer = &Screen{}
