// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import (
	"fmt"
	"runtime"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"

	"github.com/versioduo/V2Display/font"
)

// Justify is the text alignment within the current text area.
type Justify int

// Supported justifications.
const (
	Left Justify = iota
	Center
	Right
)

// Rotation is the panel orientation in degrees.
type Rotation int

// Supported rotations.
const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// Bus is the transport the display streams commands and pixels over.
//
// Begin and End bracket an exclusive transaction. WriteCommand blocks until
// the command and its arguments are on the wire. Write may hand the data to
// an offload engine and return early; Done reports whether all previously
// issued writes have completed. Callers only End a transaction once Done
// reports true.
type Bus interface {
	Begin() error
	WriteCommand(cmd byte, args ...byte) error
	Write(p []byte) error
	Done() bool
	End() error
}

// Controller translates the three chip-independent operations into the
// command sequences of a specific graphics controller. Implementations are
// called inside a bus transaction owned by the display.
type Controller interface {
	// Reset performs the device power-on sequence.
	Reset() error

	// SetOrientation selects one of the four right-angle rotations and
	// returns the visible width and height for it.
	SetOrientation(r Rotation) (width, height int, err error)

	// SetWindow selects the rectangular target region for the next pixel
	// stream. Coordinates are in the current orientation's space; the
	// controller applies its native offsets.
	SetWindow(x, y, width, height int) error
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W: 240,
	H: 240,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the panel dimensions at Rotate0, used to size the
	// offscreen row buffer.
	W int
	H int

	// Fonts is the font set used for text rendering. Defaults to
	// font.DefaultSet().
	Fonts *font.Set

	// Yield hands control back to the host environment while the display
	// waits for the bus or for a previous job. Defaults to runtime.Gosched.
	// A cooperative scheduler should run its poll work here.
	Yield func()
}

// Dev is an open handle to the display.
type Dev struct {
	bus  Bus
	ctrl Controller

	fonts *font.Set
	yield func()

	// Visible pixels after Reset with the current rotation.
	pixels struct {
		w int
		h int
	}

	// Current text area.
	area struct {
		justify    Justify
		x          int
		row        int
		width      int
		foreground Color
		background Color
		cursor     int
	}

	// Offscreen row buffer, big-endian RGB 5:6:5. Allocated once, reused
	// for every fill and print.
	buffer []byte

	// A transfer is in flight; the buffer must not be touched.
	busy bool
}

// New returns a Dev that renders through ctrl and streams over bus.
//
// The display is not usable until Reset ran once.
func New(bus Bus, ctrl Controller, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("v2display: invalid panel size %dx%d", opts.W, opts.H)
	}
	fonts := opts.Fonts
	if fonts == nil {
		fonts = font.DefaultSet()
	}
	if fonts.Fonts[0] == nil {
		return nil, fmt.Errorf("v2display: font set has no default font")
	}
	if fonts.RowHeight <= 0 || fonts.Baseline <= 0 || fonts.Baseline > fonts.RowHeight {
		return nil, fmt.Errorf("v2display: invalid row geometry %d/%d", fonts.RowHeight, fonts.Baseline)
	}
	yield := opts.Yield
	if yield == nil {
		yield = runtime.Gosched
	}

	// The buffer must hold one row band at the widest orientation.
	side := opts.W
	if opts.H > side {
		side = opts.H
	}
	return &Dev{
		bus:    bus,
		ctrl:   ctrl,
		fonts:  fonts,
		yield:  yield,
		buffer: make([]byte, side*fonts.RowHeight*2),
	}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("v2display.Dev{%dx%d}", d.pixels.w, d.pixels.h)
}

// Reset initializes the device, applies the rotation and fills the screen.
// It always blocks until the panel is updated.
func (d *Dev) Reset(r Rotation, c Color) error {
	// A reset invalidates whatever the offload engine was doing.
	d.busy = false

	if err := d.bus.Begin(); err != nil {
		return err
	}
	if err := d.reset(r, c); err != nil {
		// Release the bus, keep the original error.
		d.bus.End()
		return err
	}
	return d.finishWrite()
}

func (d *Dev) reset(r Rotation, c Color) error {
	if err := d.ctrl.Reset(); err != nil {
		return err
	}
	w, h, err := d.ctrl.SetOrientation(r)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("v2display: controller reported invalid size %dx%d", w, h)
	}
	if w*d.fonts.RowHeight*2 > len(d.buffer) {
		return fmt.Errorf("v2display: panel width %d exceeds configured buffer", w)
	}
	d.pixels.w = w
	d.pixels.h = h
	return d.writeFillRectangle(0, 0, w, h, c)
}

// FillRectangle fills the given region with a solid color. The call returns
// once the last burst has been handed to the bus; the transfer may still be
// in flight.
func (d *Dev) FillRectangle(x, y, width, height int, c Color) error {
	if d.pixels.w == 0 {
		return fmt.Errorf("v2display: not initialized, Reset first")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("v2display: invalid rectangle %dx%d", width, height)
	}
	if err := d.prepareWrite(); err != nil {
		return err
	}
	if err := d.writeFillRectangle(x, y, width, height, c); err != nil {
		d.bus.End()
		return err
	}
	d.busy = true
	return nil
}

// FillScreen fills the whole visible area with a solid color.
func (d *Dev) FillScreen(c Color) error {
	return d.FillRectangle(0, 0, d.pixels.w, d.pixels.h, c)
}

// SetArea defines the region text is rendered into: a horizontal slice of
// one row height, starting at pixel x of text row `row`. The cursor is
// reset to 0.
//
// The width is capped to what the offscreen buffer can hold.
func (d *Dev) SetArea(x, row, width int, justify Justify, foreground, background Color) {
	if max := len(d.buffer) / (d.fonts.RowHeight * 2); width > max {
		width = max
	}
	d.area.x = x
	d.area.row = row
	d.area.width = width
	d.area.justify = justify
	d.area.foreground = foreground
	d.area.background = background
	d.area.cursor = 0
}

// SetColor changes the foreground color for subsequent text.
func (d *Dev) SetColor(c Color) {
	d.area.foreground = c
}

// Halt drains any in-flight transfer and blanks the screen. It implements
// conn.Resource.
func (d *Dev) Halt() error {
	if d.pixels.w == 0 {
		return nil
	}
	if err := d.FillScreen(Black); err != nil {
		return err
	}
	return d.Drain()
}

func (d *Dev) checkArea() error {
	if d.pixels.w == 0 {
		return fmt.Errorf("v2display: not initialized, Reset first")
	}
	if d.area.width == 0 {
		return fmt.Errorf("v2display: no text area set")
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ display.Drawer = &Dev{}
