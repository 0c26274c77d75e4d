// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7789 implements the v2display.Controller contract for the
// Sitronix ST7789V, a 240 x 320 pixel graphics controller.
//
// Connected panels with fewer pixels on the x-axis use the RAM columns
// around the center. On the y-axis some panels use the rows around the
// center, others start at row 0; set Opts.YCentered accordingly.
package st7789

import (
	"encoding/binary"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	v2display "github.com/versioduo/V2Display"
)

// Command set, datasheet chapter 9.
const (
	cmdNOP     = 0x00
	cmdSWRESET = 0x01
	cmdSLPIN   = 0x10
	cmdSLPOUT  = 0x11
	cmdPTLON   = 0x12
	cmdNORON   = 0x13
	cmdINVOFF  = 0x20
	cmdINVON   = 0x21
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
	cmdCASET   = 0x2a
	cmdRASET   = 0x2b
	cmdRAMWR   = 0x2c
	cmdPTLAR   = 0x30
	cmdTEOFF   = 0x34
	cmdTEON    = 0x35
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3a
	madctlMY   = 0x80
	madctlMX   = 0x40
	madctlMV   = 0x20
	madctlML   = 0x10
	madctlRGB  = 0x00
)

// Controller RAM dimensions.
const (
	ramWidth  = 240
	ramHeight = 320
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W: 240,
	H: 240,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the physical panel dimensions at Rotate0.
	W int
	H int

	// YCentered selects panels wired to the RAM rows around the center
	// instead of starting at row 0.
	YCentered bool
}

// Dev translates the abstract controller operations into ST7789V command
// sequences on the shared bus. It owns no pixel data.
type Dev struct {
	bus  v2display.Bus
	rst  gpio.PinOut
	opts Opts

	// Window offsets into the controller RAM for the current orientation.
	xStart int
	yStart int
}

// New returns a Dev for a panel of the given geometry. The reset pin is
// optional; pass nil if the line is tied to the board reset.
func New(bus v2display.Bus, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.W > ramWidth || opts.H <= 0 || opts.H > ramHeight {
		return nil, fmt.Errorf("st7789: invalid panel size %dx%d", opts.W, opts.H)
	}
	return &Dev{bus: bus, rst: rst, opts: *opts}, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%dx%d}", d.opts.W, d.opts.H)
}

// Reset implements v2display.Controller. It pulses the reset line, then
// runs the power-on command sequence with the required settle delays.
func (d *Dev) Reset() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}

	sequence := []struct {
		cmd    byte
		args   []byte
		settle time.Duration
	}{
		{cmd: cmdSWRESET, settle: 5 * time.Millisecond},
		{cmd: cmdSLPOUT},
		{cmd: cmdCOLMOD, args: []byte{0x55}}, // 16 bit pixels
		{cmd: cmdMADCTL, args: []byte{0x08}}, // RGB order
		{cmd: cmdINVON},                      // Display inversion
		{cmd: cmdNORON},
		{cmd: cmdDISPON},
	}
	for _, s := range sequence {
		if err := d.bus.WriteCommand(s.cmd, s.args...); err != nil {
			return err
		}
		if s.settle > 0 {
			time.Sleep(s.settle)
		}
	}
	return nil
}

// SetOrientation implements v2display.Controller. Each rotation recomputes
// the RAM window offsets and reports the swapped visible size.
func (d *Dev) SetOrientation(r v2display.Rotation) (int, int, error) {
	var command byte
	var w, h int

	switch r {
	case v2display.Rotate0:
		command = madctlRGB
		w, h = d.opts.W, d.opts.H
		d.xStart = (ramWidth - d.opts.W) / 2
		if d.opts.YCentered {
			d.yStart = (ramHeight - d.opts.H) / 2
		} else {
			d.yStart = 0
		}

	case v2display.Rotate90:
		// Exchange X/Y, mirror X.
		command = madctlMX | madctlMV | madctlRGB
		w, h = d.opts.H, d.opts.W
		if d.opts.YCentered {
			d.xStart = (ramHeight - d.opts.H) / 2
		} else {
			d.xStart = 0
		}
		d.yStart = (ramWidth - d.opts.W + 1) / 2

	case v2display.Rotate180:
		// Mirror X and Y.
		command = madctlMX | madctlMY | madctlRGB
		w, h = d.opts.W, d.opts.H
		d.xStart = (ramWidth - d.opts.W + 1) / 2
		if d.opts.YCentered {
			d.yStart = (ramHeight - d.opts.H) / 2
		} else {
			d.yStart = ramHeight - d.opts.H
		}

	case v2display.Rotate270:
		// Exchange X/Y, mirror Y.
		command = madctlMY | madctlMV | madctlRGB
		w, h = d.opts.H, d.opts.W
		if d.opts.YCentered {
			d.xStart = (ramHeight - d.opts.H) / 2
		} else {
			d.xStart = ramHeight - d.opts.H
		}
		d.yStart = (ramWidth - d.opts.W) / 2

	default:
		return 0, 0, fmt.Errorf("st7789: unsupported rotation %d", r)
	}

	if err := d.bus.WriteCommand(cmdMADCTL, command); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// SetWindow implements v2display.Controller. Coordinates are translated
// into the RAM's space and encoded big-endian.
func (d *Dev) SetWindow(x, y, width, height int) error {
	var data [4]byte

	xStart := x + d.xStart
	binary.BigEndian.PutUint16(data[0:], uint16(xStart))
	binary.BigEndian.PutUint16(data[2:], uint16(xStart+width-1))
	if err := d.bus.WriteCommand(cmdCASET, data[:]...); err != nil {
		return err
	}

	yStart := y + d.yStart
	binary.BigEndian.PutUint16(data[0:], uint16(yStart))
	binary.BigEndian.PutUint16(data[2:], uint16(yStart+height-1))
	if err := d.bus.WriteCommand(cmdRASET, data[:]...); err != nil {
		return err
	}

	return d.bus.WriteCommand(cmdRAMWR)
}

// Enable switches the display output on or off. The display must be idle;
// drain any in-flight transfer first.
func (d *Dev) Enable(on bool) error {
	cmd := byte(cmdDISPOFF)
	if on {
		cmd = cmdDISPON
	}
	return d.writeSync(cmd)
}

// Sleep puts the controller into or out of sleep mode. The display must be
// idle; drain any in-flight transfer first.
func (d *Dev) Sleep(on bool) error {
	cmd := byte(cmdSLPOUT)
	if on {
		cmd = cmdSLPIN
	}
	return d.writeSync(cmd)
}

func (d *Dev) writeSync(cmd byte) error {
	if err := d.bus.Begin(); err != nil {
		return err
	}
	if err := d.bus.WriteCommand(cmd); err != nil {
		return err
	}
	return d.bus.End()
}

var _ v2display.Controller = &Dev{}
