// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import "image/color"

// Color is a 16 bit RGB 5:6:5 pixel value, the wire format of the panel.
type Color uint16

// Common colors.
const (
	Black   Color = 0x0000
	White   Color = 0xffff
	Red     Color = 0xf800
	Green   Color = 0x07e0
	Blue    Color = 0x001f
	Cyan    Color = 0x07ff
	Magenta Color = 0xf81f
	Yellow  Color = 0xffe0
	Orange  Color = 0xfc00
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	r = r5<<3 | r5>>2
	g = g6<<2 | g6>>4
	b = b5<<3 | b5>>2
	return r<<8 | r, g<<8 | g, b<<8 | b, 0xffff
}

// MakeColor converts an arbitrary color to the closest RGB 5:6:5 value.
func MakeColor(c color.Color) Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// Model is the color model of the panel.
var Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	return MakeColor(c)
})
