// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import (
	"encoding/binary"
	"strconv"

	"github.com/versioduo/V2Display/font"
)

// maxTextLen is the hard cap on characters per print; longer strings are
// truncated.
const maxTextLen = 32

// filterText reduces a raw string to the characters that will be rendered:
// the input is capped at maxTextLen, trailing spaces are stripped, control
// bytes are dropped, and every contiguous run of bytes outside the
// printable range is collapsed into a single replacement glyph.
func filterText(s string) []byte {
	if len(s) > maxTextLen {
		s = s[:maxTextLen]
	}
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}

	text := make([]byte, 0, len(s))
	replaced := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c < font.First:
			// Control bytes vanish without interrupting a replacement run.
		case c > font.Last:
			if !replaced {
				text = append(text, font.Replacement)
				replaced = true
			}
		default:
			text = append(text, c)
			replaced = false
		}
	}
	return text
}

// textWidth returns the cumulative advance of the filtered text.
func textWidth(f *font.Font, text []byte) int {
	width := 0
	for _, c := range text {
		width += int(f.Glyph(c).Advance)
	}
	return width
}

// selectFont tries the font set in priority order until the text fits the
// area, never skipping a step. If even the narrowest font overflows, it is
// returned anyway; rendering clips per glyph.
func (d *Dev) selectFont(text []byte) (*font.Font, int) {
	f := d.fonts.Fonts[0]
	width := textWidth(f, text)
	for i := 1; i < len(d.fonts.Fonts); i++ {
		if width <= d.area.width || d.fonts.Fonts[i] == nil {
			break
		}
		f = d.fonts.Fonts[i]
		width = textWidth(f, text)
	}
	return f, width
}

// justifyOffset returns the start cursor for a text of the given width.
func justifyOffset(j Justify, areaWidth, textWidth int) int {
	switch j {
	case Center:
		return (areaWidth - textWidth) / 2
	case Right:
		return areaWidth - textWidth
	default:
		return 0
	}
}

// initializeBuffer fills the area's slice of the buffer with the
// background color.
func (d *Dev) initializeBuffer() {
	bg := uint16(d.area.background)
	for i := 0; i < d.area.width*d.fonts.RowHeight; i++ {
		binary.BigEndian.PutUint16(d.buffer[2*i:], bg)
	}
}

// renderChar decodes a glyph's packed bitmap into the buffer at cursor
// position x and returns the advance. Pixels falling outside the area are
// dropped.
func (d *Dev) renderChar(f *font.Font, x int, c byte) int {
	g := f.Glyph(c)
	stride := d.area.width
	fg := uint16(d.area.foreground)

	o := int(g.Offset)
	var m byte
	bit := 0
	for iy := 0; iy < int(g.Height); iy++ {
		for ix := 0; ix < int(g.Width); ix++ {
			if bit&7 == 0 {
				m = f.Bitmaps[o]
				o++
			}
			bit++
			on := m&0x80 != 0
			m <<= 1
			if !on {
				continue
			}
			bx := x + int(g.XStart) + ix
			by := d.fonts.Baseline + int(g.YStart) + iy
			if bx < 0 || bx >= stride || by < 0 || by >= d.fonts.RowHeight {
				continue
			}
			binary.BigEndian.PutUint16(d.buffer[(by*stride+bx)*2:], fg)
		}
	}
	return int(g.Advance)
}

// DrawChar renders a single character at the cursor position. No text
// handling, always the default font. The buffer is only initialized when
// the cursor is at 0, so successive characters accumulate; call Flush to
// put the result on screen.
func (d *Dev) DrawChar(c byte) error {
	if err := d.checkArea(); err != nil {
		return err
	}
	if err := d.Drain(); err != nil {
		return err
	}
	if d.area.cursor == 0 {
		d.initializeBuffer()
	}
	d.area.cursor += d.renderChar(d.fonts.Fonts[0], d.area.cursor, c)
	return nil
}

// Flush writes the offscreen buffer to the text area without rendering new
// text. Characters accumulated with DrawChar are preserved; otherwise the
// area is cleared to the background color.
func (d *Dev) Flush() error {
	if err := d.checkArea(); err != nil {
		return err
	}
	if err := d.Drain(); err != nil {
		return err
	}
	if d.area.cursor == 0 {
		d.initializeBuffer()
	}
	return d.flushBuffer()
}

// Print renders a line of text into the text area.
//
// If the display is idle, the text is rendered offscreen and the pixel
// transfer offloaded to the bus; the call returns before the panel is
// updated. If the display is busy, the call blocks until the running job
// finished and this one could be offloaded.
//
// Characters that would overflow the area even with the narrowest font are
// silently dropped at the glyph that no longer fits.
//
// An empty string draws nothing and leaves the panel untouched; use Flush
// to clear the area explicitly. A string that reduces to nothing after
// filtering, like all spaces, still clears the area.
func (d *Dev) Print(s string) error {
	if err := d.checkArea(); err != nil {
		return err
	}
	if err := d.Drain(); err != nil {
		return err
	}
	if len(s) == 0 {
		return nil
	}

	text := filterText(s)
	f, width := d.selectFont(text)
	if width > d.area.width {
		width = d.area.width
	}
	d.area.cursor = justifyOffset(d.area.justify, d.area.width, width)

	d.initializeBuffer()
	for _, c := range text {
		advance := int(f.Glyph(c).Advance)
		if d.area.cursor+advance > d.area.width {
			break
		}
		d.renderChar(f, d.area.cursor, c)
		d.area.cursor += advance
	}

	d.area.cursor = 0
	return d.flushBuffer()
}

// PrintFloat renders a floating point value with a fixed number of decimal
// digits.
func (d *Dev) PrintFloat(f float64, digits int) error {
	return d.Print(strconv.FormatFloat(f, 'f', digits, 64))
}
