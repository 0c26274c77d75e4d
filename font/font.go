// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package font models proportional bitmap fonts as a glyph descriptor table
// plus a shared, packed 1 bit-per-pixel atlas.
//
// The atlas layout matches what the renderer decodes: glyph pixels are
// stored row-major, most-significant-bit first, with the bit counter running
// continuously across row boundaries. Each glyph starts on a byte boundary
// at Glyph.Offset.
//
// Fonts cover the printable ASCII range 0x20..0x7e only. Lookups outside
// that range resolve to the replacement glyph.
package font

// First and last character covered by a Font.
const (
	First = 0x20
	Last  = 0x7e
)

// Replacement is the glyph substituted for characters a Font does not
// cover, one per contiguous run of such characters.
const Replacement = '#'

// Glyph describes a single character in the atlas.
//
// XStart and YStart are signed offsets of the bitmap's top-left corner
// relative to the cursor position and the text baseline; they may be
// negative to let a glyph overshoot its cell.
type Glyph struct {
	// Offset is the byte offset of the bitmap in Font.Bitmaps.
	Offset uint16
	// Width and Height are the bitmap dimensions in pixels.
	Width  uint8
	Height uint8
	// Advance is the horizontal cursor movement after drawing, independent
	// of the drawn width.
	Advance uint8
	XStart  int8
	YStart  int8
}

// Font is an immutable set of glyphs sharing one bitmap atlas.
type Font struct {
	Bitmaps []byte
	// Glyphs is indexed by character code minus First.
	Glyphs []Glyph
}

// Glyph returns the descriptor for the given character. Characters outside
// the printable range map to the replacement glyph.
func (f *Font) Glyph(c byte) *Glyph {
	if c < First || c > Last {
		c = Replacement
	}
	return &f.Glyphs[c-First]
}

// Defaults for the row band a font set renders into. The baseline sits at
// three quarters of the band, leaving a quarter for descenders.
const (
	DefaultRowHeight = 60
	DefaultBaseline  = DefaultRowHeight * 3 / 4
)

// Set is a priority-ordered group of fonts of decreasing average glyph
// width, tried in order until the text fits the target area, plus the
// geometry of the row band they were sized for.
type Set struct {
	// Fonts holds the default, condensed and small variant. Unused slots
	// may be nil; the first entry must be set.
	Fonts [3]*Font

	// RowHeight is the pixel height of one text line.
	RowHeight int
	// Baseline is the y position glyphs are anchored to, relative to the
	// top of the row band.
	Baseline int
}
