// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package font

import (
	"fmt"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FromFace rasterizes the printable ASCII range of a font face into the
// packed atlas format. Antialiased coverage is thresholded at 50%.
//
// The face must be small enough for the descriptor fields: glyph dimensions
// and advances up to 255 pixels, origin offsets within ±127 pixels, and a
// total atlas of at most 64 KiB.
func FromFace(face xfont.Face) (*Font, error) {
	f := &Font{
		Glyphs: make([]Glyph, 0, Last-First+1),
	}
	for c := First; c <= Last; c++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), rune(c))
		if !ok {
			return nil, fmt.Errorf("font: face has no glyph for %q", c)
		}
		w, h := dr.Dx(), dr.Dy()
		if w > 0xff || h > 0xff || advance.Ceil() > 0xff {
			return nil, fmt.Errorf("font: glyph %q exceeds %dx%d descriptor limits", c, 0xff, 0xff)
		}
		if dr.Min.X < -0x80 || dr.Min.X > 0x7f || dr.Min.Y < -0x80 || dr.Min.Y > 0x7f {
			return nil, fmt.Errorf("font: glyph %q origin offset out of range", c)
		}
		if len(f.Bitmaps)+(w*h+7)/8 > 0xffff {
			return nil, fmt.Errorf("font: atlas exceeds %d bytes", 0xffff)
		}

		g := Glyph{
			Offset:  uint16(len(f.Bitmaps)),
			Width:   uint8(w),
			Height:  uint8(h),
			Advance: uint8(advance.Round()),
			XStart:  int8(dr.Min.X),
			YStart:  int8(dr.Min.Y),
		}

		var cur byte
		bit := 0
		for iy := 0; iy < h; iy++ {
			for ix := 0; ix < w; ix++ {
				_, _, _, a := mask.At(maskp.X+ix, maskp.Y+iy).RGBA()
				if a >= 0x8000 {
					cur |= 0x80 >> (bit & 7)
				}
				bit++
				if bit&7 == 0 {
					f.Bitmaps = append(f.Bitmaps, cur)
					cur = 0
				}
			}
		}
		if bit&7 != 0 {
			f.Bitmaps = append(f.Bitmaps, cur)
		}
		f.Glyphs = append(f.Glyphs, g)
	}
	return f, nil
}
