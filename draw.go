// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.pixels.w, d.pixels.h)
}

// Draw implements display.Drawer.
//
// The image is converted to RGB 5:6:5 and streamed through the row buffer,
// one band at a time. It draws synchronously; once this function returns,
// the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.pixels.w == 0 {
		return fmt.Errorf("v2display: not initialized, Reset first")
	}
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	if err := d.prepareWrite(); err != nil {
		return err
	}
	if err := d.drawBands(r, src, sp); err != nil {
		// Release the bus, keep the original error.
		d.bus.End()
		return err
	}
	return d.finishWrite()
}

func (d *Dev) drawBands(r image.Rectangle, src image.Image, sp image.Point) error {
	delta := sp.Sub(r.Min)
	stride := r.Dx()
	rowHeight := d.fonts.RowHeight
	for y := r.Min.Y; y < r.Max.Y; y += rowHeight {
		bandHeight := rowHeight
		if y+bandHeight > r.Max.Y {
			bandHeight = r.Max.Y - y
		}
		for by := 0; by < bandHeight; by++ {
			for bx := 0; bx < stride; bx++ {
				c := MakeColor(src.At(r.Min.X+bx+delta.X, y+by+delta.Y))
				binary.BigEndian.PutUint16(d.buffer[(by*stride+bx)*2:], uint16(c))
			}
		}
		if err := d.ctrl.SetWindow(r.Min.X, y, stride, bandHeight); err != nil {
			return err
		}
		if err := d.write(d.buffer[:stride*bandHeight*2]); err != nil {
			return err
		}
	}
	return nil
}
