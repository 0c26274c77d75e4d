// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import "encoding/binary"

// Poll advances the transfer state machine. If a previous job has finished
// on the bus, the transaction is closed and the display returns to idle.
//
// Poll must be called periodically from the application's loop; nothing
// else completes an asynchronous transfer.
func (d *Dev) Poll() error {
	if !d.busy {
		return nil
	}
	if !d.bus.Done() {
		return nil
	}
	if err := d.finishWrite(); err != nil {
		return err
	}
	d.busy = false
	return nil
}

// Drain blocks, cooperatively yielding, until no transfer is in flight.
func (d *Dev) Drain() error {
	for d.busy {
		d.yield()
		if err := d.Poll(); err != nil {
			return err
		}
	}
	return nil
}

// prepareWrite waits for a previous job to finish and opens a new bus
// transaction.
func (d *Dev) prepareWrite() error {
	if err := d.Drain(); err != nil {
		return err
	}
	return d.bus.Begin()
}

// write streams one burst. It waits for the previous burst to leave the
// offload engine, then hands over the next; only the final burst of a job
// is allowed to remain in flight after the caller returns.
func (d *Dev) write(p []byte) error {
	for !d.bus.Done() {
		d.yield()
	}
	return d.bus.Write(p)
}

func (d *Dev) finishWrite() error {
	for !d.bus.Done() {
		d.yield()
	}
	return d.bus.End()
}

// writeFillRectangle fills a window by repeating a single solid pattern of
// at most one row band, instead of allocating the full area.
func (d *Dev) writeFillRectangle(x, y, width, height int, c Color) error {
	if err := d.ctrl.SetWindow(x, y, width, height); err != nil {
		return err
	}

	pixels := width * height
	band := len(d.buffer) / 2
	if pixels < band {
		band = pixels
	}
	for i := 0; i < band; i++ {
		binary.BigEndian.PutUint16(d.buffer[2*i:], uint16(c))
	}

	for pixels > 0 {
		count := band
		if pixels < count {
			count = pixels
		}
		if err := d.write(d.buffer[:count*2]); err != nil {
			return err
		}
		pixels -= count
	}
	return nil
}

// flushBuffer selects the text area's window and offloads the buffer.
func (d *Dev) flushBuffer() error {
	if err := d.prepareWrite(); err != nil {
		return err
	}
	rowHeight := d.fonts.RowHeight
	if err := d.ctrl.SetWindow(d.area.x, d.area.row*rowHeight, d.area.width, rowHeight); err != nil {
		d.bus.End()
		return err
	}
	if err := d.write(d.buffer[:d.area.width*rowHeight*2]); err != nil {
		d.bus.End()
		return err
	}
	d.busy = true
	return nil
}
