// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package v2display drives pixel-addressable TFT graphics controllers over
// a serial bus. It renders bitmap text and filled regions into a small
// offscreen row buffer and streams that buffer to the panel, overlapping
// buffer preparation with the bus transfer so callers are not blocked on
// I/O time.
//
// The driver is split into three layers:
//
//   - The render engine measures text against a priority-ordered set of
//     proportional bitmap fonts, rasterizes glyphs into a 16 bit RGB 5:6:5
//     buffer and generates solid fill patterns. See the font subpackage for
//     the glyph atlas format and builders.
//
//   - The transfer pipeline owns a two-state busy/idle machine. A print or
//     fill selects the target window on the controller and hands the buffer
//     to the bus; if the transport offloads writes, the call returns before
//     the panel is updated. Poll drives the Busy to Idle transition and must
//     be called from the application's loop.
//
//   - The Controller interface abstracts the specific graphics chip behind
//     three operations: Reset, SetOrientation and SetWindow. The st7789
//     subpackage implements it for the Sitronix ST7789V; the termview and
//     websink subpackages implement software panels for development without
//     hardware.
//
// The Bus interface models the transport: an exclusive transaction, a
// blocking command write, and pixel data writes that may complete
// asynchronously. SPIBus adapts a periph.io SPI port with a D/C GPIO pin.
package v2display
