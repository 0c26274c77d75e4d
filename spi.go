// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package v2display

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPIBus adapts a periph.io SPI port with a data/command GPIO pin to the
// Bus interface.
//
// Transfers through periph block until the kernel driver completed them, so
// Done always reports true and a print returns only after its last burst is
// on the wire. A transport with a real offload engine implements Bus
// directly instead.
type SPIBus struct {
	c         conn.Conn
	dc        gpio.PinOut
	maxTxSize int
}

// NewSPIBus opens the port at the given frequency in 4-wire mode. Pass 0
// to use the 60 MHz the panels are specified for.
func NewSPIBus(p spi.Port, dc gpio.PinOut, f physic.Frequency) (*SPIBus, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, fmt.Errorf("v2display: a data/command pin is required")
	}
	if f == 0 {
		f = 60 * physic.MegaHertz
	}
	c, err := p.Connect(f, spi.Mode2, 8)
	if err != nil {
		return nil, err
	}
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize == 0 {
		maxTxSize = 4096
	}
	if err := dc.Out(gpio.High); err != nil {
		return nil, err
	}
	return &SPIBus{c: c, dc: dc, maxTxSize: maxTxSize}, nil
}

func (b *SPIBus) String() string {
	return fmt.Sprintf("v2display.SPIBus{%s, %s}", b.c, b.dc)
}

// Begin implements Bus. The port owns the chip select line and asserts it
// per transfer; there is nothing to acquire.
func (b *SPIBus) Begin() error {
	return nil
}

// WriteCommand implements Bus. The command byte goes out with D/C low, the
// arguments with D/C high.
func (b *SPIBus) WriteCommand(cmd byte, args ...byte) error {
	if err := b.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := b.c.Tx([]byte{cmd}, nil); err != nil {
		return err
	}
	if err := b.dc.Out(gpio.High); err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return b.c.Tx(args, nil)
}

// Write implements Bus, splitting bursts that exceed the port's transfer
// size limit.
func (b *SPIBus) Write(p []byte) error {
	for len(p) > 0 {
		n := len(p)
		if n > b.maxTxSize {
			n = b.maxTxSize
		}
		if err := b.c.Tx(p[:n], nil); err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Done implements Bus.
func (b *SPIBus) Done() bool {
	return true
}

// End implements Bus.
func (b *SPIBus) End() error {
	return nil
}

var _ Bus = &SPIBus{}
