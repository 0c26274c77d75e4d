// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview_test

import (
	"log"

	v2display "github.com/versioduo/V2Display"
	"github.com/versioduo/V2Display/termview"
)

func Example() {
	// The screen is both the transport and the controller.
	screen := termview.New(&termview.Opts{W: 120, H: 120})
	dev, err := v2display.New(screen, screen, &v2display.Opts{W: 120, H: 120})
	if err != nil {
		log.Fatal(err)
	}

	if err := dev.Reset(v2display.Rotate0, v2display.Black); err != nil {
		log.Fatal(err)
	}
	dev.SetArea(0, 0, 120, v2display.Center, v2display.Green, v2display.Black)
	if err := dev.Print("termview"); err != nil {
		log.Fatal(err)
	}
	if err := dev.Drain(); err != nil {
		log.Fatal(err)
	}
}
