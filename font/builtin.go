// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package font

import (
	"sync"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	builtinOnce sync.Once
	builtinSet  *Set
)

// Point sizes of the builtin variants, sized for the default 60 pixel row
// with the baseline at 45. The narrower variants stand in for condensed
// faces: what matters to the fallback logic is the decreasing average
// advance, not the cut of the typeface.
var builtinSizes = [3]float64{38, 32, 26}

// DefaultSet returns the builtin font set, rasterized once from the Go
// Regular typeface. It panics if the compiled-in typeface cannot be parsed,
// which indicates a corrupted build.
func DefaultSet() *Set {
	builtinOnce.Do(func() {
		tt, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic("font: parsing builtin typeface: " + err.Error())
		}
		s := &Set{
			RowHeight: DefaultRowHeight,
			Baseline:  DefaultBaseline,
		}
		for i, size := range builtinSizes {
			face := truetype.NewFace(tt, &truetype.Options{
				Size:    size,
				DPI:     72,
				Hinting: xfont.HintingFull,
			})
			f, err := FromFace(face)
			if err != nil {
				panic("font: building builtin set: " + err.Error())
			}
			s.Fonts[i] = f
		}
		builtinSet = s
	})
	return builtinSet
}
