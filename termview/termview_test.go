// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"strings"
	"testing"

	v2display "github.com/versioduo/V2Display"
)

func pixel(c v2display.Color) []byte {
	return []byte{byte(uint16(c) >> 8), byte(uint16(c))}
}

func TestWriteWindow(t *testing.T) {
	var out bytes.Buffer
	s := New(&Opts{W: 4, H: 4, Writer: &out})

	if _, _, err := s.SetOrientation(v2display.Rotate0); err != nil {
		t.Fatalf("SetOrientation: %v", err)
	}
	if err := s.SetWindow(1, 1, 2, 2); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}

	var stream []byte
	for _, c := range []v2display.Color{v2display.Red, v2display.Green, v2display.Blue, v2display.White} {
		stream = append(stream, pixel(c)...)
	}
	if err := s.Write(stream); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := []v2display.Color{
		0, 0, 0, 0,
		0, v2display.Red, v2display.Green, 0,
		0, v2display.Blue, v2display.White, 0,
		0, 0, 0, 0,
	}
	for i, c := range want {
		if s.fb[i] != c {
			t.Errorf("pixel %d/%d = %#04x, want %#04x", i%4, i/4, uint16(s.fb[i]), uint16(c))
		}
	}
}

func TestWritePartialPixel(t *testing.T) {
	var out bytes.Buffer
	s := New(&Opts{W: 2, H: 1, Writer: &out})
	if _, _, err := s.SetOrientation(v2display.Rotate0); err != nil {
		t.Fatalf("SetOrientation: %v", err)
	}
	if err := s.SetWindow(0, 0, 2, 1); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}

	// A pixel split across two Write calls must survive the boundary.
	raw := pixel(v2display.Yellow)
	if err := s.Write(raw[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(raw[1:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if s.fb[0] != v2display.Yellow {
		t.Errorf("pixel = %#04x, want yellow", uint16(s.fb[0]))
	}
}

func TestWindowWraps(t *testing.T) {
	var out bytes.Buffer
	s := New(&Opts{W: 2, H: 2, Writer: &out})
	if _, _, err := s.SetOrientation(v2display.Rotate0); err != nil {
		t.Fatalf("SetOrientation: %v", err)
	}
	if err := s.SetWindow(0, 0, 1, 1); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}

	// The second pixel wraps around within the window and overwrites the
	// first, like controller RAM does.
	stream := append(pixel(v2display.Red), pixel(v2display.Blue)...)
	if err := s.Write(stream); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if s.fb[0] != v2display.Blue {
		t.Errorf("pixel = %#04x, want blue", uint16(s.fb[0]))
	}
	if s.fb[1] != 0 || s.fb[2] != 0 {
		t.Error("pixels outside the window modified")
	}
}

func TestSetOrientationSwaps(t *testing.T) {
	var out bytes.Buffer
	s := New(&Opts{W: 3, H: 5, Writer: &out})

	w, h, err := s.SetOrientation(v2display.Rotate90)
	if err != nil {
		t.Fatalf("SetOrientation: %v", err)
	}
	if w != 5 || h != 3 {
		t.Errorf("size = %dx%d, want 5x3", w, h)
	}
	if len(s.fb) != 15 {
		t.Errorf("framebuffer size = %d, want 15", len(s.fb))
	}

	if _, _, err := s.SetOrientation(v2display.Rotation(1)); err == nil {
		t.Error("unsupported rotation accepted")
	}
}

func TestEndRefreshes(t *testing.T) {
	var out bytes.Buffer
	s := New(&Opts{W: 2, H: 2, Writer: &out})
	if _, _, err := s.SetOrientation(v2display.Rotate0); err != nil {
		t.Fatalf("SetOrientation: %v", err)
	}
	if err := s.SetWindow(0, 0, 2, 2); err != nil {
		t.Fatalf("SetWindow: %v", err)
	}
	if err := s.Write(bytes.Repeat(pixel(v2display.White), 4)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "\033[H") {
		t.Error("frame does not home the cursor")
	}
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("frame has %d rows, want 2", n)
	}
}
