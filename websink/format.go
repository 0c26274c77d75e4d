// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package websink

import (
	"fmt"
	"mime"
	"strconv"
)

// ImageFormat selects the encoding of the frames sent to clients.
type ImageFormat int

const (
	PNG ImageFormat = iota
	JPEG

	// Raw sends the framebuffer in the panel wire format: big-endian
	// RGB 5:6:5 pixels, row-major, no header. The frame dimensions are
	// carried as Content-Type parameters.
	Raw

	// DefaultFormat is the format used when not set explicitly in options or
	// as a URL parameter.
	DefaultFormat = PNG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case Raw:
		return "RGB565"
	default:
		return fmt.Sprint(int(f))
	}
}

// contentType returns the MIME type of a frame of the given size.
func (f ImageFormat) contentType(width, height int) string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	case Raw:
		return mime.FormatMediaType("application/octet-stream", map[string]string{
			"width":  strconv.Itoa(width),
			"height": strconv.Itoa(height),
		})
	}

	return "application/octet-stream"
}

// ImageFormatFromString returns the ImageFormat value for the given format
// abbreviation.
func ImageFormatFromString(value string) (ImageFormat, error) {
	switch value {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "raw", "rgb565":
		return Raw, nil
	}

	return DefaultFormat, fmt.Errorf("unrecognized image format %q", value)
}
