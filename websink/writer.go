// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package websink

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
)

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [34]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", buf[:])
}

// frameWriter emits a neverending MIME multipart stream, one part per
// frame, each closed with the boundary line by the time writeFrame returns
// so the client can render it immediately.
//
// Go's "mime/multipart".Writer is built for finite messages; as of Go 1.17
// it holds the part-ending boundary back until the next part or the final
// close, which would leave every frame stuck in the peer's buffer.
type frameWriter struct {
	u        io.Writer
	boundary string
	started  bool
}

func newFrameWriter(u io.Writer) *frameWriter {
	return &frameWriter{
		u:        u,
		boundary: randomBoundary(),
	}
}

// writeFrame sends a single frame of the given type. The frame headers are
// fixed; a panel stream has no use for client-specific headers per part.
func (w *frameWriter) writeFrame(contentType string, body []byte) error {
	var buf bytes.Buffer

	if !w.started {
		fmt.Fprintf(&buf, "--%s\r\n", w.boundary)
		w.started = true
	}

	fmt.Fprintf(&buf, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(body))
	buf.WriteString("Content-Transfer-Encoding: binary\r\n\r\n")

	if _, err := buf.WriteTo(w.u); err != nil {
		return err
	}
	if _, err := w.u.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w.u, "\r\n--%s\r\n", w.boundary)
	return err
}
