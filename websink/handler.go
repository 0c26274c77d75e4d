// Copyright 2022 The V2Display Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package websink

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
	"log"
	"mime"
	"net/http"
	"net/url"
	"sync"
)

// bufferPool stores reusable []byte instances.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

var jpegOptions = jpeg.Options{
	Quality: 90,
}

type imageConfig struct {
	format ImageFormat
}

func (p *Panel) configFromQuery(values url.Values) (imageConfig, error) {
	cfg := imageConfig{
		format: p.defaultFormat,
	}

	if value := values.Get("format"); value != "" {
		format, err := ImageFormatFromString(value)
		if err != nil {
			return imageConfig{}, err
		}
		cfg.format = format
	}

	return cfg, nil
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (p *Panel) bufferChangedLocked() {
	for cfg, buffer := range p.snapshot {
		if buffer != nil {
			//lint:ignore SA6002 buffer is []byte and thus pointer-like
			bufferPool.Put(buffer)
		}

		delete(p.snapshot, cfg)
	}

	for c := range p.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (p *Panel) terminateClientsLocked() {
	for c := range p.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

func (p *Panel) encodeBufferLocked(format ImageFormat) ([]byte, error) {
	buf := bytes.NewBuffer(bufferPool.Get().([]byte)[:0])

	switch format {
	case PNG:
		if err := pngEncoder.get().Encode(buf, &frame{p.fb, p.width, p.height}); err != nil {
			return nil, err
		}

	case JPEG:
		if err := jpeg.Encode(buf, &frame{p.fb, p.width, p.height}, &jpegOptions); err != nil {
			return nil, err
		}

	case Raw:
		var pix [2]byte
		for _, c := range p.fb {
			binary.BigEndian.PutUint16(pix[:], uint16(c))
			buf.Write(pix[:])
		}

	default:
		return nil, fmt.Errorf("unhandled image format %s", format)
	}

	return buf.Bytes(), nil
}

// grabSnapshot returns an encoded copy of the framebuffer plus the content
// type describing it. Encoding happens once per framebuffer change and
// format; further clients are served from the snapshot cache.
func (p *Panel) grabSnapshot(cfg imageConfig) ([]byte, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	encoded, ok := p.snapshot[cfg]
	if !ok {
		var err error

		encoded, err = p.encodeBufferLocked(cfg.format)
		if err != nil {
			panic(fmt.Sprintf("encoding image failed: %v", err))
		}
		p.snapshot[cfg] = encoded
	}

	payload := append(bufferPool.Get().([]byte)[:0], encoded...)
	return payload, cfg.format.contentType(p.width, p.height)
}

// ServeHTTP handles HTTP GET requests and sends a stream of frames
// representing the panel content in response. The panel options control
// the default format and clients can explicitly request PNG, JPEG or the
// raw framebuffer using the "format" parameter ("?format=png",
// "?format=jpeg", "?format=raw").
func (p *Panel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		log.Printf("Closing request body failed: %v", err)
	}

	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	cfg, err := p.configFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fw := newFrameWriter(w)

	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": fw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}

	p.mu.Lock()
	p.clients[c] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.clients, c)
		p.mu.Unlock()
	}()

	for {
		// The content type travels per frame; an orientation change in
		// between resizes the raw frames.
		payload, contentType := p.grabSnapshot(cfg)
		err := fw.writeFrame(contentType, payload)

		if payload != nil {
			//lint:ignore SA6002 buffer is []byte and thus pointer-like
			bufferPool.Put(payload)
		}

		if err != nil {
			// Errors cause the request to be silently terminated. There's no
			// good way to deliver an error message to the client within an
			// image stream.
			return
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
