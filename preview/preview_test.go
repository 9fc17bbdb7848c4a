// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preview

import (
	"image"
	"image/color"
	"sync"

	"github.com/kortschak/scanline/capture"
)

// fakeSource is a capture.Source returning a fixed image. The ready
// function is called with the zero-based index of each Frame call to
// decide whether a frame is available; a nil ready is always ready.
type fakeSource struct {
	mu     sync.Mutex
	desc   capture.Descriptor
	img    *image.RGBA
	ready  func(call int) bool
	calls  int
	limit  int
	closed bool
}

func newFakeSource(img *image.RGBA, ready func(int) bool) *fakeSource {
	return &fakeSource{
		desc: capture.Descriptor{
			ID:     "fake",
			Label:  "fake",
			Width:  img.Rect.Dx(),
			Height: img.Rect.Dy(),
		},
		img:   img,
		ready: ready,
	}
}

func (s *fakeSource) Descriptor() capture.Descriptor { return s.desc }

func (s *fakeSource) State() capture.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (s.limit > 0 && s.calls >= s.limit) {
		return capture.StateEnded
	}
	return capture.StateLive
}

func (s *fakeSource) Frame(dst *image.RGBA) (*image.RGBA, bool) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()
	if s.ready != nil && !s.ready(call) {
		return dst, false
	}
	if dst == nil || dst.Rect != s.img.Rect {
		dst = image.NewRGBA(s.img.Rect)
	}
	copy(dst.Pix, s.img.Pix)
	return dst, true
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *fakeSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// recorder is a Display retaining copies of everything presented.
type recorder struct {
	mu     sync.Mutex
	frames []*image.RGBA
	status []string
}

func (r *recorder) Present(img *image.RGBA) {
	c := image.NewRGBA(img.Rect)
	copy(c.Pix, img.Pix)
	r.mu.Lock()
	r.frames = append(r.frames, c)
	r.mu.Unlock()
}

func (r *recorder) Status(text string) {
	r.mu.Lock()
	r.status = append(r.status, text)
	r.mu.Unlock()
}

func (r *recorder) presented() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// rowImage returns a w×len(rows) image with each row filled with the
// corresponding color.
func rowImage(w int, rows []color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, len(rows)))
	for y, c := range rows {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// coordImage returns an image where each pixel holds its coordinates in
// the red and green channels.
func coordImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 0xff})
		}
	}
	return img
}
