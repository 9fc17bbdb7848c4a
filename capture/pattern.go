// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capture

import (
	"image"
	"sync"
)

// patternSource synthesizes frames on demand. Each frame has a
// horizontal color ramp with a vertical ramp that scrolls one row per
// frame.
type patternSource struct {
	desc Descriptor

	mu     sync.Mutex
	warmup int
	limit  int
	n      int
	closed bool
	frame  *image.RGBA
}

func newPatternSource(desc Descriptor, warmup, frames int) *patternSource {
	return &patternSource{
		desc:   desc,
		warmup: warmup,
		limit:  frames,
		frame:  image.NewRGBA(image.Rectangle{Max: desc.Size()}),
	}
}

func (s *patternSource) Descriptor() Descriptor { return s.desc }

func (s *patternSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || (s.limit > 0 && s.n >= s.limit) {
		return StateEnded
	}
	return StateLive
}

func (s *patternSource) Frame(dst *image.RGBA) (*image.RGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return dst, false
	}
	if s.warmup > 0 {
		s.warmup--
		return dst, false
	}
	if s.limit > 0 && s.n >= s.limit {
		return dst, false
	}
	drawPattern(s.frame, s.n)
	s.n++
	return copyFrame(dst, s.frame), true
}

func (s *patternSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// drawPattern renders frame n of the test pattern into img.
func drawPattern(img *image.RGBA, n int) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		g := uint8(((y + n) % h) * 255 / max(h-1, 1))
		for x := range w {
			i := 4 * x
			row[i+0] = uint8(x * 255 / max(w-1, 1))
			row[i+1] = g
			row[i+2] = uint8((x ^ y) & 0xff)
			row[i+3] = 0xff
		}
	}
}
