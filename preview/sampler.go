// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/kortschak/scanline/geometry"
)

// Sample copies the region of frame selected by l into the origin of
// dst. The frame is turned by l.Turn before the crop is applied. If dst
// is nil or not of size l.Buffer a new image is allocated. Parts of the
// crop that fall outside the frame are left transparent.
func Sample(dst *image.RGBA, frame image.Image, l geometry.Layout) (*image.RGBA, error) {
	if !l.Buffer.Valid() {
		return dst, fmt.Errorf("%w: buffer %v", geometry.ErrInvalidInput, l.Buffer)
	}
	rect := image.Rectangle{Max: l.Buffer.Point()}
	if dst == nil || dst.Rect != rect {
		dst = image.NewRGBA(rect)
	}

	fb := frame.Bounds()
	native := geometry.Size{W: fb.Dx(), H: fb.Dy()}
	shown := native
	if l.Turn != geometry.None {
		shown = geometry.Size{W: native.H, H: native.W}
	}
	if !l.Crop().In(image.Rectangle{Max: shown.Point()}) {
		clear(dst.Pix)
	}

	switch l.Turn {
	case geometry.None:
		draw.Draw(dst, rect, frame, fb.Min.Add(l.Offset), draw.Src)
	case geometry.Clockwise, geometry.CounterClockwise:
		turn(dst, frame, l.Offset, l.Turn)
	default:
		return dst, fmt.Errorf("invalid turn %d", l.Turn)
	}
	return dst, nil
}

// turn copies into dst the frame rotated a quarter turn, reading the
// rotated frame from offset.
func turn(dst *image.RGBA, frame image.Image, offset image.Point, t geometry.Turn) {
	fb := frame.Bounds()
	fw, fh := fb.Dx(), fb.Dy()
	src := func(x, y int) (sx, sy int) {
		if t == geometry.Clockwise {
			return y, fh - 1 - x
		}
		return fw - 1 - y, x
	}
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	rgba, fast := frame.(*image.RGBA)
	for y := range h {
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for x := range w {
			sx, sy := src(x+offset.X, y+offset.Y)
			if sx < 0 || sx >= fw || sy < 0 || sy >= fh {
				continue
			}
			sx += fb.Min.X
			sy += fb.Min.Y
			if fast {
				i := rgba.PixOffset(sx, sy)
				copy(drow[4*x:4*x+4], rgba.Pix[i:i+4])
				continue
			}
			c := color4(frame, sx, sy)
			copy(drow[4*x:4*x+4], c[:])
		}
	}
}

func color4(img image.Image, x, y int) [4]uint8 {
	r, g, b, a := img.At(x, y).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
