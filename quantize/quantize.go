// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quantize implements vertical resolution reduction of RGBA
// images by row bucketing.
package quantize

import "image"

// Rows writes into dst a copy of src where each group of interval rows
// takes the color of the first row in the group. The alpha channel of
// every destination pixel is set to fully opaque.
//
// If dst is nil or its bounds do not match src, a new image is
// allocated. An interval less than one is treated as one. The returned
// image has its origin at (0, 0).
func Rows(dst, src *image.RGBA, interval int) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h || dst.Rect.Min != (image.Point{}) {
		dst = image.NewRGBA(image.Rectangle{Max: image.Point{X: w, Y: h}})
	}
	if interval < 1 {
		interval = 1
	}
	for y := range h {
		sy := SourceRow(y, interval, h)
		srow := src.Pix[sy*src.Stride : sy*src.Stride+4*w]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+4*w]
		for i := 0; i < len(drow); i += 4 {
			drow[i+0] = srow[i+0]
			drow[i+1] = srow[i+1]
			drow[i+2] = srow[i+2]
			drow[i+3] = 0xff
		}
	}
	return dst
}

// SourceRow returns the row of an image of height h that supplies
// destination row y for the given interval. The result is clamped to
// [0, h).
func SourceRow(y, interval, h int) int {
	if interval < 1 {
		interval = 1
	}
	r := (y / interval) * interval
	switch {
	case r < 0:
		return 0
	case r >= h:
		return max(h-1, 0)
	}
	return r
}
