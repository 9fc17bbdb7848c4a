// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
)

// stampStatus writes the status text into the top left of img with a
// drop shadow so it is legible over any frame.
func stampStatus(img *image.RGBA, status string) {
	font := &freesans.Regular9pt7b
	shim := displayShim{img}
	y := int16(font.YAdvance)
	for _, line := range strings.Split(status, "\n") {
		tinyfont.WriteLine(shim, font, 5, y+1, line, color.RGBA{A: 0xff})
		tinyfont.WriteLine(shim, font, 4, y, line, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		y += int16(font.YAdvance)
	}
}

type displayShim struct {
	// ¯\_(ツ)_/¯
	img draw.Image
}

func (d displayShim) SetPixel(x, y int16, c color.RGBA) {
	d.img.Set(int(x), int(y), c)
}

func (d displayShim) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d displayShim) Display() error { return nil }
