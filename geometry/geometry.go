// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geometry reconciles the viewport, the camera stream size and
// the device orientation into the crop applied to each captured frame.
package geometry

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidInput is returned when a viewport or stream size cannot be
// used to compute a layout.
var ErrInvalidInput = errors.New("invalid geometry input")

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Valid returns whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Point returns s as an image.Point.
func (s Size) Point() image.Point { return image.Point{X: s.W, Y: s.H} }

// Orientation types reported by a display.
const (
	LandscapePrimary   = "landscape-primary"
	LandscapeSecondary = "landscape-secondary"
	PortraitPrimary    = "portrait-primary"
	PortraitSecondary  = "portrait-secondary"
)

// Orientation is a display orientation. Type values other than the four
// defined orientation types are retained but are not recognized by
// Resolve.
type Orientation struct {
	Type  string
	Angle int
}

func (o Orientation) String() string { return fmt.Sprintf("%s, %d", o.Type, o.Angle) }

// Known returns whether the orientation type is one of the defined types.
func (o Orientation) Known() bool {
	switch o.Type {
	case LandscapePrimary, LandscapeSecondary, PortraitPrimary, PortraitSecondary:
		return true
	}
	return false
}

// IsLandscape returns whether o is a landscape variant.
func (o Orientation) IsLandscape() bool {
	return o.Type == LandscapePrimary || o.Type == LandscapeSecondary
}

// IsSecondary returns whether o is a secondary variant.
func (o Orientation) IsSecondary() bool {
	return o.Type == LandscapeSecondary || o.Type == PortraitSecondary
}

// Rotations is the cycle of orientations a device passes through when
// rotated clockwise a quarter turn at a time, with their angles.
var Rotations = []Orientation{
	{Type: PortraitPrimary, Angle: 0},
	{Type: LandscapePrimary, Angle: 90},
	{Type: PortraitSecondary, Angle: 180},
	{Type: LandscapeSecondary, Angle: 270},
}

// Next returns the orientation a quarter turn clockwise from o. An
// unrecognized orientation advances to the first of Rotations.
func (o Orientation) Next() Orientation {
	for i, r := range Rotations {
		if r.Type == o.Type {
			return Rotations[(i+1)%len(Rotations)]
		}
	}
	return Rotations[0]
}

// ForSize returns the primary orientation matching the aspect of s.
func ForSize(s Size) Orientation {
	if s.W >= s.H {
		return Rotations[1]
	}
	return Rotations[0]
}

// Turn is the quarter turn applied to a captured frame to present it.
type Turn int

const (
	None Turn = iota
	Clockwise
	CounterClockwise
)

// Layout is the resolved placement of the working buffer over the
// displayed camera frame.
type Layout struct {
	// Buffer is the size of the working buffer.
	Buffer Size
	// Offset is the position of the working buffer within the
	// displayed frame.
	Offset image.Point
	// Swapped indicates that the displayed frame has the stream's
	// axes exchanged.
	Swapped bool
	// Turn is the rotation from stream to displayed frame.
	Turn Turn
}

// Crop returns the region of the displayed frame covered by the working
// buffer.
func (l Layout) Crop() image.Rectangle {
	return image.Rectangle{Min: l.Offset, Max: l.Offset.Add(l.Buffer.Point())}
}

// Displayed returns the size of the stream frame as presented, given
// whether the axes are swapped.
func Displayed(stream Size, swapped bool) Size {
	if swapped {
		return Size{W: stream.H, H: stream.W}
	}
	return stream
}

// Resolve computes the layout of the working buffer for the given
// viewport, stream size and orientation.
//
// The displayed frame has the stream's axes swapped when a landscape
// stream is shown in a portrait orientation or a portrait stream in a
// landscape orientation. The buffer takes the viewport's aspect ratio
// and is fitted within the displayed frame with one dimension pinned to
// the frame. The offset centers the buffer within the frame.
//
// If o is not a recognized orientation, the offset, swap and turn of
// prev are retained and only the buffer size is recomputed.
func Resolve(viewport, stream Size, o Orientation, prev Layout) (Layout, error) {
	if !viewport.Valid() {
		return Layout{}, fmt.Errorf("%w: viewport %v", ErrInvalidInput, viewport)
	}
	if !stream.Valid() {
		return Layout{}, fmt.Errorf("%w: stream %v", ErrInvalidInput, stream)
	}

	if !o.Known() {
		prev.Buffer = Fit(viewport, Displayed(stream, prev.Swapped))
		return prev, nil
	}

	swapped := (stream.W > stream.H) != o.IsLandscape()
	frame := Displayed(stream, swapped)
	buf := Fit(viewport, frame)
	l := Layout{
		Buffer: buf,
		Offset: image.Point{
			X: (frame.W - buf.W) / 2,
			Y: (frame.H - buf.H) / 2,
		},
		Swapped: swapped,
	}
	if swapped {
		l.Turn = Clockwise
		if o.IsSecondary() {
			l.Turn = CounterClockwise
		}
	}
	return l, nil
}

// Fit returns the largest size with the aspect ratio of viewport that
// fits within frame. One dimension of the result equals the
// corresponding dimension of frame.
func Fit(viewport, frame Size) Size {
	if !viewport.Valid() || !frame.Valid() {
		return Size{}
	}
	if viewport.W*frame.H >= viewport.H*frame.W {
		// Viewport is relatively wider; pin width.
		return Size{W: frame.W, H: frame.W * viewport.H / viewport.W}
	}
	return Size{W: frame.H * viewport.W / viewport.H, H: frame.H}
}
