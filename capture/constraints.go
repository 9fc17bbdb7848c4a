// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capture

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// FacingMode is the direction a camera faces relative to the user.
type FacingMode string

const (
	FacingUser        FacingMode = "user"
	FacingEnvironment FacingMode = "environment"
)

// Constraints are the requested properties of a capture stream. Zero
// values are unconstrained.
type Constraints struct {
	MinWidth, IdealWidth, MaxWidth    int
	MinHeight, IdealHeight, MaxHeight int

	// ExactAspectRatio is the required width/height ratio.
	ExactAspectRatio float64
	MaxFrameRate     float64

	FacingMode FacingMode
}

const (
	defaultWidth     = 640
	defaultHeight    = 480
	defaultFrameRate = 30
)

// Settings are the negotiated properties of a capture stream.
type Settings struct {
	Width, Height int
	FrameRate     float64
	FacingMode    FacingMode
}

// Negotiate returns the settings selected for c. Width is the ideal
// width clamped to the width range; height is derived from the width
// when an exact aspect ratio is given, and is otherwise the ideal height
// clamped to the height range. An unsatisfiable constraint results in an
// Overconstrained *Error.
func (c Constraints) Negotiate() (Settings, error) {
	w, err := pick("width", c.MinWidth, c.IdealWidth, c.MaxWidth, defaultWidth)
	if err != nil {
		return Settings{}, err
	}
	var h int
	if c.ExactAspectRatio != 0 {
		if c.ExactAspectRatio < 0 || math.IsNaN(c.ExactAspectRatio) || math.IsInf(c.ExactAspectRatio, 0) {
			return Settings{}, &Error{Reason: Overconstrained, Constraint: "aspectRatio", Err: fmt.Errorf("invalid ratio %v", c.ExactAspectRatio)}
		}
		h = int(math.Round(float64(w) / c.ExactAspectRatio))
		if h < 1 || (c.MinHeight != 0 && h < c.MinHeight) || (c.MaxHeight != 0 && h > c.MaxHeight) {
			return Settings{}, &Error{Reason: Overconstrained, Constraint: "aspectRatio", Err: fmt.Errorf("height %d for width %d outside range", h, w)}
		}
	} else {
		h, err = pick("height", c.MinHeight, c.IdealHeight, c.MaxHeight, defaultHeight)
		if err != nil {
			return Settings{}, err
		}
	}
	fps := float64(defaultFrameRate)
	if c.MaxFrameRate < 0 {
		return Settings{}, &Error{Reason: Overconstrained, Constraint: "frameRate", Err: fmt.Errorf("invalid maximum %v", c.MaxFrameRate)}
	}
	if c.MaxFrameRate != 0 {
		fps = min(fps, c.MaxFrameRate)
	}
	return Settings{Width: w, Height: h, FrameRate: fps, FacingMode: c.FacingMode}, nil
}

func pick(name string, lo, ideal, hi, def int) (int, error) {
	if lo < 0 || ideal < 0 || hi < 0 || (hi != 0 && lo > hi) {
		return 0, &Error{Reason: Overconstrained, Constraint: name, Err: fmt.Errorf("invalid range min=%d ideal=%d max=%d", lo, ideal, hi)}
	}
	v := ideal
	if v == 0 {
		v = def
	}
	if v < lo {
		v = lo
	}
	if hi != 0 && v > hi {
		v = hi
	}
	return v, nil
}

// Profiles are the named constraint sets understood by Profile.
var Profiles = map[string]Constraints{
	// Rear camera, as wide as available up to 1080p.
	"environment": {
		MinWidth: 640, IdealWidth: 1920, MaxWidth: 1920,
		MinHeight: 400, IdealHeight: 1080,
		MaxFrameRate: 30,
		FacingMode:   FacingEnvironment,
	},
	// Front camera with a fixed 16:9 frame.
	"user": {
		MinWidth: 640, IdealWidth: 1280, MaxWidth: 1920,
		ExactAspectRatio: 16.0 / 9.0,
		MaxFrameRate:     30,
		FacingMode:       FacingUser,
	},
}

// Profile returns the named constraint profile.
func Profile(name string) (Constraints, error) {
	c, ok := Profiles[name]
	if !ok {
		names := make([]string, 0, len(Profiles))
		for n := range Profiles {
			names = append(names, n)
		}
		slices.Sort(names)
		return Constraints{}, fmt.Errorf("unknown profile %q: valid profiles are %s", name, strings.Join(names, ", "))
	}
	return c, nil
}
