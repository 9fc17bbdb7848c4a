// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package capture provides live camera video sources.
//
// A Source is obtained with Open or Acquire from a Config holding the
// capture backend and the requested Constraints. Two backends are
// provided: "ffmpeg", which runs an ffmpeg process reading a video
// device and decoding it to packed RGBA frames, and "pattern", which
// synthesizes a moving test pattern.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"
)

// State is the lifecycle state of a stream.
type State int

const (
	StateLive State = iota
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Descriptor describes an acquired stream.
type Descriptor struct {
	// ID is a unique identifier for the stream.
	ID    string
	Label string

	// Width and Height are the native dimensions of the
	// stream's frames.
	Width, Height int
	FrameRate     float64
	FacingMode    FacingMode
}

// Size returns the frame dimensions of the stream.
func (d Descriptor) Size() image.Point { return image.Point{X: d.Width, Y: d.Height} }

// Source is a live video stream.
type Source interface {
	// Descriptor returns the stream's descriptor.
	Descriptor() Descriptor

	// State returns the current lifecycle state of the stream.
	State() State

	// Frame copies the most recent complete frame into dst and
	// returns it. If dst is nil or has the wrong size a new image is
	// allocated. If no complete frame is available yet, Frame returns
	// dst and false.
	Frame(dst *image.RGBA) (*image.RGBA, bool)

	// Close stops the stream and releases its resources.
	Close() error
}

// Backends.
const (
	FFmpeg  = "ffmpeg"
	Pattern = "pattern"
)

// Config holds the parameters for acquiring a Source.
type Config struct {
	// Backend is the capture backend, FFmpeg or Pattern.
	Backend string

	Constraints Constraints

	// Binary is the ffmpeg executable. Defaults to "ffmpeg".
	Binary string
	// InputFormat is the ffmpeg input format. Defaults to "v4l2".
	InputFormat string
	// Device is the capture device. Defaults to "/dev/video0".
	Device string

	// Warmup is the number of frame requests for which the pattern
	// backend reports no frame available.
	Warmup int
	// Frames is the number of frames the pattern backend produces
	// before ending. Zero is unlimited.
	Frames int

	// Logger receives diagnostics. If nil, nothing is logged.
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Open negotiates cfg's constraints and starts a Source. Acquisition
// failures are returned as *Error.
func Open(ctx context.Context, cfg Config) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Reason: Aborted, Err: err}
	}
	settings, err := cfg.Constraints.Negotiate()
	if err != nil {
		return nil, err
	}
	desc := Descriptor{
		ID:         uuid.NewString(),
		Width:      settings.Width,
		Height:     settings.Height,
		FrameRate:  settings.FrameRate,
		FacingMode: settings.FacingMode,
	}
	switch cfg.Backend {
	case FFmpeg, "":
		return openFFmpeg(ctx, cfg, desc)
	case Pattern:
		desc.Label = "pattern"
		return newPatternSource(desc, cfg.Warmup, cfg.Frames), nil
	default:
		return nil, &Error{Reason: NotFound, Err: fmt.Errorf("unknown backend %q", cfg.Backend)}
	}
}

// Acquire calls Open on a new goroutine and passes its result to done.
// Cancellation of ctx before the source is opened results in an Aborted
// error.
func Acquire(ctx context.Context, cfg Config, done func(Source, error)) {
	go func() {
		src, err := Open(ctx, cfg)
		if err == nil && ctx.Err() != nil {
			err = errors.Join(&Error{Reason: Aborted, Err: ctx.Err()}, src.Close())
			src = nil
		}
		done(src, err)
	}()
}
