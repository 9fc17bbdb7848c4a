// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preview implements the scanline preview pipeline: sampling
// camera frames into a working buffer laid out by the geometry package,
// quantizing its rows and presenting the result, once per display
// refresh.
package preview

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/kortschak/scanline/capture"
	"github.com/kortschak/scanline/geometry"
	"github.com/kortschak/scanline/internal/ring"
	"github.com/kortschak/scanline/quantize"
)

// Display is a presentation surface.
type Display interface {
	// Present shows img. The image is reused by the caller after
	// Present returns.
	Present(img *image.RGBA)
	// Status shows human-readable status text.
	Status(text string)
}

// State is the state of a Driver.
type State int

//go:generate go tool golang.org/x/tools/cmd/stringer -type State

const (
	Idle State = iota
	Running
)

// Overlay draws status text onto a presented image.
type Overlay func(img *image.RGBA, status string)

// Driver runs the per-frame pipeline for a Session. A Driver must only
// be used from a single goroutine.
type Driver struct {
	sess    *Session
	display Display
	overlay Overlay

	state  State
	src    capture.Source
	failed error

	frame, work, out *image.RGBA

	last      time.Time
	intervals *ring.Buffer[time.Duration]
	presented uint64
	dropped   uint64
}

// Option is a Driver option.
type Option func(*Driver)

// WithOverlay sets a function to draw status text onto each presented
// frame.
func WithOverlay(fn Overlay) Option {
	return func(d *Driver) { d.overlay = fn }
}

// WithHistory sets the number of tick intervals used to estimate the
// frame rate.
func WithHistory(n int) Option {
	return func(d *Driver) { d.intervals = ring.NewBuffer[time.Duration](n) }
}

// NewDriver returns a Driver in the Idle state.
func NewDriver(sess *Session, display Display, opts ...Option) *Driver {
	d := &Driver{
		sess:      sess,
		display:   display,
		intervals: ring.NewBuffer[time.Duration](60),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Session returns the driver's session.
func (d *Driver) Session() *Session { return d.sess }

// State returns the driver's state.
func (d *Driver) State() State { return d.state }

// Start moves the driver from Idle to Running with src as its frame
// source.
func (d *Driver) Start(src capture.Source) error {
	if d.state != Idle {
		return errors.New("driver already running")
	}
	err := d.sess.SetStream(src.Descriptor())
	d.src = src
	d.state = Running
	d.failed = nil
	Logger().Info("preview running", "stream", src.Descriptor().ID, "label", src.Descriptor().Label)
	return err
}

// Fail records a capture acquisition failure. The driver stays Idle.
func (d *Driver) Fail(err error) {
	d.failed = err
	Logger().Error("capture acquisition failed", "reason", capture.ReasonOf(err), "error", err)
}

// Ended returns whether the driver's stream has ended.
func (d *Driver) Ended() bool {
	return d.src != nil && d.src.State() == capture.StateEnded
}

// Apply applies a control command to the driver's session.
func (d *Driver) Apply(cmd Command) error {
	return cmd.apply(d)
}

// Tick runs one refresh of the pipeline: it updates the status text and,
// when Running with a frame available, samples, quantizes and presents a
// frame. Failures within a tick are logged and the frame is dropped.
// Tick reports whether a frame was presented.
func (d *Driver) Tick(now time.Time) (presented bool) {
	if !d.last.IsZero() {
		d.intervals.Push(now.Sub(d.last))
	}
	d.last = now

	status := d.Status()
	d.display.Status(status)
	if d.state != Running {
		return false
	}

	defer func() {
		r := recover()
		if r != nil {
			d.dropped++
			Logger().Error("dropped frame", "panic", r)
			presented = false
		}
	}()
	ok, err := d.render(status)
	if err != nil {
		d.dropped++
		Logger().Warn("dropped frame", "error", err)
		return false
	}
	if ok {
		d.presented++
	}
	return ok
}

func (d *Driver) render(status string) (bool, error) {
	if !d.sess.Resolved {
		return false, nil
	}
	frame, ok := d.src.Frame(d.frame)
	d.frame = frame
	if !ok {
		return false, nil
	}
	work, err := Sample(d.work, frame, d.sess.Layout)
	if err != nil {
		return false, fmt.Errorf("failed to sample frame: %w", err)
	}
	d.work = work
	d.out = quantize.Rows(d.out, d.work, d.sess.Interval)
	if d.overlay != nil {
		d.overlay(d.out, status)
	}
	d.display.Present(d.out)
	return true, nil
}

// Close releases the driver's source.
func (d *Driver) Close() error {
	if d.src == nil {
		return nil
	}
	err := d.src.Close()
	if err != nil {
		return fmt.Errorf("failed to close source: %w", err)
	}
	return nil
}

// Stats holds driver frame counters.
type Stats struct {
	Presented uint64
	Dropped   uint64
	// FPS is the tick rate over the recent history.
	FPS float64
}

// Stats returns the driver's frame counters.
func (d *Driver) Stats() Stats {
	var sum time.Duration
	d.intervals.Do(func(v time.Duration) { sum += v })
	var fps float64
	if sum > 0 {
		fps = float64(d.intervals.Len()) / sum.Seconds()
	}
	return Stats{Presented: d.presented, Dropped: d.dropped, FPS: fps}
}

// Status returns the status text for the current session state.
func (d *Driver) Status() string {
	s := d.sess
	var camera string
	switch {
	case s.Stream != nil && d.Ended():
		camera = fmt.Sprintf("(%d, %d) ended", s.Stream.Width, s.Stream.Height)
	case s.Stream != nil:
		camera = fmt.Sprintf("(%d, %d)", s.Stream.Width, s.Stream.Height)
	case d.failed != nil:
		camera = fmt.Sprintf("failed: %s", capture.ReasonOf(d.failed))
	default:
		camera = "waiting"
	}
	buf := geometry.Size{}
	if s.Resolved {
		buf = s.Layout.Buffer
	}
	return fmt.Sprintf(" window (%d, %d)\n"+
		" buffer (%d, %d)\n"+
		" camera %s\n"+
		" offset (%d, %d)\n"+
		"\n"+
		" orientation (%s, %d)\n"+
		"\n"+
		" interval %d  %.1f fps",
		s.Viewport.W, s.Viewport.H,
		buf.W, buf.H,
		camera,
		s.Layout.Offset.X, s.Layout.Offset.Y,
		s.Orientation.Type, s.Orientation.Angle,
		s.Interval, d.Stats().FPS,
	)
}
