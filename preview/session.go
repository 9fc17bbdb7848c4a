// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preview

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kortschak/scanline/capture"
	"github.com/kortschak/scanline/geometry"
)

// DefaultInterval is the row interval used when none is given.
const DefaultInterval = 3

// IntervalPolicy is a cyclic range of row intervals.
type IntervalPolicy struct {
	Min, Max int
}

var (
	// Wide cycles intervals from 1 to 9.
	Wide = IntervalPolicy{Min: 1, Max: 9}
	// Narrow cycles intervals from 2 to 4.
	Narrow = IntervalPolicy{Min: 2, Max: 4}
)

// Policies are the named interval policies.
var Policies = map[string]IntervalPolicy{
	"wide":   Wide,
	"narrow": Narrow,
}

// PolicyByName returns the named interval policy.
func PolicyByName(name string) (IntervalPolicy, error) {
	p, ok := Policies[name]
	if !ok {
		names := make([]string, 0, len(Policies))
		for n := range Policies {
			names = append(names, n)
		}
		slices.Sort(names)
		return IntervalPolicy{}, fmt.Errorf("unknown interval policy %q: valid policies are %s", name, strings.Join(names, ", "))
	}
	return p, nil
}

// Next returns the interval following i. Intervals above p.Max wrap to
// p.Min.
func (p IntervalPolicy) Next(i int) int {
	lo := max(p.Min, 1)
	i++
	if i > p.Max || i < lo {
		return lo
	}
	return i
}

// Session is the state shared by the render loop and the control
// surface. A Session must only be used from a single goroutine.
type Session struct {
	Viewport    geometry.Size
	Orientation geometry.Orientation

	// Stream is the descriptor of the acquired stream, nil
	// until a stream is started.
	Stream *capture.Descriptor

	// Layout is the most recently resolved layout. It is only
	// valid for sampling when Resolved is true.
	Layout   geometry.Layout
	Resolved bool

	Interval int
	Policy   IntervalPolicy
}

// NewSession returns a Session with the given initial interval and
// policy. Intervals less than one are replaced by DefaultInterval.
func NewSession(interval int, policy IntervalPolicy, viewport geometry.Size, o geometry.Orientation) *Session {
	if interval < 1 {
		interval = DefaultInterval
	}
	return &Session{
		Viewport:    viewport,
		Orientation: o,
		Interval:    interval,
		Policy:      policy,
	}
}

// SetStream records the stream descriptor and resolves the layout.
func (s *Session) SetStream(d capture.Descriptor) error {
	s.Stream = &d
	return s.resolve()
}

// Resize records a new viewport size and re-resolves the layout.
func (s *Session) Resize(size geometry.Size) error {
	s.Viewport = size
	return s.resolve()
}

// Rotate records a new orientation and re-resolves the layout.
func (s *Session) Rotate(o geometry.Orientation) error {
	s.Orientation = o
	return s.resolve()
}

// AdvanceInterval moves the interval to the next value of the policy and
// returns it.
func (s *Session) AdvanceInterval() int {
	s.Interval = s.Policy.Next(s.Interval)
	return s.Interval
}

// resolve recomputes the layout. It is a no-op until a stream is
// present. On failure the previous layout is kept but marked unresolved.
func (s *Session) resolve() error {
	if s.Stream == nil {
		return nil
	}
	stream := geometry.Size{W: s.Stream.Width, H: s.Stream.Height}
	l, err := geometry.Resolve(s.Viewport, stream, s.Orientation, s.Layout)
	if err != nil {
		s.Resolved = false
		return fmt.Errorf("failed to resolve layout: %w", err)
	}
	s.Layout = l
	s.Resolved = true
	return nil
}
