// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preview

import (
	"errors"
	"image"
	"testing"

	"github.com/kortschak/scanline/capture"
	"github.com/kortschak/scanline/geometry"
)

func TestIntervalPolicy(t *testing.T) {
	tests := []struct {
		policy IntervalPolicy
		start  int
		want   int
	}{
		{policy: Wide, start: 9, want: 1},
		{policy: Wide, start: 4, want: 5},
		{policy: Wide, start: 1, want: 2},
		{policy: Wide, start: 12, want: 1},
		{policy: Narrow, start: 4, want: 2},
		{policy: Narrow, start: 3, want: 4},
		{policy: Narrow, start: 1, want: 2},
	}
	for _, test := range tests {
		if got := test.policy.Next(test.start); got != test.want {
			t.Errorf("unexpected next interval for %+v from %d: got:%d want:%d", test.policy, test.start, got, test.want)
		}
	}
}

func TestIntervalCycle(t *testing.T) {
	s := NewSession(1, Wide, geometry.Size{}, geometry.Orientation{})
	var got []int
	for range 10 {
		got = append(got, s.AdvanceInterval())
	}
	want := []int{2, 3, 4, 5, 6, 7, 8, 9, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected cycle: got:%v want:%v", got, want)
		}
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("narrow")
	if err != nil || p != Narrow {
		t.Errorf("unexpected result: got:%v %v want:%v", p, err, Narrow)
	}
	_, err = PolicyByName("other")
	if err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestNewSessionDefaultInterval(t *testing.T) {
	s := NewSession(0, Wide, geometry.Size{}, geometry.Orientation{})
	if s.Interval != DefaultInterval {
		t.Errorf("unexpected interval: got:%d want:%d", s.Interval, DefaultInterval)
	}
}

func TestSessionGatedOnStream(t *testing.T) {
	s := NewSession(3, Wide, geometry.Size{W: 400, H: 800}, geometry.Orientation{Type: geometry.PortraitPrimary})
	err := s.Resize(geometry.Size{W: 300, H: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Resolved {
		t.Error("unexpected resolved layout without stream")
	}
	err = s.SetStream(capture.Descriptor{Width: 640, Height: 1920})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Resolved {
		t.Fatal("expected resolved layout with stream")
	}
	want := geometry.Layout{
		Buffer: geometry.Size{W: 640, H: 1280},
		Offset: image.Point{X: 0, Y: 320},
	}
	if s.Layout != want {
		t.Errorf("unexpected layout: got:%+v want:%+v", s.Layout, want)
	}
}

func TestSessionResizeResolves(t *testing.T) {
	s := NewSession(3, Wide, geometry.Size{W: 1000, H: 500}, geometry.Orientation{Type: geometry.LandscapePrimary, Angle: 90})
	err := s.SetStream(capture.Descriptor{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Layout.Offset != (image.Point{Y: 60}) {
		t.Errorf("unexpected offset: %v", s.Layout.Offset)
	}
	err = s.Resize(geometry.Size{W: 500, H: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geometry.Layout{
		Buffer: geometry.Size{W: 1080, H: 1080},
		Offset: image.Point{X: 420},
	}
	if s.Layout != want {
		t.Errorf("unexpected layout after resize: got:%+v want:%+v", s.Layout, want)
	}
}

func TestSessionRotate(t *testing.T) {
	s := NewSession(3, Wide, geometry.Size{W: 360, H: 640}, geometry.Orientation{Type: geometry.LandscapePrimary, Angle: 90})
	err := s.SetStream(capture.Descriptor{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Layout.Swapped {
		t.Error("unexpected swap for landscape stream in landscape orientation")
	}
	err = s.Rotate(geometry.Orientation{Type: geometry.PortraitPrimary})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geometry.Layout{
		Buffer:  geometry.Size{W: 1080, H: 1920},
		Swapped: true,
		Turn:    geometry.Clockwise,
	}
	if s.Layout != want {
		t.Errorf("unexpected layout after rotation: got:%+v want:%+v", s.Layout, want)
	}

	prev := s.Layout.Offset
	err = s.Rotate(geometry.Orientation{Type: "face-down"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Layout.Offset != prev {
		t.Errorf("unexpected offset change for unrecognized orientation: got:%v want:%v", s.Layout.Offset, prev)
	}
}

func TestSessionInvalidViewport(t *testing.T) {
	s := NewSession(3, Wide, geometry.Size{W: 1000, H: 500}, geometry.Orientation{Type: geometry.LandscapePrimary})
	err := s.SetStream(capture.Descriptor{Width: 1920, Height: 1080})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prev := s.Layout
	err = s.Resize(geometry.Size{})
	if !errors.Is(err, geometry.ErrInvalidInput) {
		t.Errorf("unexpected error: got:%v want:%v", err, geometry.ErrInvalidInput)
	}
	if s.Resolved {
		t.Error("unexpected resolved layout for empty viewport")
	}
	if s.Layout != prev {
		t.Errorf("unexpected layout change: got:%+v want:%+v", s.Layout, prev)
	}
	err = s.Resize(geometry.Size{W: 1000, H: 500})
	if err != nil || !s.Resolved {
		t.Errorf("expected layout to recover: resolved=%t err=%v", s.Resolved, err)
	}
}
