// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"strconv"
	"sync"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/kortschak/scanline/geometry"
	"github.com/kortschak/scanline/preview"
)

// display is a preview.Display backed by a Gio window. Presented images
// are copied so the render loop may reuse its buffers.
type display struct {
	w *app.Window

	mu          sync.Mutex
	front, back *image.RGBA
	status      string
}

func newDisplay(w *app.Window) *display {
	return &display{w: w}
}

func (d *display) Present(img *image.RGBA) {
	d.mu.Lock()
	if d.back == nil || d.back.Rect != img.Rect {
		d.back = image.NewRGBA(img.Rect)
	}
	copy(d.back.Pix, img.Pix)
	d.front, d.back = d.back, d.front
	d.mu.Unlock()
	d.w.Invalidate()
}

func (d *display) Status(text string) {
	d.mu.Lock()
	changed := text != d.status
	d.status = text
	d.mu.Unlock()
	if changed {
		d.w.Invalidate()
	}
}

// controls holds the window's control surface state. The interval and
// orientation mirror the values sent to the render loop so they can be
// shown on the buttons.
type controls struct {
	interval int
	policy   preview.IntervalPolicy
	orient   geometry.Orientation
	// follow makes the orientation track the window shape.
	follow  bool
	stamped bool

	size geometry.Size

	intervalBtn widget.Clickable
	rotateBtn   widget.Clickable
}

// update posts commands for any control events in the frame.
func (c *controls) update(gtx layout.Context, lp *preview.Loop) {
	size := geometry.Size{W: gtx.Constraints.Max.X, H: gtx.Constraints.Max.Y}
	if size != c.size {
		c.size = size
		lp.Post(preview.Resize(size))
		if c.follow && size.Valid() {
			if o := geometry.ForSize(size); o.Type != c.orient.Type {
				c.orient = o
				lp.Post(preview.Rotate(o))
			}
		}
	}
	for c.intervalBtn.Clicked(gtx) {
		c.interval = c.policy.Next(c.interval)
		lp.Post(preview.AdvanceInterval{})
	}
	for c.rotateBtn.Clicked(gtx) {
		c.follow = false
		c.orient = c.orient.Next()
		lp.Post(preview.Rotate(c.orient))
	}
}

func loop(w *app.Window, disp *display, lp *preview.Loop, ui *controls) error {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	events := make(chan event.Event)
	ack := make(chan struct{})

	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-ack
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	var ops op.Ops
	done := lp.Done()
	running := true
	for {
		select {
		case <-done:
			// Keep showing the last frame and status after the
			// stream has ended.
			done = nil
			running = false
			w.Invalidate()
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				ack <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				if running {
					ui.update(gtx, lp)
				}
				disp.mu.Lock()
				layoutPreview(gtx, th, disp.front, disp.status, ui)
				e.Frame(gtx.Ops)
				disp.mu.Unlock()
			}
			ack <- struct{}{}
		}
	}
}

func layoutPreview(gtx layout.Context, th *material.Theme, img *image.RGBA, status string, ui *controls) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{A: 0xff})
	return layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			if img != nil {
				layout.Center.Layout(gtx, widget.Image{
					Src: paint.NewImageOp(img),
					Fit: widget.Contain,
				}.Layout)
			}
			return layout.Dimensions{Size: gtx.Constraints.Max}
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			if ui.stamped {
				return layout.Dimensions{}
			}
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body2(th, status)
				lbl.Color = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
				return lbl.Layout(gtx)
			})
		}),
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.SE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceStart}.Layout(gtx,
						layout.Rigid(material.Button(th, &ui.rotateBtn, "rotate").Layout),
						layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
						layout.Rigid(material.Button(th, &ui.intervalBtn, strconv.Itoa(ui.interval)).Layout),
					)
				})
			})
		}),
	)
}
