// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The scanline command shows a live camera preview with its vertical
// resolution reduced by repeating the first row of each group of rows.
//
// The interval button advances the row interval and the rotate button
// simulates a quarter turn of the display. Without a camera, use
// -source pattern to preview a synthetic test pattern.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"gioui.org/app"

	"github.com/kortschak/scanline/capture"
	"github.com/kortschak/scanline/geometry"
	"github.com/kortschak/scanline/preview"
)

func main() {
	interval := flag.Int("i", preview.DefaultInterval, "initial row interval")
	policyName := flag.String("policy", "wide", "interval policy: wide (1-9) or narrow (2-4)")
	profileName := flag.String("profile", "environment", "capture constraint profile: environment or user")
	backend := flag.String("source", capture.FFmpeg, "capture backend: ffmpeg or pattern")
	device := flag.String("device", "/dev/video0", "capture device")
	format := flag.String("format", "v4l2", "ffmpeg input format")
	ffmpeg := flag.String("ffmpeg", "ffmpeg", "ffmpeg executable")
	orientation := flag.String("orientation", "", "initial orientation type (default follows window shape)")
	fps := flag.Int("fps", 60, "display refresh rate")
	stamp := flag.Bool("stamp", false, "draw status text into the preview image")
	verbose := flag.Bool("v", false, "log debug messages")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	preview.SetLogger(logger)

	policy, err := preview.PolicyByName(*policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	constraints, err := capture.Profile(*profileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if *interval < 1 {
		logger.Warn("invalid interval, using default", "interval", *interval, "default", preview.DefaultInterval)
		*interval = preview.DefaultInterval
	}
	if *fps < 1 {
		flag.Usage()
		os.Exit(2)
	}

	initial := geometry.Size{W: 640, H: 480}
	orient := geometry.ForSize(initial)
	follow := true
	if *orientation != "" {
		orient = geometry.Orientation{Type: *orientation}
		for _, r := range geometry.Rotations {
			if r.Type == *orientation {
				orient = r
			}
		}
		if !orient.Known() {
			logger.Warn("unrecognized orientation", "orientation", *orientation)
		}
		follow = false
	}

	w := new(app.Window)
	w.Option(app.Title("scanline"), app.Size(640, 480))
	disp := newDisplay(w)

	var opts []preview.Option
	if *stamp {
		opts = append(opts, preview.WithOverlay(stampStatus))
	}
	sess := preview.NewSession(*interval, policy, initial, orient)
	drv := preview.NewDriver(sess, disp, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	lp := preview.Start(ctx, drv, preview.Config{Refresh: time.Second / time.Duration(*fps)})

	capture.Acquire(ctx, capture.Config{
		Backend:     *backend,
		Constraints: constraints,
		Binary:      *ffmpeg,
		InputFormat: *format,
		Device:      *device,
		Logger:      logger,
	}, func(src capture.Source, err error) {
		if err != nil {
			lp.Post(preview.Failed{Err: err})
			return
		}
		d := src.Descriptor()
		logger.Info("acquired stream", "id", d.ID, "label", d.Label, "width", d.Width, "height", d.Height)
		if !lp.Post(preview.Started{Source: src}) {
			src.Close()
		}
	})

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		lp.Stop()
		os.Exit(0)
	}()

	go func() {
		ui := &controls{
			interval: *interval,
			policy:   policy,
			orient:   orient,
			follow:   follow,
			stamped:  *stamp,
		}
		if err := loop(w, disp, lp, ui); err != nil {
			log.Fatal(err)
		}
		lp.Stop()
		os.Exit(0)
	}()
	app.Main()
}
