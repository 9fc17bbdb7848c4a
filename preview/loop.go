// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kortschak/scanline/capture"
	"github.com/kortschak/scanline/geometry"
)

// Command is a control surface action applied by a Loop between ticks.
type Command interface {
	apply(*Driver) error
}

// Resize reports a new viewport size.
type Resize geometry.Size

func (c Resize) apply(d *Driver) error { return d.sess.Resize(geometry.Size(c)) }

// Rotate reports a new orientation.
type Rotate geometry.Orientation

func (c Rotate) apply(d *Driver) error { return d.sess.Rotate(geometry.Orientation(c)) }

// AdvanceInterval moves the session interval to its next value.
type AdvanceInterval struct{}

func (AdvanceInterval) apply(d *Driver) error {
	i := d.sess.AdvanceInterval()
	Logger().Debug("interval", "value", i)
	return nil
}

// Started reports a successfully acquired source.
type Started struct {
	Source capture.Source
}

func (c Started) apply(d *Driver) error {
	if d.state != Idle {
		return errors.Join(errors.New("driver already running"), c.Source.Close())
	}
	return d.Start(c.Source)
}

// Failed reports a failed source acquisition.
type Failed struct {
	Err error
}

func (c Failed) apply(d *Driver) error {
	d.Fail(c.Err)
	return nil
}

// Config holds Loop parameters.
type Config struct {
	// Refresh is the tick period when Ticks is nil. Defaults to
	// 1/60s.
	Refresh time.Duration
	// Ticks is an optional external clock driving the loop.
	Ticks <-chan time.Time
	// Queue is the command queue length. Defaults to 16.
	Queue int
}

// Loop runs a Driver on its own goroutine. All driver and session state
// is owned by that goroutine.
type Loop struct {
	cmds   chan Command
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start starts a Loop running d. The loop ticks the driver at each
// refresh and applies posted commands between ticks until ctx is
// cancelled, Stop is called or the driver's stream ends. The driver is
// closed when the loop exits.
func Start(ctx context.Context, d *Driver, cfg Config) *Loop {
	if cfg.Queue <= 0 {
		cfg.Queue = 16
	}
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{
		cmds:   make(chan Command, cfg.Queue),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	ticks := cfg.Ticks
	var ticker *time.Ticker
	if ticks == nil {
		refresh := cfg.Refresh
		if refresh <= 0 {
			refresh = time.Second / 60
		}
		ticker = time.NewTicker(refresh)
		ticks = ticker.C
	}
	go func() {
		defer close(l.done)
		if ticker != nil {
			defer ticker.Stop()
		}
		defer func() {
			err := d.Close()
			if err != nil {
				Logger().Warn("closing driver", "error", err)
			}
		}()
		l.run(ctx, d, ticks)
	}()
	return l
}

func (l *Loop) run(ctx context.Context, d *Driver, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-l.cmds:
			err := d.Apply(cmd)
			if err != nil {
				Logger().Warn("command failed", "command", cmd, "error", err)
			}
		case now, ok := <-ticks:
			if !ok {
				return
			}
			d.Tick(now)
			if d.Ended() {
				d.display.Status(d.Status())
				Logger().Info("stream ended, stopping preview")
				return
			}
		}
	}
}

// Post queues cmd for the loop without blocking. It reports whether the
// command was queued; commands posted to a full queue or a stopped loop
// are dropped.
func (l *Loop) Post(cmd Command) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.cmds <- cmd:
		return true
	default:
		Logger().Warn("dropped command", "command", cmd)
		return false
	}
}

// Stop halts the loop and waits for it to exit. It is safe to call Stop
// more than once.
func (l *Loop) Stop() {
	l.once.Do(l.cancel)
	<-l.done
}

// Done returns a channel that is closed when the loop has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }
