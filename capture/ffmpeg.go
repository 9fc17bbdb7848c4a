// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/kortschak/scanline/internal/rawvideo"
)

type ffmpegSource struct {
	desc Descriptor
	log  *slog.Logger

	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
	stderr *tailBuffer

	state atomic.Int32

	mu     sync.Mutex
	latest *image.RGBA
	ready  bool
	err    error
}

func openFFmpeg(ctx context.Context, cfg Config, desc Descriptor) (*ffmpegSource, error) {
	bin := cfg.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	format := cfg.InputFormat
	if format == "" {
		format = "v4l2"
	}
	device := cfg.Device
	if device == "" {
		device = "/dev/video0"
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, &Error{Reason: NotFound, Err: fmt.Errorf("failed to find ffmpeg: %w", err)}
	}
	if strings.HasPrefix(device, "/") {
		err = checkDevice(device)
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, path, rawvideo.Args(format, device, desc.Width, desc.Height, desc.FrameRate)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, &Error{Reason: NotReadable, Err: fmt.Errorf("failed to open ffmpeg output: %w", err)}
	}
	stderr := &tailBuffer{max: 4096}
	cmd.Stderr = stderr
	err = cmd.Start()
	if err != nil {
		cancel()
		return nil, &Error{Reason: NotReadable, Err: fmt.Errorf("failed to start ffmpeg: %w", err)}
	}

	desc.Label = fmt.Sprintf("%s:%s", format, device)
	s := &ffmpegSource{
		desc:   desc,
		log:    cfg.logger().With("stream", desc.ID, "device", device),
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
		stderr: stderr,
	}
	s.log.Info("started capture", "width", desc.Width, "height", desc.Height, "fps", desc.FrameRate)
	go s.read(ctx, stdout)
	return s, nil
}

func checkDevice(device string) error {
	f, err := os.Open(device)
	switch {
	case err == nil:
		return f.Close()
	case errors.Is(err, fs.ErrNotExist):
		return &Error{Reason: NotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &Error{Reason: NotAllowed, Err: err}
	default:
		return &Error{Reason: NotReadable, Err: err}
	}
}

func (s *ffmpegSource) read(ctx context.Context, r io.Reader) {
	defer close(s.done)
	defer s.state.Store(int32(StateEnded))

	rect := image.Rectangle{Max: s.desc.Size()}
	back := image.NewRGBA(rect)
	var err error
	for {
		err = rawvideo.ReadFrame(r, back)
		if err != nil {
			break
		}
		s.mu.Lock()
		if s.latest == nil {
			s.latest = image.NewRGBA(rect)
		}
		s.latest, back = back, s.latest
		s.ready = true
		s.mu.Unlock()
	}
	waitErr := s.cmd.Wait()
	if ctx.Err() != nil {
		s.log.Debug("capture stopped")
		return
	}
	if err == io.EOF {
		err = nil
	}
	err = errors.Join(err, waitErr)
	if err != nil {
		if msg := strings.TrimSpace(s.stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		s.log.Error("capture ended", "error", err)
	} else {
		s.log.Info("capture ended")
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *ffmpegSource) Descriptor() Descriptor { return s.desc }

func (s *ffmpegSource) State() State { return State(s.state.Load()) }

func (s *ffmpegSource) Frame(dst *image.RGBA) (*image.RGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return dst, false
	}
	return copyFrame(dst, s.latest), true
}

// Close stops the ffmpeg process. It returns any error that ended the
// stream before Close was called.
func (s *ffmpegSource) Close() error {
	s.cancel()
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// copyFrame copies src into dst, allocating a new image if dst is nil
// or the wrong size.
func copyFrame(dst, src *image.RGBA) *image.RGBA {
	if dst == nil || dst.Rect != src.Rect || dst.Stride != src.Stride {
		dst = image.NewRGBA(src.Rect)
	}
	copy(dst.Pix, src.Pix)
	return dst
}

// tailBuffer retains the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf bytes.Buffer
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n, _ := b.buf.Write(p)
	if over := b.buf.Len() - b.max; over > 0 {
		b.buf.Next(over)
	}
	return n, nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
