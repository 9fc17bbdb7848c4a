// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rawvideo provides helper functions for reading packed RGBA
// video frames from a byte stream.
package rawvideo

import (
	"errors"
	"fmt"
	"image"
	"io"
)

// FrameSize returns the number of bytes in a packed RGBA frame of the
// given dimensions.
func FrameSize(w, h int) int { return 4 * w * h }

// ReadFrame fills img from r. The image must have its stride equal to
// four times its width. It returns io.EOF only if no bytes were read
// for the frame.
func ReadFrame(r io.Reader, img *image.RGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride != 4*w {
		return fmt.Errorf("frame is not packed: stride %d for width %d", img.Stride, w)
	}
	n := FrameSize(w, h)
	_, err := io.ReadFull(r, img.Pix[:n])
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("failed to read complete frame: %w", err)
	default:
		return err
	}
}

// Args returns the ffmpeg arguments for capturing from a device at the
// given size and frame rate, writing packed RGBA frames of exactly that
// size to stdout.
func Args(inputFormat, device string, w, h int, fps float64) []string {
	var args []string
	if inputFormat != "" {
		args = append(args, "-f", inputFormat)
	}
	args = append(args,
		"-hide_banner",
		"-loglevel", "error",
		"-framerate", fmt.Sprint(fps),
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-i", device,
		"-vf", fmt.Sprintf("scale=%d:%d,setsar=1:1", w, h),
		"-pix_fmt", "rgba",
		"-f", "rawvideo",
		"pipe:1",
	)
	return args
}
