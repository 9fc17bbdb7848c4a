// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package capture

import (
	"errors"
	"fmt"
)

// Reason is the cause of a capture acquisition failure.
type Reason int

//go:generate go tool golang.org/x/tools/cmd/stringer -type Reason

const (
	Unknown         Reason = iota
	NotFound               // no capture device or backend
	NotAllowed             // access to the device was denied
	NotReadable            // the device exists but could not be started
	Overconstrained        // no configuration satisfies the constraints
	Aborted                // acquisition was cancelled
)

// Error is a capture acquisition failure.
type Error struct {
	Reason Reason
	// Constraint names the constraint that could not be
	// satisfied for Overconstrained errors.
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Constraint != "" && e.Err != nil:
		return fmt.Sprintf("capture %s (%s): %v", e.Reason, e.Constraint, e.Err)
	case e.Constraint != "":
		return fmt.Sprintf("capture %s (%s)", e.Reason, e.Constraint)
	case e.Err != nil:
		return fmt.Sprintf("capture %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("capture %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// ReasonOf returns the Reason of the first *Error in err's tree, or
// Unknown if there is none.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return Unknown
}
