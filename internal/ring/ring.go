// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements a fixed size ring buffer that retains the
// most recently written values.
package ring

// Buffer is a ring buffer holding at most Size values. Writing to a full
// buffer overwrites the oldest values.
type Buffer[T any] struct {
	data []T
	head int // index of oldest value
	n    int // number of values held
}

// NewBuffer returns a Buffer able to hold n values.
func NewBuffer[T any](n int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, n)}
}

// Len returns the number of values held.
func (r *Buffer[T]) Len() int { return r.n }

// Size returns the capacity of the buffer.
func (r *Buffer[T]) Size() int { return len(r.data) }

// Push adds v to the buffer, overwriting the oldest value if the
// buffer is full.
func (r *Buffer[T]) Push(v T) {
	if len(r.data) == 0 {
		return
	}
	if r.n < len(r.data) {
		r.data[(r.head+r.n)%len(r.data)] = v
		r.n++
		return
	}
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
}

// Write pushes each value in src in order.
func (r *Buffer[T]) Write(src []T) {
	if len(src) > len(r.data) {
		src = src[len(src)-len(r.data):]
	}
	for _, v := range src {
		r.Push(v)
	}
}

// CopyTo copies the held values, oldest first, into dst and returns the
// number of values copied.
func (r *Buffer[T]) CopyTo(dst []T) int {
	if r.n == 0 {
		return 0
	}
	end := r.head + r.n
	if end <= len(r.data) {
		return copy(dst, r.data[r.head:end])
	}
	n := copy(dst, r.data[r.head:])
	n += copy(dst[n:], r.data[:end-len(r.data)])
	return n
}

// Do calls fn for each held value, oldest first.
func (r *Buffer[T]) Do(fn func(T)) {
	for i := range r.n {
		fn(r.data[(r.head+i)%len(r.data)])
	}
}

// Reset discards all held values.
func (r *Buffer[T]) Reset() {
	r.head = 0
	r.n = 0
}
