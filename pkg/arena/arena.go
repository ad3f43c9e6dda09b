// Package arena provides a slot arena addressed by generation-checked handles.
//
// An [Arena] is the sole owner of its records. Every reference between
// records is a [Handle]; freeing a slot bumps its generation, so any handle
// retained after the record was freed no longer resolves. This turns
// use-after-free into a detectable lookup miss instead of silent corruption.
//
// # Usage
//
//	a := arena.New[Block]()
//	h := a.Alloc(&Block{})
//	b, ok := a.Get(h)   // ok == true
//	a.Free(h)
//	_, ok = a.Get(h)    // ok == false: stale handle
//
// Arena is not safe for concurrent use.
package arena

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ErrInvalidHandle is returned by [ParseHandle] for malformed input.
var ErrInvalidHandle = errors.New("invalid handle")

// Handle addresses one record of an [Arena]. The zero value is [Nil] and
// never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the handle that refers to nothing.
var Nil Handle

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool { return h.gen == 0 }

// Index returns the slot index of h.
func (h Handle) Index() int { return int(h.index) }

// String renders h as "<index>.<generation>", or "nil".
func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

// Compare orders handles by index, then generation.
func (h Handle) Compare(o Handle) int {
	if c := cmp.Compare(h.index, o.index); c != 0 {
		return c
	}
	return cmp.Compare(h.gen, o.gen)
}

// ParseHandle parses the output of [Handle.String].
func ParseHandle(s string) (Handle, error) {
	if s == "nil" {
		return Nil, nil
	}
	idx, gen, ok := strings.Cut(s, ".")
	if !ok {
		return Nil, fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	i, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return Nil, fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	g, err := strconv.ParseUint(gen, 10, 32)
	if err != nil || g == 0 {
		return Nil, fmt.Errorf("%w: %q", ErrInvalidHandle, s)
	}
	return Handle{index: uint32(i), gen: uint32(g)}, nil
}

type slot[T any] struct {
	gen uint32
	val *T
}

// Arena stores records of type T.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v and returns its handle. Freed slots are reused first.
func (a *Arena[T]) Alloc(v *T) Handle {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.val = v
		return Handle{index: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{gen: 1, val: v})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

// Get resolves h. It returns false for nil, out-of-range or stale handles.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.val == nil {
		return nil, false
	}
	return s.val, true
}

// Valid reports whether h currently resolves.
func (a *Arena[T]) Valid(h Handle) bool {
	_, ok := a.Get(h)
	return ok
}

// Free releases the record addressed by h. It reports whether h was live.
func (a *Arena[T]) Free(h Handle) bool {
	if !a.Valid(h) {
		return false
	}
	s := &a.slots[h.index]
	s.val = nil
	s.gen++
	if s.gen == 0 { // wrapped; generation 0 is reserved for Nil
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live records.
func (a *Arena[T]) Len() int { return a.live }

// All iterates over live records in slot order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i, s := range a.slots {
			if s.val == nil {
				continue
			}
			if !yield(Handle{index: uint32(i), gen: s.gen}, s.val) {
				return
			}
		}
	}
}
