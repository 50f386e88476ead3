// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package simd provides the lane-packed vector primitive that the rest of
// this module's numerical kernels are built from: a fixed-width register of
// float32 lanes, with the handful of element-wise operations (add, sub,
// mul, div, fused multiply-add) that a 128- or 256-bit SIMD register
// exposes.
//
// Go has no const generics over array length, so unlike a real SIMD
// register a Chunk's width is a runtime property rather than a type
// parameter. This mirrors hwy.Vec[T]'s own base-mode representation (a
// slice, not a fixed-size array) and lets Width4 and Width8 chunks share a
// single implementation instead of two copy-pasted ones.
package simd

import "fmt"

// Width is the number of float32 lanes packed into one Chunk. A Chunk
// maps onto a native 128-bit register at Width4 and a 256-bit register at
// Width8; no other widths are supported.
type Width int

const (
	// Width4 packs 4 float32 lanes into a 128-bit register.
	Width4 Width = 4
	// Width8 packs 8 float32 lanes into a 256-bit register.
	Width8 Width = 8
)

// Valid reports whether w is one of the supported register widths.
func (w Width) Valid() bool {
	return w == Width4 || w == Width8
}

// ErrLaneWidth is returned when Pack is given the wrong number of elements
// for the chunk's width. Spec note: this is an internal invariant in the
// source this module is modeled on and aborts there; here it is always a
// typed error, never a panic.
type ErrLaneWidth struct {
	Want Width
	Got  int
}

func (e *ErrLaneWidth) Error() string {
	return fmt.Sprintf("simd: pack expected %d elements, got %d", e.Want, e.Got)
}

// Chunk is one lane-packed register's worth of float32 elements.
//
// The zero Chunk is not valid; use Zero to construct an all-zero chunk of a
// given width. Every lane of a constructed Chunk is always initialized
// (defaulting to +0.0).
type Chunk struct {
	lanes []float32
}

// Zero returns a Chunk of the given width with every lane set to +0.0.
func Zero(w Width) Chunk {
	return Chunk{lanes: make([]float32, w)}
}

// Pack builds a Chunk from exactly Width(w) elements. It returns
// ErrLaneWidth if len(elts) != int(w).
func Pack(w Width, elts []float32) (Chunk, error) {
	if len(elts) != int(w) {
		return Chunk{}, &ErrLaneWidth{Want: w, Got: len(elts)}
	}
	lanes := make([]float32, w)
	copy(lanes, elts)
	return Chunk{lanes: lanes}, nil
}

// Width reports the number of lanes in c.
func (c Chunk) Width() Width {
	return Width(len(c.lanes))
}

// Lanes returns the chunk's elements as a freshly-copied slice, in lane
// order. Callers must not rely on aliasing the chunk's internal storage.
func (c Chunk) Lanes() []float32 {
	out := make([]float32, len(c.lanes))
	copy(out, c.lanes)
	return out
}

// At returns the value of lane i.
func (c Chunk) At(i int) float32 {
	return c.lanes[i]
}

func (c Chunk) binary(o Chunk, op func(a, b float32) float32) Chunk {
	n := min(len(c.lanes), len(o.lanes))
	result := make([]float32, n)
	for i := range n {
		result[i] = op(c.lanes[i], o.lanes[i])
	}
	return Chunk{lanes: result}
}

// Add returns the element-wise sum of c and o.
func (c Chunk) Add(o Chunk) Chunk {
	return c.binary(o, func(a, b float32) float32 { return a + b })
}

// Sub returns the element-wise difference c - o.
func (c Chunk) Sub(o Chunk) Chunk {
	return c.binary(o, func(a, b float32) float32 { return a - b })
}

// Mul returns the element-wise product of c and o.
func (c Chunk) Mul(o Chunk) Chunk {
	return c.binary(o, func(a, b float32) float32 { return a * b })
}

// Div returns the element-wise quotient c / o.
func (c Chunk) Div(o Chunk) Chunk {
	return c.binary(o, func(a, b float32) float32 { return a / b })
}

// ScaleMul returns c with every lane multiplied by the scalar s.
func (c Chunk) ScaleMul(s float32) Chunk {
	result := make([]float32, len(c.lanes))
	for i, v := range c.lanes {
		result[i] = v * s
	}
	return Chunk{lanes: result}
}

// MulAdd returns c*b + acc in one lane-parallel fused multiply-add. Hardware
// without a native FMA instruction must still produce this result; we
// emulate it here with math.FMA in float64 (see fma32) so that the
// reduction kernels built on Chunk get the same precision characteristics
// regardless of lane width.
func (c Chunk) MulAdd(b, acc Chunk) Chunk {
	n := min(len(c.lanes), min(len(b.lanes), len(acc.lanes)))
	result := make([]float32, n)
	for i := range n {
		result[i] = fma32(c.lanes[i], b.lanes[i], acc.lanes[i])
	}
	return Chunk{lanes: result}
}

// Sum horizontally reduces c to a single scalar.
func (c Chunk) Sum() float32 {
	var sum float32
	for _, v := range c.lanes {
		sum += v
	}
	return sum
}

// Equal reports whether c and o are bit-equal across every lane.
func (c Chunk) Equal(o Chunk) bool {
	if len(c.lanes) != len(o.lanes) {
		return false
	}
	for i := range c.lanes {
		if c.lanes[i] != o.lanes[i] {
			return false
		}
	}
	return true
}
