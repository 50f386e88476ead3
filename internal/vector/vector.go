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

// Package vector implements the fixed-dimension vector: an ordered sequence
// of simd.Chunk registers with element iteration, arithmetic, dot product,
// Euclidean distance, and a content-addressable identity hash.
//
// A Vector's dimension is fixed at construction and carried as a runtime
// field rather than a type parameter, since Go has no const generics over
// array length; this is the same tradeoff internal/simd makes for Chunk
// width. Mixing vectors of different dimension or lane width is a runtime
// error here rather than the type error it would be in a language with
// const generics.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/vectorlsh/annlsh/internal/murmur"
	"github.com/vectorlsh/annlsh/internal/simd"
)

// ErrDimensionMismatch is returned when an operation is given two vectors
// of different dimension or lane width.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// CacheID is the 128-bit content identity of a Vector's byte image.
type CacheID struct {
	Lo uint64
	Hi uint64
}

// String renders the id as a decimal number, matching how the 128-bit
// MurmurHash3 digest is conventionally printed.
func (id CacheID) String() string {
	v := new(big.Int).Lsh(new(big.Int).SetUint64(id.Hi), 64)
	v.Or(v, new(big.Int).SetUint64(id.Lo))
	return v.String()
}

// Vector is a dense fixed-dimension real-valued vector, physically stored
// as a sequence of lane-packed chunks.
//
// Every chunk slot is always initialized; iteration yields exactly Dim()
// elements in canonical chunk-major, lane-minor order. A Vector is
// immutable once constructed: every operation returns a new value.
type Vector struct {
	width  simd.Width
	dim    int
	chunks []simd.Chunk
}

// Zero returns a Vector of the given width and dimension with every element
// set to +0.0.
func Zero(width simd.Width, dim int) Vector {
	blocks := blockCount(width, dim)
	chunks := make([]simd.Chunk, blocks)
	for i := range chunks {
		chunks[i] = simd.Zero(width)
	}
	return Vector{width: width, dim: dim, chunks: chunks}
}

// New constructs a Vector of the given width and dimension by consuming
// elts in order: chunks are filled in sequence, the tail of the final
// chunk beyond dim is zero-padded if elts is shorter than dim, and any
// elements beyond dim are discarded.
func New(width simd.Width, dim int, elts []float32) (Vector, error) {
	if !width.Valid() {
		return Vector{}, fmt.Errorf("vector: invalid lane width %d", width)
	}
	if dim < 0 {
		return Vector{}, fmt.Errorf("vector: negative dimension %d", dim)
	}

	blocks := blockCount(width, dim)
	w := int(width)
	chunks := make([]simd.Chunk, blocks)
	for b := 0; b < blocks; b++ {
		lane := make([]float32, w)
		for l := 0; l < w; l++ {
			idx := b*w + l
			if idx >= dim {
				break
			}
			if idx < len(elts) {
				lane[l] = elts[idx]
			}
		}
		c, err := simd.Pack(width, lane)
		if err != nil {
			return Vector{}, err
		}
		chunks[b] = c
	}
	return Vector{width: width, dim: dim, chunks: chunks}, nil
}

func blockCount(width simd.Width, dim int) int {
	w := int(width)
	return (dim + w - 1) / w
}

// Width reports the chunk lane width backing this vector.
func (v Vector) Width() simd.Width {
	return v.width
}

// Dim reports the number of logical scalar elements in v.
func (v Vector) Dim() int {
	return v.dim
}

// Chunks returns the vector's underlying chunks in order. Callers must not
// mutate the returned slice's contents through Chunk, since Chunk itself is
// immutable; the slice is returned by reference for read-only iteration.
func (v Vector) Chunks() []simd.Chunk {
	return v.chunks
}

// Elements returns the vector's scalars in canonical chunk-major,
// lane-minor order, truncated to exactly Dim() values.
func (v Vector) Elements() []float32 {
	out := make([]float32, 0, v.dim)
	for _, c := range v.chunks {
		lanes := c.Lanes()
		for _, x := range lanes {
			if len(out) == v.dim {
				return out
			}
			out = append(out, x)
		}
	}
	return out
}

func (v Vector) compatible(o Vector) error {
	if v.width != o.width || v.dim != o.dim {
		return ErrDimensionMismatch
	}
	return nil
}

// sameShape verifies the receiver and operand share width, dimension and
// chunk count. Any zero padding in the final chunk contributes nothing to
// dot or squared distance.
func (v Vector) sameShape(o Vector) bool {
	return v.width == o.width && v.dim == o.dim && len(v.chunks) == len(o.chunks)
}

// Add returns the element-wise sum of v and o.
func (v Vector) Add(o Vector) (Vector, error) {
	if err := v.compatible(o); err != nil {
		return Vector{}, err
	}
	chunks := make([]simd.Chunk, len(v.chunks))
	for i := range chunks {
		chunks[i] = v.chunks[i].Add(o.chunks[i])
	}
	return Vector{width: v.width, dim: v.dim, chunks: chunks}, nil
}

// ScaleMul returns v with every element multiplied by s.
func (v Vector) ScaleMul(s float32) Vector {
	chunks := make([]simd.Chunk, len(v.chunks))
	for i := range chunks {
		chunks[i] = v.chunks[i].ScaleMul(s)
	}
	return Vector{width: v.width, dim: v.dim, chunks: chunks}
}

// ScaleDiv returns v with every element divided by s, computed as
// v * (1/s).
func (v Vector) ScaleDiv(s float32) Vector {
	return v.ScaleMul(1 / s)
}

// Equal reports whether v and o hold bit-equal elements, chunk-wise.
func (v Vector) Equal(o Vector) bool {
	if !v.sameShape(o) {
		return false
	}
	for i := range v.chunks {
		if !v.chunks[i].Equal(o.chunks[i]) {
			return false
		}
	}
	return true
}

// Dot computes the inner product <v, o> using four independent chunk
// accumulators updated by fused multiply-add, then horizontally reduced.
// The four-accumulator split exposes the same instruction-level
// parallelism the scalar-slice dot kernel this is modeled on relies on.
func Dot(v, o Vector) (float32, error) {
	if !v.sameShape(o) {
		return 0, ErrDimensionMismatch
	}
	n := len(v.chunks)
	if n == 0 {
		return 0, nil
	}

	acc0 := simd.Zero(v.width)
	acc1 := simd.Zero(v.width)
	acc2 := simd.Zero(v.width)
	acc3 := simd.Zero(v.width)

	i := 0
	for ; i+4 <= n; i += 4 {
		acc0 = v.chunks[i].MulAdd(o.chunks[i], acc0)
		acc1 = v.chunks[i+1].MulAdd(o.chunks[i+1], acc1)
		acc2 = v.chunks[i+2].MulAdd(o.chunks[i+2], acc2)
		acc3 = v.chunks[i+3].MulAdd(o.chunks[i+3], acc3)
	}

	acc0 = acc0.Add(acc1)
	acc2 = acc2.Add(acc3)
	acc0 = acc0.Add(acc2)
	result := acc0.Sum()

	// Scalar tail for chunk counts not divisible by four.
	for ; i < n; i++ {
		result += v.chunks[i].Mul(o.chunks[i]).Sum()
	}

	return result, nil
}

// SquaredDistance computes the sum of squared differences between v and o
// using the same four-accumulator discipline as Dot.
func SquaredDistance(v, o Vector) (float32, error) {
	if !v.sameShape(o) {
		return 0, ErrDimensionMismatch
	}
	n := len(v.chunks)
	if n == 0 {
		return 0, nil
	}

	acc0 := simd.Zero(v.width)
	acc1 := simd.Zero(v.width)
	acc2 := simd.Zero(v.width)
	acc3 := simd.Zero(v.width)

	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := v.chunks[i].Sub(o.chunks[i])
		d1 := v.chunks[i+1].Sub(o.chunks[i+1])
		d2 := v.chunks[i+2].Sub(o.chunks[i+2])
		d3 := v.chunks[i+3].Sub(o.chunks[i+3])
		acc0 = d0.MulAdd(d0, acc0)
		acc1 = d1.MulAdd(d1, acc1)
		acc2 = d2.MulAdd(d2, acc2)
		acc3 = d3.MulAdd(d3, acc3)
	}

	acc0 = acc0.Add(acc1)
	acc2 = acc2.Add(acc3)
	acc0 = acc0.Add(acc2)
	result := acc0.Sum()

	for ; i < n; i++ {
		d := v.chunks[i].Sub(o.chunks[i])
		result += d.Mul(d).Sum()
	}

	return result, nil
}

// Distance computes the Euclidean distance between v and o.
func Distance(v, o Vector) (float32, error) {
	sq, err := SquaredDistance(v, o)
	if err != nil {
		return 0, err
	}
	return float32(math.Sqrt(float64(sq))), nil
}

// bytes returns the vector's raw byte image: every chunk's lanes, in
// chunk-major lane-minor order, as little-endian IEEE-754 float32s. This
// includes any zero padding in the final chunk, matching the source's
// digest over the full chunk array rather than just the logical Dim()
// elements.
func (v Vector) bytes() []byte {
	w := int(v.width)
	buf := make([]byte, 0, len(v.chunks)*w*4)
	for _, c := range v.chunks {
		for _, x := range c.Lanes() {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(x))
			buf = append(buf, b[:]...)
		}
	}
	return buf
}

// ID computes the content-addressable identity of v: the MurmurHash3_x64_128
// digest over its raw byte image with seed 0. Two vectors with equal
// elements (and equal width) always share an ID; this is the identity the
// LSH index deduplicates on.
func (v Vector) ID() CacheID {
	d := murmur.Sum128(v.bytes(), 0)
	return CacheID{Lo: d.Lo, Hi: d.Hi}
}
