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

// Package lsh implements the locality-sensitive hashing index: random
// projections, the stable hash function built from them, per-replica
// bucket tables, and the multi-replica index that ties them together.
package lsh

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

// ErrNotUnitNorm is returned when a deserialized projection's coordinates
// do not round-trip to a unit vector within the tolerance this package
// requires.
var ErrNotUnitNorm = errors.New("lsh: projection is not unit-norm")

const unitNormEpsilon = 1e-5

// Projection is a random unit vector used as a sign-of-dot-product hash:
// hash(v) is 1 if the projection and v point into the same half-space,
// else 0. The boundary case (dot product exactly zero) hashes to 0.
type Projection struct {
	width simd.Width
	unit  vector.Vector
}

// NewProjection samples a fresh random unit vector of the given width and
// dimension: each coordinate is drawn uniformly from [-1, 1), then the
// vector is normalized by its L2 norm.
func NewProjection(width simd.Width, dim int, rng *rand.Rand) (Projection, error) {
	elts := make([]float32, dim)
	for i := range elts {
		elts[i] = rng.Float32()*2 - 1
	}
	raw, err := vector.New(width, dim, elts)
	if err != nil {
		return Projection{}, err
	}

	unit, err := normalize(raw)
	if err != nil {
		return Projection{}, err
	}
	return Projection{width: width, unit: unit}, nil
}

func normalize(v vector.Vector) (vector.Vector, error) {
	sq, err := vector.Dot(v, v)
	if err != nil {
		return vector.Vector{}, err
	}
	norm := float32(math.Sqrt(float64(sq)))
	if norm == 0 {
		return vector.Vector{}, fmt.Errorf("lsh: cannot normalize a zero vector")
	}
	return v.ScaleDiv(norm), nil
}

// Hash returns 1 if the dot product of the projection's unit vector and v
// is strictly positive, else 0.
func (p Projection) Hash(v vector.Vector) (uint64, error) {
	d, err := vector.Dot(p.unit, v)
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return 1, nil
	}
	return 0, nil
}

// MarshalBinary encodes the projection as its dimension (little-endian
// uint32) followed by its coordinates (little-endian float32, in order).
func (p Projection) MarshalBinary() ([]byte, error) {
	elts := p.unit.Elements()
	buf := make([]byte, 4+len(elts)*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(elts)))
	for i, x := range elts {
		binary.LittleEndian.PutUint32(buf[4+i*4:8+i*4], math.Float32bits(x))
	}
	return buf, nil
}

// UnmarshalBinary decodes a projection previously produced by
// MarshalBinary and re-validates that it is unit-norm within epsilon,
// returning ErrNotUnitNorm if not. The receiver's lane width is preserved
// if already set, and defaults to simd.Width4 otherwise.
func (p *Projection) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("lsh: projection blob too short: %d bytes", len(data))
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	if len(data)-4 != dim*4 {
		return fmt.Errorf("lsh: projection blob length %d inconsistent with dimension %d", len(data), dim)
	}

	elts := make([]float32, dim)
	for i := range elts {
		off := 4 + i*4
		elts[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
	}

	width := p.width
	if width == 0 {
		width = simd.Width4
	}
	v, err := vector.New(width, dim, elts)
	if err != nil {
		return err
	}

	sq, err := vector.Dot(v, v)
	if err != nil {
		return err
	}
	norm := float64(math.Sqrt(float64(sq)))
	if math.Abs(norm-1) > unitNormEpsilon {
		return ErrNotUnitNorm
	}

	p.width = width
	p.unit = v
	return nil
}

// MarshalJSON renders the projection as a JSON array of bytes, the
// text-transport equivalent of MarshalBinary's byte sequence.
func (p Projection) MarshalJSON() ([]byte, error) {
	raw, err := p.MarshalBinary()
	if err != nil {
		return nil, err
	}
	ints := make([]int, len(raw))
	for i, b := range raw {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON parses a JSON array of bytes produced by MarshalJSON and
// decodes it the same way UnmarshalBinary does.
func (p *Projection) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("lsh: projection byte sequence has out-of-range value %d", v)
		}
		raw[i] = byte(v)
	}
	return p.UnmarshalBinary(raw)
}
