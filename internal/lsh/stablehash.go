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

package lsh

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

// MaxBits is the largest number of projections a StableHashFunction may
// hold: each projection contributes one bit to a uint64 key.
const MaxBits = 64

// ErrTooManyBits is returned when a StableHashFunction is asked to hold
// more than MaxBits projections, or fewer than one.
var ErrTooManyBits = errors.New("lsh: stable hash function needs between 1 and 64 bits")

// StableHashFunction concatenates the sign bits of B independently sampled
// random projections into a single 64-bit key: bit i is projection i's
// hash(v), with bit 0 the first projection.
type StableHashFunction struct {
	projections []Projection
}

// NewStableHashFunction samples bits independent projections of the given
// width and dimension.
func NewStableHashFunction(bits int, width simd.Width, dim int, rng *rand.Rand) (StableHashFunction, error) {
	if bits <= 0 || bits > MaxBits {
		return StableHashFunction{}, fmt.Errorf("%w: got %d", ErrTooManyBits, bits)
	}
	projections := make([]Projection, bits)
	for i := range projections {
		p, err := NewProjection(width, dim, rng)
		if err != nil {
			return StableHashFunction{}, err
		}
		projections[i] = p
	}
	return StableHashFunction{projections: projections}, nil
}

// Bits reports how many projections back this hash function.
func (f StableHashFunction) Bits() int {
	return len(f.projections)
}

// Hash computes the 64-bit key for v: the OR of each projection's sign
// bit, shifted into its ordinal position. Every bit at or beyond Bits()
// is always zero.
func (f StableHashFunction) Hash(v vector.Vector) (uint64, error) {
	var acc uint64
	for i, p := range f.projections {
		bit, err := p.Hash(v)
		if err != nil {
			return 0, err
		}
		acc |= bit << uint(i)
	}
	return acc, nil
}
