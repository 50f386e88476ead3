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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

func TestProjectionIsUnitNorm(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1e4; i++ {
		p, err := NewProjection(simd.Width4, 16, rng)
		require.NoError(t, err)

		sq, err := vector.Dot(p.unit, p.unit)
		require.NoError(t, err)
		assert.InDelta(t, 1, math.Sqrt(float64(sq))*math.Sqrt(float64(sq)), 1e-5)
	}
}

func TestProjectionHashIsBinary(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p, err := NewProjection(simd.Width4, 16, rng)
	require.NoError(t, err)

	v, err := vector.New(simd.Width4, 16, repeatElts(16, 0.5))
	require.NoError(t, err)

	h, err := p.Hash(v)
	require.NoError(t, err)
	assert.True(t, h == 0 || h == 1)
}

func TestProjectionBinaryRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p, err := NewProjection(simd.Width4, 16, rng)
	require.NoError(t, err)

	raw, err := p.MarshalBinary()
	require.NoError(t, err)

	var got Projection
	require.NoError(t, got.UnmarshalBinary(raw))

	assert.Equal(t, p.unit.Elements(), got.unit.Elements())
}

func TestProjectionJSONRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	p, err := NewProjection(simd.Width4, 16, rng)
	require.NoError(t, err)

	raw, err := p.MarshalJSON()
	require.NoError(t, err)

	var got Projection
	require.NoError(t, got.UnmarshalJSON(raw))

	assert.Equal(t, p.unit.Elements(), got.unit.Elements())
}

func TestProjectionUnmarshalRejectsLengthMismatch(t *testing.T) {
	var p Projection
	err := p.UnmarshalBinary([]byte{4, 0, 0, 0, 1, 2, 3})
	require.Error(t, err)
}

func TestProjectionUnmarshalRejectsNonUnitNorm(t *testing.T) {
	var p Projection
	buf := make([]byte, 4+4*4)
	buf[0] = 4 // dimension = 4, coordinates all left as zero bits (not unit norm)
	err := p.UnmarshalBinary(buf)
	require.ErrorIs(t, err, ErrNotUnitNorm)
}

func repeatElts(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
