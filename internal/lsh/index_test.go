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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

// TestIndexQueryReturnsNearDuplicate pins scenario 3: among a, b and c
// inserted, querying a vector close to a must return a, not b or c.
func TestIndexQueryReturnsNearDuplicate(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	idx, err := New(32, 64, simd.Width4, 16, rng)
	require.NoError(t, err)

	va, _ := vector.New(simd.Width4, 16, repeatElts(16, 1.0))
	vb, _ := vector.New(simd.Width4, 16, repeatElts(16, 2.0))
	vc, _ := vector.New(simd.Width4, 16, repeatElts(16, -1.0))

	require.NoError(t, idx.Insert(va))
	require.NoError(t, idx.Insert(vb))
	require.NoError(t, idx.Insert(vc))

	qElts := repeatElts(16, 1.0)
	qElts[0] = 0.99
	q, _ := vector.New(simd.Width4, 16, qElts)

	got, ok, err := idx.Query(q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(va))
}

// TestIndexInsertionIdempotence pins scenario 4: re-inserting a bit-equal
// vector must not grow Len().
func TestIndexInsertionIdempotence(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	idx, err := New(8, 64, simd.Width4, 16, rng)
	require.NoError(t, err)

	v, _ := vector.New(simd.Width4, 16, repeatElts(16, 1.0))
	require.NoError(t, idx.Insert(v))
	require.NoError(t, idx.Insert(v))

	assert.Equal(t, 1, idx.Len())
}

func TestIndexLenCountsDistinctIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	idx, err := New(4, 64, simd.Width4, 8, rng)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		v, _ := vector.New(simd.Width4, 8, repeatElts(8, float32(i+1)))
		require.NoError(t, idx.Insert(v))
	}
	assert.Equal(t, 5, idx.Len())
}

func TestIndexQueryMissWhenNoReplicaHits(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	idx, err := New(4, 64, simd.Width4, 8, rng)
	require.NoError(t, err)

	v, _ := vector.New(simd.Width4, 8, repeatElts(8, 1.0))
	_, ok, err := idx.Query(v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexRejectsDimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	idx, err := New(2, 64, simd.Width4, 8, rng)
	require.NoError(t, err)

	v, _ := vector.New(simd.Width4, 4, []float32{1, 2, 3, 4})
	err = idx.Insert(v)
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}
