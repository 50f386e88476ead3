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

// TestReplicaTableCollisionOnColinearInputs pins the scenario: inserting
// vectors at 1.0, 2.0 and -1.0 constants must bucket the two colinear
// ones together and the antipodal one separately.
func TestReplicaTableCollisionOnColinearInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rt, err := NewReplicaTable(64, simd.Width4, 16, rng)
	require.NoError(t, err)

	va, _ := vector.New(simd.Width4, 16, repeatElts(16, 1.0))
	vb, _ := vector.New(simd.Width4, 16, repeatElts(16, 2.0))
	vc, _ := vector.New(simd.Width4, 16, repeatElts(16, -1.0))

	require.NoError(t, rt.Insert(newItem(va)))
	require.NoError(t, rt.Insert(newItem(vb)))
	require.NoError(t, rt.Insert(newItem(vc)))

	qElts := repeatElts(16, 1.0)
	qElts[0] = 0.99
	q, _ := vector.New(simd.Width4, 16, qElts)

	qOpElts := repeatElts(16, -1.0)
	qOpElts[0] = -0.99
	qOp, _ := vector.New(simd.Width4, 16, qOpElts)

	bucket, ok, err := rt.QueryBucket(q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, bucket, 2)
	assert.Contains(t, bucket, va.ID())
	assert.Contains(t, bucket, vb.ID())

	opBucket, ok, err := rt.QueryBucket(qOp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, opBucket, 1)
	assert.Contains(t, opBucket, vc.ID())

	assert.Equal(t, 2, rt.BucketCount())
}

func TestReplicaTableQueryMissReturnsNotOK(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rt, err := NewReplicaTable(64, simd.Width4, 4, rng)
	require.NoError(t, err)

	v, _ := vector.New(simd.Width4, 4, []float32{1, 0, 0, 0})
	_, ok, err := rt.QueryBucket(v)
	require.NoError(t, err)
	assert.False(t, ok)
}
