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

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

// ReplicaTable is one independently-sampled (hash function, bucket map)
// pair. Buckets are content-addressed sets, keyed by an item's content id,
// so inserting the same content twice never inflates a bucket's size.
type ReplicaTable struct {
	hashfn  StableHashFunction
	buckets map[uint64]map[vector.CacheID]*Item
}

// NewReplicaTable samples a fresh StableHashFunction of bits projections
// over the given width and dimension.
func NewReplicaTable(bits int, width simd.Width, dim int, rng *rand.Rand) (*ReplicaTable, error) {
	fn, err := NewStableHashFunction(bits, width, dim, rng)
	if err != nil {
		return nil, err
	}
	return &ReplicaTable{
		hashfn:  fn,
		buckets: make(map[uint64]map[vector.CacheID]*Item),
	}, nil
}

// Insert places item into the bucket keyed by this replica's hash of
// item.Value. A content id already present in that bucket is left
// untouched.
func (rt *ReplicaTable) Insert(item *Item) error {
	key, err := rt.hashfn.Hash(item.Value)
	if err != nil {
		return err
	}
	bucket, ok := rt.buckets[key]
	if !ok {
		bucket = make(map[vector.CacheID]*Item)
		rt.buckets[key] = bucket
	}
	if _, exists := bucket[item.ID]; !exists {
		bucket[item.ID] = item
	}
	return nil
}

// QueryBucket returns the bucket matching this replica's hash of v, or
// ok=false if no item has ever hashed to that key in this replica.
func (rt *ReplicaTable) QueryBucket(v vector.Vector) (bucket map[vector.CacheID]*Item, ok bool, err error) {
	key, err := rt.hashfn.Hash(v)
	if err != nil {
		return nil, false, err
	}
	bucket, ok = rt.buckets[key]
	return bucket, ok, nil
}

// BucketCount reports how many distinct keys currently have a non-empty
// bucket.
func (rt *ReplicaTable) BucketCount() int {
	return len(rt.buckets)
}
