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

// Index is the multi-replica locality-sensitive hash index: L independent
// ReplicaTables plus a canonical set of every item ever inserted.
//
// Index itself holds no lock; the concurrent request dispatcher in
// internal/server is responsible for serializing writers against readers.
// This mirrors the source's own layering, where the lock lives at the
// connection-handling layer rather than inside the database type.
type Index struct {
	width    simd.Width
	dim      int
	replicas []*ReplicaTable
	items    map[vector.CacheID]*Item
}

// New builds an index of replicas independent hash tables, each with its
// own B-projection stable hash function, over vectors of the given width
// and dimension.
func New(replicas, bits int, width simd.Width, dim int, rng *rand.Rand) (*Index, error) {
	tables := make([]*ReplicaTable, replicas)
	for i := range tables {
		t, err := NewReplicaTable(bits, width, dim, rng)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}
	return &Index{
		width:    width,
		dim:      dim,
		replicas: tables,
		items:    make(map[vector.CacheID]*Item),
	}, nil
}

// Width reports the lane width this index was built for.
func (idx *Index) Width() simd.Width {
	return idx.width
}

// Dim reports the vector dimension this index was built for.
func (idx *Index) Dim() int {
	return idx.dim
}

// Insert computes v's content id and shares it into the canonical set and
// every replica. Re-inserting a vector with an already-present content id
// is a no-op.
func (idx *Index) Insert(v vector.Vector) error {
	if v.Width() != idx.width || v.Dim() != idx.dim {
		return vector.ErrDimensionMismatch
	}
	item := newItem(v)
	if _, exists := idx.items[item.ID]; exists {
		return nil
	}
	idx.items[item.ID] = item
	for _, t := range idx.replicas {
		if err := t.Insert(item); err != nil {
			return err
		}
	}
	return nil
}

// Query unions every replica's bucket for v into a content-deduplicated
// candidate set, then returns the candidate with the smallest Euclidean
// distance to v. It returns ok=false iff every replica misses.
//
// Go map iteration order is randomized, so when several candidates tie on
// distance exactly, which one is returned is unspecified — the same
// guarantee (or lack of one) the source's own hash-set iteration gives.
func (idx *Index) Query(v vector.Vector) (result vector.Vector, ok bool, err error) {
	if v.Width() != idx.width || v.Dim() != idx.dim {
		return vector.Vector{}, false, vector.ErrDimensionMismatch
	}

	candidates := make(map[vector.CacheID]*Item)
	for _, t := range idx.replicas {
		bucket, hit, err := t.QueryBucket(v)
		if err != nil {
			return vector.Vector{}, false, err
		}
		if !hit {
			continue
		}
		for id, item := range bucket {
			candidates[id] = item
		}
	}
	if len(candidates) == 0 {
		return vector.Vector{}, false, nil
	}

	var best *Item
	var bestDist float32
	for _, item := range candidates {
		d, err := vector.Distance(v, item.Value)
		if err != nil {
			return vector.Vector{}, false, err
		}
		if best == nil || d < bestDist {
			best = item
			bestDist = d
		}
	}
	return best.Value, true, nil
}

// Len reports the number of distinct content ids ever inserted.
func (idx *Index) Len() int {
	return len(idx.items)
}
