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

import "github.com/vectorlsh/annlsh/internal/vector"

// Item is a content-addressed wrapper around a stored vector: its
// identity is its content id, not the vector's address. The canonical set
// and every replica bucket that holds an item share the same *Item value;
// Go's garbage collector keeps it alive as long as any of them reference
// it, which is the role a reference-counted pointer plays in the source
// this package is modeled on.
type Item struct {
	Value vector.Vector
	ID    vector.CacheID
}

func newItem(v vector.Vector) *Item {
	return &Item{Value: v, ID: v.ID()}
}
