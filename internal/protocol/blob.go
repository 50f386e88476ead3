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

package protocol

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

// ErrDimensionMismatch is returned when a vector blob's byte length does
// not match its declared dimension.
type ErrDimensionMismatch struct {
	Declared int
	GotBytes int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("protocol: vector blob declares dimension %d (%d bytes) but has %d bytes",
		e.Declared, e.Declared*4, e.GotBytes)
}

// EncodeVectorBlob renders v as a command blob: 4 bytes little-endian
// unsigned dimension, followed by dimension x4 little-endian float32
// coordinates.
func EncodeVectorBlob(v vector.Vector) []byte {
	elts := v.Elements()
	buf := make([]byte, 4+len(elts)*4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(elts)))
	for i, x := range elts {
		binary.LittleEndian.PutUint32(buf[4+i*4:8+i*4], math.Float32bits(x))
	}
	return buf
}

// DecodeVectorBlob parses a command blob produced by EncodeVectorBlob (or
// a compliant client) into a Vector of the given lane width. It rejects
// blobs whose byte length is inconsistent with the declared dimension.
func DecodeVectorBlob(width simd.Width, data []byte) (vector.Vector, error) {
	if len(data) < 4 {
		return vector.Vector{}, &ErrDimensionMismatch{Declared: 0, GotBytes: len(data)}
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	body := data[4:]
	if len(body) != dim*4 {
		return vector.Vector{}, &ErrDimensionMismatch{Declared: dim, GotBytes: len(body)}
	}

	elts := make([]float32, dim)
	for i := range elts {
		off := i * 4
		elts[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[off : off+4]))
	}
	return vector.New(width, dim, elts)
}

// EncodeVectorBody renders v without the leading dimension prefix, as
// used for a successful get response whose receiver already knows D.
func EncodeVectorBody(v vector.Vector) []byte {
	elts := v.Elements()
	buf := make([]byte, len(elts)*4)
	for i, x := range elts {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(x))
	}
	return buf
}
