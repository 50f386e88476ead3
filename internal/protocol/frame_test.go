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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

func roundTrip(t *testing.T, f Frame) Frame {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).WriteFrame(f))
	got, err := NewReader(&buf).ReadFrame()
	require.NoError(t, err)
	return got
}

func TestFrameRoundTripSimple(t *testing.T) {
	got := roundTrip(t, Simple("OK"))
	assert.Equal(t, KindSimple, got.Kind)
	assert.Equal(t, "OK", got.Str)
}

func TestFrameRoundTripError(t *testing.T) {
	got := roundTrip(t, Err("dimension mismatch"))
	assert.Equal(t, KindError, got.Kind)
	assert.Equal(t, "dimension mismatch", got.Str)
}

func TestFrameRoundTripInteger(t *testing.T) {
	got := roundTrip(t, Integer(1))
	assert.Equal(t, KindInteger, got.Kind)
	assert.Equal(t, int64(1), got.Int)
}

func TestFrameRoundTripBulk(t *testing.T) {
	got := roundTrip(t, Bulk([]byte{1, 2, 3, 4}))
	assert.Equal(t, KindBulk, got.Kind)
	assert.Equal(t, []byte{1, 2, 3, 4}, got.Bulk)
}

func TestFrameRoundTripNullBulk(t *testing.T) {
	got := roundTrip(t, Null())
	assert.True(t, got.IsNull())
}

func TestFrameRoundTripArray(t *testing.T) {
	got := roundTrip(t, ArrayOf(Simple("get"), Bulk([]byte("dataset")), Integer(7)))
	require.Equal(t, KindArray, got.Kind)
	require.Len(t, got.Array, 3)
	assert.Equal(t, "get", got.Array[0].Str)
	assert.Equal(t, []byte("dataset"), got.Array[1].Bulk)
	assert.Equal(t, int64(7), got.Array[2].Int)
}

func TestFrameRoundTripNestedArray(t *testing.T) {
	inner := ArrayOf(Simple("get"), Bulk(nil), Integer(1))
	got := roundTrip(t, ArrayOf(inner, inner))
	require.Len(t, got.Array, 2)
	assert.True(t, got.Array[0].Array[1].IsNull())
}

func TestReaderRejectsUnknownKind(t *testing.T) {
	r := NewReader(bytes.NewBufferString("?garbage\r\n"))
	_, err := r.ReadFrame()
	require.Error(t, err)
	var protoErr *ErrProtocol
	require.ErrorAs(t, err, &protoErr)
}

func TestVectorBlobRoundTrip(t *testing.T) {
	v, err := vector.New(simd.Width4, 6, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	blob := EncodeVectorBlob(v)
	got, err := DecodeVectorBlob(simd.Width4, blob)
	require.NoError(t, err)
	assert.Equal(t, v.Elements(), got.Elements())
}

func TestVectorBlobRejectsLengthMismatch(t *testing.T) {
	blob := []byte{4, 0, 0, 0, 1, 2, 3}
	_, err := DecodeVectorBlob(simd.Width4, blob)
	require.Error(t, err)
	var dimErr *ErrDimensionMismatch
	require.ErrorAs(t, err, &dimErr)
}

func TestVectorBodyOmitsDimensionPrefix(t *testing.T) {
	v, err := vector.New(simd.Width4, 4, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	body := EncodeVectorBody(v)
	assert.Len(t, body, 16)
}
