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

package server

import (
	"container/heap"
	"log/slog"
	"sync"

	"github.com/vectorlsh/annlsh/internal/protocol"
)

// indexedFrame pairs a command's response with its submission index, the
// Go idiom for what the source expresses as a BinaryHeap<Reverse<...>>:
// a min-heap ordered by index lets completions arrive in any order while
// still being drained in submission order.
type indexedFrame struct {
	idx   int
	frame protocol.Frame
}

type frameHeap []indexedFrame

func (h frameHeap) Len() int            { return len(h) }
func (h frameHeap) Less(i, j int) bool  { return h[i].idx < h[j].idx }
func (h frameHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *frameHeap) Push(x any)         { *h = append(*h, x.(indexedFrame)) }
func (h *frameHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// runBulk handles a connection that submits one batched array of commands
// to be run concurrently; the response is a single array preserving the
// submission order regardless of which subcommand finishes first.
func (s *Server) runBulk(r *protocol.Reader, w *protocol.Writer, log *slog.Logger) {
	batch, err := r.ReadFrame()
	if err != nil {
		return
	}
	if batch.Kind != protocol.KindArray {
		_ = w.WriteFrame(protocol.Err("bulk mode expects an array of commands"))
		return
	}

	n := len(batch.Array)
	results := make(chan indexedFrame, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, cmd := range batch.Array {
		s.pool.submit(func() {
			defer wg.Done()
			results <- indexedFrame{idx: i, frame: s.execute(cmd)}
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]protocol.Frame, n)
	pending := &frameHeap{}
	heap.Init(pending)
	next := 0

	for item := range results {
		heap.Push(pending, item)
		for pending.Len() > 0 && (*pending)[0].idx == next {
			top := heap.Pop(pending).(indexedFrame)
			out[top.idx] = top.frame
			next++
		}
	}

	if err := w.WriteFrame(protocol.ArrayOf(out...)); err != nil {
		log.Warn("failed to write bulk-mode response", slog.Any("error", err))
	}
}
