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
	"runtime"
	"sync"
)

// workPool is a persistent pool of goroutines that execute submitted
// commands. Bulk and stream sessions both submit through the same pool
// rather than spawning one goroutine per subcommand, bounding how many
// get/put calls run concurrently across the whole server regardless of
// how many connections or how large a single bulk batch is.
type workPool struct {
	workC     chan func()
	closeOnce sync.Once
}

// newWorkPool starts n persistent workers. n<=0 uses GOMAXPROCS.
func newWorkPool(n int) *workPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &workPool{workC: make(chan func(), n*2)}
	for range n {
		go p.loop()
	}
	return p
}

func (p *workPool) loop() {
	for fn := range p.workC {
		fn()
	}
}

// submit enqueues fn for execution by a worker goroutine. It blocks if
// every worker is busy and the queue is full.
func (p *workPool) submit(fn func()) {
	p.workC <- fn
}

// close closes the work queue at once: workers finish the work already
// queued and then exit. Calling submit after close panics. Safe to call
// close more than once.
func (p *workPool) close() {
	p.closeOnce.Do(func() {
		close(p.workC)
	})
}
