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

// Package server implements the thin request dispatcher: it decodes
// framed sessions off accepted connections and routes get/put commands to
// an LSH index guarded by a single reader/writer lock.
//
// The index itself holds no lock (see internal/lsh); Server is where
// concurrent get and put calls are actually serialized.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vectorlsh/annlsh/internal/lsh"
	"github.com/vectorlsh/annlsh/internal/simd"
)

// DefaultMaxConnections is the connection cap used when Option does not
// override it, matching the source's own hard-coded limit.
const DefaultMaxConnections = 255

// DefaultResponseQueueDepth is the per-connection bounded queue depth used
// to backpressure stream-mode subcommands against a slow reader.
const DefaultResponseQueueDepth = 64

// Server is the framed-protocol front end over an *lsh.Index.
type Server struct {
	idx   *lsh.Index
	mu    sync.RWMutex
	sem   *semaphore.Weighted
	log   *slog.Logger
	width simd.Width
	dim   int

	respQueueDepth int
	pool           *workPool
}

// Option configures a Server at construction.
type Option func(*Server)

// WithLogger sets the logger. If nil, slog.Default is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMaxConnections overrides DefaultMaxConnections.
func WithMaxConnections(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithResponseQueueDepth overrides DefaultResponseQueueDepth.
func WithResponseQueueDepth(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.respQueueDepth = n
		}
	}
}

// WithWorkers sets the number of persistent goroutines executing get/put
// commands. n<=0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Server) {
		s.pool = newWorkPool(n)
	}
}

// New builds a Server dispatching onto idx.
func New(idx *lsh.Index, opts ...Option) *Server {
	s := &Server{
		idx:            idx,
		sem:            semaphore.NewWeighted(DefaultMaxConnections),
		log:            slog.Default(),
		width:          idx.Width(),
		dim:            idx.Dim(),
		respQueueDepth: DefaultResponseQueueDepth,
		pool:           newWorkPool(0),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger { return s.log }

// Serve accepts connections on ln until ctx is canceled or Accept fails.
// Each connection is handled on its own goroutine, gated by the
// connection semaphore; a connection that arrives when the semaphore is
// saturated is rejected immediately rather than queued.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	s.log.Info("accept loop starting", slog.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		if !s.sem.TryAcquire(1) {
			s.log.Warn("connection limit reached, rejecting", slog.String("remote", conn.RemoteAddr().String()))
			_ = conn.Close()
			continue
		}

		go func() {
			defer s.sem.Release(1)
			s.handleConn(ctx, conn)
		}()
	}
}

// ServeWithSignals wraps Serve with a SIGINT/SIGTERM-aware context,
// mirroring the standard graceful-shutdown shape used elsewhere in this
// module's ambient stack.
func (s *Server) ServeWithSignals(ln net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err := s.Serve(ctx, ln)
	s.pool.close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	s.log.Info("server stopped", slog.Duration("uptime", time.Since(start)))
	return nil
}
