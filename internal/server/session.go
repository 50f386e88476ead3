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
	"context"
	"log/slog"
	"net"

	"github.com/vectorlsh/annlsh/internal/protocol"
)

// mode is the session kind negotiated by the first frame of a connection.
type mode int64

const (
	modeStream mode = 0
	modeBulk   mode = 1
	modeSingle mode = 2
)

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	r := protocol.NewReader(conn)
	w := protocol.NewWriter(conn)

	modeFrame, err := r.ReadFrame()
	if err != nil {
		return
	}
	if modeFrame.Kind != protocol.KindInteger {
		_ = w.WriteFrame(protocol.Err("first frame of a session must be an integer mode"))
		return
	}

	log := s.log.With(slog.String("remote", conn.RemoteAddr().String()), slog.Int64("mode", modeFrame.Int))

	switch mode(modeFrame.Int) {
	case modeStream:
		s.runStream(ctx, r, w, log)
	case modeBulk:
		s.runBulk(r, w, log)
	case modeSingle:
		s.runSingle(r, w, log)
	default:
		_ = w.WriteFrame(protocol.Err("unknown session mode"))
	}
}

// runSingle handles the simplest session shape: one command, one
// response, then the connection is done.
func (s *Server) runSingle(r *protocol.Reader, w *protocol.Writer, log *slog.Logger) {
	cmd, err := r.ReadFrame()
	if err != nil {
		return
	}
	if err := w.WriteFrame(s.execute(cmd)); err != nil {
		log.Warn("failed to write single-mode response", slog.Any("error", err))
	}
}

// runStream handles a connection that issues commands one at a time.
// Subcommands run concurrently on the server's work pool, but responses
// are written to the socket in the exact order their commands arrived:
// each command gets its own single-slot future, and a dedicated writer
// goroutine drains a bounded queue of those futures in FIFO order. The
// queue's bound (respQueueDepth) is where backpressure lives: once it
// fills, the read loop blocks until the writer drains the oldest pending
// future, which is the same "producer suspends until the writer catches
// up" behavior the source describes for its own response channel.
func (s *Server) runStream(ctx context.Context, r *protocol.Reader, w *protocol.Writer, log *slog.Logger) {
	futures := make(chan chan protocol.Frame, s.respQueueDepth)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for fut := range futures {
			resp := <-fut
			if err := w.WriteFrame(resp); err != nil {
				log.Warn("failed to write stream-mode response", slog.Any("error", err))
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			close(futures)
			<-writerDone
			return
		default:
		}

		cmd, err := r.ReadFrame()
		if err != nil {
			break
		}
		if cmd.IsNull() {
			break
		}

		fut := make(chan protocol.Frame, 1)
		select {
		case futures <- fut:
		case <-ctx.Done():
			close(futures)
			<-writerDone
			return
		}

		s.pool.submit(func() {
			fut <- s.execute(cmd)
		})
	}

	close(futures)
	<-writerDone
}
