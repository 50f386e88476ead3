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

package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vectorlsh/annlsh/internal/lsh"
	"github.com/vectorlsh/annlsh/internal/server"
	"github.com/vectorlsh/annlsh/internal/simd"
	"github.com/vectorlsh/annlsh/internal/vector"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the ANN server",
		Long: `Start annlshd listening for framed LSH queries.

On startup it builds an empty LSH index with the configured number of
replicas and stable-hash bits, optionally seeds it with random vectors for
demonstration, then accepts connections until interrupted.`,
		RunE: runServe,
	}
}

func laneWidth() (simd.Width, error) {
	switch flagLaneWidth {
	case 4:
		return simd.Width4, nil
	case 8:
		return simd.Width8, nil
	default:
		return 0, fmt.Errorf("--lane-width must be 4 or 8, got %d", flagLaneWidth)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	width, err := laneWidth()
	if err != nil {
		return err
	}

	log := slog.Default().With(
		slog.String("addr", flagAddr),
		slog.Int("replicas", flagReplicas),
		slog.Int("bits", flagBits),
		slog.Int("dimension", flagDimension),
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	idx, err := lsh.New(flagReplicas, flagBits, width, flagDimension, rng)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if flagSeedCount > 0 {
		seedDemo(idx, width, flagDimension, flagSeedCount, rng)
		log.Info("seeded demo vectors", slog.Int("count", flagSeedCount))
	}

	ln, err := net.Listen("tcp", flagAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", flagAddr, err)
	}
	defer ln.Close()

	srv := server.New(idx, server.WithLogger(log), server.WithMaxConnections(flagMaxConns))
	log.Info("annlshd listening")
	return srv.ServeWithSignals(ln)
}

// seedDemo inserts count random vectors into idx, purely for local
// demonstration; the index holds no other persistence, so this is the
// only way an instance of annlshd starts out non-empty.
func seedDemo(idx *lsh.Index, width simd.Width, dim, count int, rng *rand.Rand) {
	for i := 0; i < count; i++ {
		elts := make([]float32, dim)
		for j := range elts {
			elts[j] = rng.Float32()*2 - 1
		}
		v, err := vector.New(width, dim, elts)
		if err != nil {
			continue
		}
		_ = idx.Insert(v)
	}
}
