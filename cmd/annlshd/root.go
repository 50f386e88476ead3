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

// Package main is the annlshd command-line entry point: a framed-protocol
// ANN service built on an in-memory LSH index.
package main

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	flagAddr      string
	flagReplicas  int
	flagBits      int
	flagDimension int
	flagMaxConns  int64
	flagLaneWidth int
	flagSeedCount int
)

// execute builds the root command and runs it.
func execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:     "annlshd",
		Short:   "In-memory approximate nearest neighbor service over LSH",
		Version: "0.1.0",
	}

	root.PersistentFlags().StringVar(&flagAddr, "addr", "127.0.0.1:9090", "listen address")
	root.PersistentFlags().IntVar(&flagReplicas, "replicas", 32, "number of LSH replica tables")
	root.PersistentFlags().IntVar(&flagBits, "bits", 64, "projections per stable hash function (<=64)")
	root.PersistentFlags().IntVar(&flagDimension, "dimension", 768, "vector dimension")
	root.PersistentFlags().IntVar(&flagLaneWidth, "lane-width", 8, "SIMD lane width, 4 or 8")
	root.PersistentFlags().Int64Var(&flagMaxConns, "max-connections", 255, "maximum concurrent connections")
	root.PersistentFlags().IntVar(&flagSeedCount, "seed-count", 0, "number of random demo vectors to insert at startup")

	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
