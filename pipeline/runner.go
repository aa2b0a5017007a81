// Copyright 2026 Blink Labs Software
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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

type RunnerConfig struct {
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
	// Workers bounds the number of pools built concurrently. Zero uses
	// GOMAXPROCS.
	Workers int
}

// Runner builds many pools concurrently. A failed pool does not stop the
// others.
type Runner struct {
	config  RunnerConfig
	metrics *runnerMetrics
}

func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	cfg.Logger = cfg.Logger.With("component", "pipeline")
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	r := &Runner{
		config: cfg,
	}
	r.initMetrics()
	return r
}

// Run builds every pool. Results are returned in input order; the entry for a
// failed pool is nil and its error is included in the joined error.
func (r *Runner) Run(ctx context.Context, p *Pipeline, pools []PoolConfig) ([]*Result, error) {
	if p == nil {
		return nil, ErrNoTemplates
	}
	if len(pools) == 0 {
		return nil, ErrNoPools
	}
	network := p.Network().String()
	logger := r.config.Logger.With("network", network)
	results := make([]*Result, len(pools))
	poolErrs := make([]error, len(pools))
	g := new(errgroup.Group)
	g.SetLimit(r.config.Workers)
	for i, pool := range pools {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				poolErrs[i] = &PoolError{Key: pool.Key, Err: err}
				return nil
			}
			start := time.Now()
			res, err := p.Build(ctx, pool)
			r.metrics.buildDuration.WithLabelValues(network).Observe(
				time.Since(start).Seconds(),
			)
			if err != nil {
				r.metrics.poolsFailed.WithLabelValues(network).Inc()
				logger.Error(
					fmt.Sprintf("failed to build pool: %s", err),
					"pool", pool.Key,
				)
				poolErrs[i] = &PoolError{Key: pool.Key, Err: err}
				return nil
			}
			r.metrics.poolsBuilt.WithLabelValues(network).Inc()
			logger.Info(
				"built pool",
				"pool", pool.Key,
				"lp_policy_id", res.LpPolicyId.String(),
				"pool_hash", res.PoolHash.String(),
				"order_hash", res.OrderHash.String(),
				"batching_hash", res.BatchingHash.String(),
			)
			results[i] = res
			return nil
		})
	}
	// Workers never return an error
	_ = g.Wait()
	return results, errors.Join(poolErrs...)
}
