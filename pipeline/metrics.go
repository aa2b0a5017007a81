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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type runnerMetrics struct {
	poolsBuilt    *prometheus.CounterVec
	poolsFailed   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
}

// initMetrics registers the runner metrics. A nil registry leaves the
// metrics unregistered.
func (r *Runner) initMetrics() {
	promautoFactory := promauto.With(r.config.PromRegistry)
	r.metrics = &runnerMetrics{}
	r.metrics.poolsBuilt = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stableswap_deploy_pools_built_total",
			Help: "number of pools built successfully",
		},
		[]string{"network"},
	)
	r.metrics.poolsFailed = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stableswap_deploy_pools_failed_total",
			Help: "number of pools whose build failed",
		},
		[]string{"network"},
	)
	r.metrics.buildDuration = promautoFactory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stableswap_deploy_pool_build_seconds",
			Help:    "time spent building a single pool",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"network"},
	)
}
