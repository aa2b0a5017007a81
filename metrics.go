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

package deployer

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var errNoGatherer = errors.New("prometheus registry cannot be gathered")

// writeMetricsFile writes the registry in the format read by the node
// exporter textfile collector
func writeMetricsFile(path string, registry prometheus.Registerer) error {
	gatherer, ok := registry.(prometheus.Gatherer)
	if !ok {
		return errNoGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
