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

package deployment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/blinklabs-io/stableswap-deploy/textenvelope"
)

const (
	LpMintingFile     = "lp_minting_policy.plutus"
	PoolScriptFile    = "pool_script.plutus"
	OrderScriptFile   = "order_script.plutus"
	OrderBatchingFile = "order_batching_script.plutus"
	DescriptorsFile   = "stableswap-script.json"
)

// Writer lays out build output as <dir>/<network>/<pool key>/*.plutus plus
// <dir>/<network>/stableswap-script.json
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Writer{
		dir:    dir,
		logger: logger.With("component", "deployment"),
	}
}

// WriteNetwork writes the script files of every non-nil result and the
// descriptor list for the network. The returned descriptors are in result
// order with failed pools skipped. A pool that cannot be written does not
// stop its siblings; each failure is returned as a *pipeline.PoolError
// joined into the error.
func (w *Writer) WriteNetwork(network string, results []*pipeline.Result) ([]Descriptor, error) {
	networkDir := filepath.Join(w.dir, network)
	descriptors := make([]Descriptor, 0, len(results))
	var errs []error
	for _, res := range results {
		if res == nil {
			continue
		}
		desc, err := w.writePool(networkDir, res)
		if err != nil {
			w.logger.Error(
				"failed to write pool",
				"network", network,
				"pool", res.Pool.Key,
				"error", err,
			)
			errs = append(errs, &pipeline.PoolError{Key: res.Pool.Key, Err: err})
			continue
		}
		descriptors = append(descriptors, desc)
	}
	if err := WriteDescriptors(filepath.Join(networkDir, DescriptorsFile), descriptors); err != nil {
		errs = append(errs, err)
		return descriptors, errors.Join(errs...)
	}
	w.logger.Info(
		fmt.Sprintf("wrote %d pool descriptor(s)", len(descriptors)),
		"network", network,
		"path", networkDir,
	)
	return descriptors, errors.Join(errs...)
}

func (w *Writer) writePool(networkDir string, res *pipeline.Result) (Descriptor, error) {
	desc, err := NewDescriptor(res)
	if err != nil {
		return Descriptor{}, err
	}
	if err := w.writeScripts(networkDir, res); err != nil {
		return Descriptor{}, err
	}
	return desc, nil
}

func (w *Writer) writeScripts(networkDir string, res *pipeline.Result) error {
	if err := ValidateKey(res.Pool.Key); err != nil {
		return err
	}
	poolDir := filepath.Join(networkDir, res.Pool.Key)
	if err := os.MkdirAll(poolDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	files := []struct {
		name   string
		script script.Script
	}{
		{LpMintingFile, res.LpMinting},
		{PoolScriptFile, res.PoolScript},
		{OrderScriptFile, res.OrderScript},
		{OrderBatchingFile, res.OrderBatching},
	}
	for _, f := range files {
		path := filepath.Join(poolDir, f.name)
		if err := textenvelope.NewScriptEnvelope(f.script).WriteFile(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		w.logger.Debug("wrote script", "path", path)
	}
	return nil
}

// WriteDescriptors writes the descriptor list as indented JSON
func WriteDescriptors(path string, descriptors []Descriptor) error {
	if descriptors == nil {
		descriptors = []Descriptor{}
	}
	out, err := json.MarshalIndent(descriptors, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

// ReadDescriptors reads a descriptor list written by WriteDescriptors
func ReadDescriptors(path string) ([]Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ret []Descriptor
	if err := json.Unmarshal(raw, &ret); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ret, nil
}

// ValidateKey reports whether key can name a pool output directory
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
