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
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/stableswap-deploy/deployment"
	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBlueprintPath = "script/testdata/plutus.json"
	testAssetSymbol   = "e16c2dc8ae937e8d3790c7fd7168d7b994621ba14ca11415f39fed72"
	testNftSymbol     = "06fe1ba957728130154154d5e5b25a7b533ebe6c4516356c0aa69355"
	testLicenseSymbol = "defbf038da8ec085f9a304f13946f34522c2f7866bac9def8391685b"
)

func testPool(key string, tokenName string) pipeline.PoolConfig {
	return pipeline.PoolConfig{
		Key:                  key,
		NftAsset:             plutusdata.Asset{PolicyId: testNftSymbol, TokenName: tokenName},
		LicenseSymbol:        testLicenseSymbol,
		AdminAsset:           plutusdata.Asset{PolicyId: testLicenseSymbol, TokenName: "41444d494e"},
		MaximumDeadlineRange: big.NewInt(77760000000),
		Assets: []plutusdata.Asset{
			{PolicyId: testAssetSymbol, TokenName: "74444a4544"},
			{PolicyId: testAssetSymbol, TokenName: "7469555344"},
		},
		Multiples:      []*big.Int{big.NewInt(1), big.NewInt(1)},
		Fee:            big.NewInt(1000000),
		AdminFee:       big.NewInt(5000000000),
		FeeDenominator: big.NewInt(10000000000),
	}
}

func TestNewValidation(t *testing.T) {
	testDefs := []struct {
		name     string
		opts     []ConfigOptionFunc
		expected error
	}{
		{
			name:     "no blueprint",
			opts:     []ConfigOptionFunc{WithNetworkPools("testnet", nil)},
			expected: ErrNoBlueprint,
		},
		{
			name:     "no networks",
			opts:     []ConfigOptionFunc{WithBlueprintFile(testBlueprintPath)},
			expected: ErrNoNetworks,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := New(NewConfig(testDef.opts...))
			assert.ErrorIs(t, err, testDef.expected)
		})
	}
	_, err := New(NewConfig(
		WithBlueprintFile(testBlueprintPath),
		WithNetworkPools("guildnet", nil),
	))
	assert.Error(t, err)
	_, err = New(NewConfig(
		WithBlueprintFile(testBlueprintPath),
		WithNetworkPools("testnet", nil),
		WithNetworkPools("testnet", nil),
	))
	assert.ErrorContains(t, err, "duplicate network")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "scripts")
	metricsFile := filepath.Join(dir, "metrics.prom")
	d, err := New(NewConfig(
		WithBlueprintFile(testBlueprintPath),
		WithNetworkPools("testnet", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
			testPool("usdc-usdt", "757364632d757364742d76312e322d6c70"),
		}),
		WithNetworkPools("mainnet", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
		}),
		WithOutputDir(outDir),
		WithRegistryDir(filepath.Join(dir, "registry")),
		WithMetricsFile(metricsFile),
		WithWorkers(2),
	))
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Networks, 2)
	assert.NotEmpty(t, report.BlueprintHash)

	testnet := report.Networks[0]
	assert.Equal(t, "testnet", testnet.Name)
	require.Len(t, testnet.Descriptors, 2)
	assert.Empty(t, testnet.Failed)
	mainnet := report.Networks[1]
	require.Len(t, mainnet.Descriptors, 1)
	// Same pool on both networks: same scripts, different addresses
	assert.Equal(t, testnet.Descriptors[0].PoolHash, mainnet.Descriptors[0].PoolHash)
	assert.True(t, strings.HasPrefix(mainnet.Descriptors[0].PoolAddress, "addr1"))

	written, err := deployment.ReadDescriptors(filepath.Join(outDir, "testnet", deployment.DescriptorsFile))
	require.NoError(t, err)
	assert.Equal(t, testnet.Descriptors, written)
	_, err = os.Stat(filepath.Join(outDir, "mainnet", "djed-iusd", deployment.OrderBatchingFile))
	require.NoError(t, err)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `stableswap_deploy_pools_built_total{network="testnet"} 2`)
	assert.Contains(t, string(metrics), `stableswap_deploy_pools_built_total{network="mainnet"} 1`)

	reg, err := deployment.NewRegistry(filepath.Join(dir, "registry"), nil)
	require.NoError(t, err)
	defer reg.Close()
	latest, err := reg.Latest(context.Background(), "testnet", "usdc-usdt")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, report.RunID, latest.RunID)
	assert.Equal(t, report.BlueprintHash, latest.BlueprintHash)
}

func TestRunIsolatesPoolFailures(t *testing.T) {
	bad := testPool("broken", "6c70")
	bad.Multiples = bad.Multiples[:1]
	d, err := New(NewConfig(
		WithBlueprintFile(testBlueprintPath),
		WithNetworkPools("testnet", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
			bad,
		}),
	))
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	require.Error(t, err)
	var poolErr *pipeline.PoolError
	require.ErrorAs(t, err, &poolErr)
	assert.Equal(t, "broken", poolErr.Key)
	assert.ErrorIs(t, err, plutusdata.ErrLengthMismatch)
	require.NotNil(t, report)
	require.Len(t, report.Networks, 1)
	assert.Len(t, report.Networks[0].Descriptors, 1)
	assert.Equal(t, []string{"broken"}, report.Networks[0].Failed)
}

func TestRunReportsWriteFailures(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "scripts")
	d, err := New(NewConfig(
		WithBlueprintFile(testBlueprintPath),
		WithNetworkPools("testnet", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
			testPool("a/b", "6c70"),
		}),
		WithOutputDir(outDir),
	))
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	require.ErrorIs(t, err, deployment.ErrInvalidKey)
	require.NotNil(t, report)
	require.Len(t, report.Networks, 1)
	require.Len(t, report.Networks[0].Descriptors, 1)
	assert.Equal(t, "djed-iusd", report.Networks[0].Descriptors[0].Key)
	assert.Equal(t, []string{"a/b"}, report.Networks[0].Failed)
	_, err = os.Stat(filepath.Join(outDir, "testnet", "djed-iusd", deployment.PoolScriptFile))
	require.NoError(t, err)
}

func TestRunMissingTemplate(t *testing.T) {
	raw, err := os.ReadFile(testBlueprintPath)
	require.NoError(t, err)
	var bp map[string]any
	require.NoError(t, json.Unmarshal(raw, &bp))
	validators := bp["validators"].([]any)
	kept := make([]any, 0, len(validators))
	for _, v := range validators {
		if v.(map[string]any)["title"] == "pool_validator.validate_pool" {
			continue
		}
		kept = append(kept, v)
	}
	bp["validators"] = kept
	out, err := json.Marshal(bp)
	require.NoError(t, err)
	dir := t.TempDir()
	bpPath := filepath.Join(dir, "plutus.json")
	require.NoError(t, os.WriteFile(bpPath, out, 0o644))

	outDir := filepath.Join(dir, "scripts")
	d, err := New(NewConfig(
		WithBlueprintFile(bpPath),
		WithNetworkPools("testnet", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
		}),
		WithOutputDir(outDir),
	))
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	var missing *script.MissingTemplateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []script.Role{script.RolePool}, missing.Roles)
	assert.Nil(t, report)
	_, err = os.Stat(outDir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunWithTemplatesNoOutput(t *testing.T) {
	bp, err := script.NewBlueprintFromFile(testBlueprintPath)
	require.NoError(t, err)
	templates, err := bp.Templates()
	require.NoError(t, err)
	d, err := New(NewConfig(
		WithTemplates(templates),
		WithNetworkPools("preprod", []pipeline.PoolConfig{
			testPool("djed-iusd", "646a65642d697573642d76312e322d6c70"),
		}),
		WithNetworkPools("mainnet", nil),
		WithStrictEnvelope(true),
	))
	require.NoError(t, err)
	report, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Networks, 2)
	assert.Equal(t, "preprod", report.Networks[0].Name)
	require.Len(t, report.Networks[0].Descriptors, 1)
	assert.True(t, strings.HasPrefix(report.Networks[0].Descriptors[0].PoolAddress, "addr_test1"))
	assert.Empty(t, report.Networks[1].Descriptors)
}
