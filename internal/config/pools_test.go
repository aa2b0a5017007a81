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

package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/deployment"
	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStakeVkeyHex  = "5820000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testStakeKeyHash  = "491112dd01155c07dab485f71b572e0cae759e2cd38b1c0e97554297"
	testAssetSymbol   = "e16c2dc8ae937e8d3790c7fd7168d7b994621ba14ca11415f39fed72"
	testLicenseSymbol = "defbf038da8ec085f9a304f13946f34522c2f7866bac9def8391685b"
)

const testPoolsYaml = `
networks:
  testnet:
    defaults:
      licenseSymbol: ` + testLicenseSymbol + `
      adminAsset:
        policyId: ` + testLicenseSymbol + `
        tokenName: 41444d494e
      maximumDeadlineRange: 77760000000
      fee: 1000000
      adminFee: "5000000000"
      feeDenominator: 10000000000
    pools:
      - key: djed-iusd
        nftAsset:
          policyId: 06fe1ba957728130154154d5e5b25a7b533ebe6c4516356c0aa69355
          tokenName: 646a65642d697573642d76312e322d6c70
        assets:
          - policyId: ` + testAssetSymbol + `
            tokenName: 74444a4544
          - policyId: ` + testAssetSymbol + `
            tokenName: "7469555344"
        multiples: [1, 1]
      - key: override
        nftAsset:
          policyId: 06fe1ba957728130154154d5e5b25a7b533ebe6c4516356c0aa69355
          tokenName: "6c70"
        assets:
          - policyId: ` + testAssetSymbol + `
            tokenName: 74444a4544
        multiples: [100000000000000000000000]
        fee: 3000000
        stakeCredential:
          scriptHash: ` + testStakeKeyHash + `
`

func TestPoolConfigs(t *testing.T) {
	pools, err := ParsePools([]byte(testPoolsYaml))
	require.NoError(t, err)
	configs, err := pools.PoolConfigs("testnet", "")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	first := configs[0]
	assert.Equal(t, "djed-iusd", first.Key)
	assert.Equal(t, testLicenseSymbol, first.LicenseSymbol)
	assert.Equal(t, plutusdata.Asset{PolicyId: testLicenseSymbol, TokenName: "41444d494e"}, first.AdminAsset)
	assert.Equal(t, "77760000000", first.MaximumDeadlineRange.String())
	assert.Equal(t, "1000000", first.Fee.String())
	assert.Equal(t, "5000000000", first.AdminFee.String())
	assert.Equal(t, "10000000000", first.FeeDenominator.String())
	require.Len(t, first.Multiples, 2)
	assert.Equal(t, "7469555344", first.Assets[1].TokenName)
	assert.Nil(t, first.StakeCredential)

	second := configs[1]
	assert.Equal(t, "3000000", second.Fee.String())
	assert.Equal(t, "5000000000", second.AdminFee.String())
	expectedMultiple, _ := new(big.Int).SetString("100000000000000000000000", 10)
	assert.Equal(t, 0, expectedMultiple.Cmp(second.Multiples[0]))
	require.NotNil(t, second.StakeCredential)
	assert.Equal(t, address.CredentialScript, second.StakeCredential.Kind)
	assert.Equal(t, testStakeKeyHash, second.StakeCredential.Hash.String())
}

func TestPoolConfigsDoNotShareDefaults(t *testing.T) {
	pools, err := ParsePools([]byte(testPoolsYaml))
	require.NoError(t, err)
	configs, err := pools.PoolConfigs("testnet", "")
	require.NoError(t, err)
	configs[0].AdminFee.SetInt64(1)
	assert.Equal(t, "5000000000", configs[1].AdminFee.String())
}

func TestPoolConfigsStakeVkeyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "keys"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "keys", "stake.vkey"),
		[]byte(`{"type": "StakeVerificationKeyShelley_ed25519", "description": "Stake Verification Key", "cborHex": "`+testStakeVkeyHex+`"}`),
		0o644,
	))
	content := strings.Replace(
		testPoolsYaml,
		"    defaults:\n",
		"    stakeCredential:\n      vkeyFile: keys/stake.vkey\n    defaults:\n",
		1,
	)
	poolsPath := filepath.Join(dir, "pools.yaml")
	require.NoError(t, os.WriteFile(poolsPath, []byte(content), 0o644))

	pools, err := LoadPoolsFile(poolsPath)
	require.NoError(t, err)
	configs, err := pools.PoolConfigs("testnet", dir)
	require.NoError(t, err)
	require.NotNil(t, configs[0].StakeCredential)
	assert.Equal(t, address.CredentialKey, configs[0].StakeCredential.Kind)
	assert.Equal(t, testStakeKeyHash, configs[0].StakeCredential.Hash.String())
	// A pool level credential wins over the network one
	assert.Equal(t, address.CredentialScript, configs[1].StakeCredential.Kind)
}

func TestPoolConfigsErrors(t *testing.T) {
	testDefs := []struct {
		name     string
		replace  [2]string
		expected error
	}{
		{
			name:     "negative fee",
			replace:  [2]string{"fee: 3000000", "fee: -1"},
			expected: ErrNegativeInteger,
		},
		{
			name:     "negative multiple",
			replace:  [2]string{"multiples: [1, 1]", "multiples: [1, -1]"},
			expected: ErrNegativeInteger,
		},
		{
			name:     "length mismatch",
			replace:  [2]string{"multiples: [1, 1]", "multiples: [1]"},
			expected: plutusdata.ErrLengthMismatch,
		},
		{
			name:     "duplicate key",
			replace:  [2]string{"key: override", "key: djed-iusd"},
			expected: ErrDuplicatePool,
		},
		{
			name:     "missing key",
			replace:  [2]string{"key: override", "key: \"\""},
			expected: ErrMissingValue,
		},
		{
			name:     "unsafe key",
			replace:  [2]string{"key: override", "key: ../override"},
			expected: deployment.ErrInvalidKey,
		},
		{
			name:     "missing fee",
			replace:  [2]string{"      fee: 1000000\n", ""},
			expected: ErrMissingValue,
		},
		{
			name:     "two stake credentials",
			replace:  [2]string{"scriptHash: " + testStakeKeyHash, "scriptHash: " + testStakeKeyHash + "\n          keyHash: " + testStakeKeyHash},
			expected: ErrStakeCredential,
		},
		{
			name:     "bad stake hash",
			replace:  [2]string{"scriptHash: " + testStakeKeyHash, "scriptHash: abcd"},
			expected: address.ErrInvalidCredential,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			content := strings.Replace(testPoolsYaml, testDef.replace[0], testDef.replace[1], 1)
			require.NotEqual(t, testPoolsYaml, content)
			pools, err := ParsePools([]byte(content))
			require.NoError(t, err)
			_, err = pools.PoolConfigs("testnet", "")
			assert.ErrorIs(t, err, testDef.expected)
		})
	}
}

func TestPoolConfigsBadPoolKeepsSiblings(t *testing.T) {
	content := strings.Replace(testPoolsYaml, "fee: 3000000", "fee: -3000000", 1)
	pools, err := ParsePools([]byte(content))
	require.NoError(t, err)
	configs, err := pools.PoolConfigs("testnet", "")
	require.ErrorIs(t, err, ErrNegativeInteger)
	var poolErr *pipeline.PoolError
	require.ErrorAs(t, err, &poolErr)
	assert.Equal(t, "override", poolErr.Key)
	assert.Equal(t, []string{"override"}, pipeline.FailedPools(err))
	require.Len(t, configs, 1)
	assert.Equal(t, "djed-iusd", configs[0].Key)
}

func TestPoolConfigsUnknownNetwork(t *testing.T) {
	pools, err := ParsePools([]byte(testPoolsYaml))
	require.NoError(t, err)
	_, err = pools.PoolConfigs("mainnet", "")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestParsePoolsInvalidInteger(t *testing.T) {
	content := strings.Replace(testPoolsYaml, "fee: 3000000", "fee: 1.5", 1)
	_, err := ParsePools([]byte(content))
	assert.ErrorContains(t, err, "invalid integer")
}

func TestExamplePoolsFile(t *testing.T) {
	pools, err := LoadPoolsFile("../../config/pools.example.yaml")
	require.NoError(t, err)
	require.Contains(t, pools.Networks, "testnet")
	testnet := pools.Networks["testnet"]
	require.Len(t, testnet.Pools, 3)
	assert.Equal(t, "djed-iusd-dai", testnet.Pools[2].Key)
	assert.Len(t, testnet.Pools[2].Assets, 3)
	mainnet, err := pools.PoolConfigs("mainnet", "")
	require.NoError(t, err)
	assert.Empty(t, mainnet)
}
