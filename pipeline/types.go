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
	"math/big"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/blinklabs-io/stableswap-deploy/script"
)

// PoolConfig is the static configuration of one pool
type PoolConfig struct {
	// Key names the pool in output paths and descriptors
	Key                  string
	NftAsset             plutusdata.Asset
	LicenseSymbol        string
	AdminAsset           plutusdata.Asset
	MaximumDeadlineRange *big.Int
	Assets               []plutusdata.Asset
	Multiples            []*big.Int
	Fee                  *big.Int
	AdminFee             *big.Int
	FeeDenominator       *big.Int
	// StakeCredential is attached to the pool and order addresses when set
	StakeCredential *address.Credential
}

// Result holds everything derived for one pool
type Result struct {
	Pool          PoolConfig
	LpAsset       plutusdata.Asset
	PoolParams    plutusdata.PoolParams
	LpMinting     script.Script
	PoolScript    script.Script
	OrderBatching script.Script
	OrderScript   script.Script
	LpPolicyId    lcommon.Blake2b224
	PoolHash      lcommon.Blake2b224
	BatchingHash  lcommon.Blake2b224
	OrderHash     lcommon.Blake2b224
	PoolAddress   address.Address
	OrderAddress  address.Address
	// BatchingAddress is the reward address used to withdraw from the
	// batching script
	BatchingAddress address.Address
	Network         address.Network
}
