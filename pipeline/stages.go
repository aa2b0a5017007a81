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
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/blinklabs-io/stableswap-deploy/script"
)

// Stage applies parameters to one template. Params may only read values
// stored by earlier stages.
type Stage struct {
	Name   string
	Role   script.Role
	Params func(res *Result) ([]data.PlutusData, error)
	Store  func(res *Result, s script.Script, hash lcommon.Blake2b224)
}

// Stages is the fixed stage order. Each stage consumes the hash produced by
// the stage before it.
var Stages = []Stage{
	{
		Name:   "lp_minting",
		Role:   script.RoleLpMinting,
		Params: lpMintingParams,
		Store: func(res *Result, s script.Script, hash lcommon.Blake2b224) {
			res.LpMinting = s
			res.LpPolicyId = hash
			res.LpAsset = plutusdata.Asset{
				PolicyId:  hash.String(),
				TokenName: res.Pool.NftAsset.TokenName,
			}
		},
	},
	{
		Name:   "pool",
		Role:   script.RolePool,
		Params: poolParams,
		Store: func(res *Result, s script.Script, hash lcommon.Blake2b224) {
			res.PoolScript = s
			res.PoolHash = hash
		},
	},
	{
		Name:   "order_batching",
		Role:   script.RoleOrderBatching,
		Params: orderBatchingParams,
		Store: func(res *Result, s script.Script, hash lcommon.Blake2b224) {
			res.OrderBatching = s
			res.BatchingHash = hash
		},
	},
	{
		Name:   "order",
		Role:   script.RoleOrder,
		Params: orderParams,
		Store: func(res *Result, s script.Script, hash lcommon.Blake2b224) {
			res.OrderScript = s
			res.OrderHash = hash
		},
	},
}

func lpMintingParams(res *Result) ([]data.PlutusData, error) {
	nftAsset, err := plutusdata.EncodeAsset(res.Pool.NftAsset)
	if err != nil {
		return nil, err
	}
	return []data.PlutusData{nftAsset}, nil
}

func poolParams(res *Result) ([]data.PlutusData, error) {
	res.PoolParams = plutusdata.PoolParams{
		NftAsset:             res.Pool.NftAsset,
		LpAsset:              res.LpAsset,
		LicenseSymbol:        res.Pool.LicenseSymbol,
		AdminAsset:           res.Pool.AdminAsset,
		MaximumDeadlineRange: res.Pool.MaximumDeadlineRange,
		Assets:               res.Pool.Assets,
		Multiples:            res.Pool.Multiples,
		Fee:                  res.Pool.Fee,
		AdminFee:             res.Pool.AdminFee,
		Denominator:          res.Pool.FeeDenominator,
	}
	encoded, err := plutusdata.EncodePoolParams(res.PoolParams)
	if err != nil {
		return nil, err
	}
	return []data.PlutusData{encoded}, nil
}

func orderBatchingParams(res *Result) ([]data.PlutusData, error) {
	poolHash, err := plutusdata.EncodeHashBytes(res.PoolHash.Bytes())
	if err != nil {
		return nil, err
	}
	return []data.PlutusData{poolHash}, nil
}

func orderParams(res *Result) ([]data.PlutusData, error) {
	cred, err := plutusdata.EncodeStakeCredential(
		address.ScriptCredential(res.BatchingHash),
	)
	if err != nil {
		return nil, err
	}
	return []data.PlutusData{cred}, nil
}
