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

// Package deployment turns pipeline results into deployment descriptors and
// persists them.
package deployment

import (
	"fmt"

	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
)

// Descriptor is the published record for one pool. Integers are decimal
// strings so consumers do not lose precision.
type Descriptor struct {
	Key                  string             `json:"key"`
	LpScript             string             `json:"lpScript"`
	PoolScript           string             `json:"poolScript"`
	OrderScript          string             `json:"orderScript"`
	OrderBatchingScript  string             `json:"orderBatchingScript"`
	LpPolicyId           string             `json:"lpPolicyId"`
	PoolHash             string             `json:"poolHash"`
	OrderHash            string             `json:"orderHash"`
	OrderBatchingHash    string             `json:"orderBatchingHash"`
	PoolAddress          string             `json:"poolAddress"`
	OrderAddress         string             `json:"orderAddress"`
	OrderBatchingAddress string             `json:"orderBatchingAddress"`
	LicenseSymbol        string             `json:"licenseSymbol"`
	AdminAsset           plutusdata.Asset   `json:"adminAsset"`
	NftAsset             plutusdata.Asset   `json:"nftAsset"`
	LpAsset              plutusdata.Asset   `json:"lpAsset"`
	Assets               []plutusdata.Asset `json:"assets"`
	Multiples            []string           `json:"multiples"`
	Fee                  string             `json:"fee"`
	AdminFee             string             `json:"adminFee"`
	FeeDenominator       string             `json:"feeDenominator"`
	MaximumDeadlineRange string             `json:"maximumDeadlineRange"`
}

func NewDescriptor(res *pipeline.Result) (Descriptor, error) {
	if res == nil {
		return Descriptor{}, ErrNilResult
	}
	poolAddr, err := res.PoolAddress.Bech32()
	if err != nil {
		return Descriptor{}, fmt.Errorf("pool address: %w", err)
	}
	orderAddr, err := res.OrderAddress.Bech32()
	if err != nil {
		return Descriptor{}, fmt.Errorf("order address: %w", err)
	}
	batchingAddr, err := res.BatchingAddress.Bech32()
	if err != nil {
		return Descriptor{}, fmt.Errorf("batching address: %w", err)
	}
	params := res.PoolParams
	multiples := make([]string, 0, len(params.Multiples))
	for _, m := range params.Multiples {
		multiples = append(multiples, m.String())
	}
	assets := make([]plutusdata.Asset, len(params.Assets))
	copy(assets, params.Assets)
	return Descriptor{
		Key:                  res.Pool.Key,
		LpScript:             res.LpMinting.Hex(),
		PoolScript:           res.PoolScript.Hex(),
		OrderScript:          res.OrderScript.Hex(),
		OrderBatchingScript:  res.OrderBatching.Hex(),
		LpPolicyId:           res.LpPolicyId.String(),
		PoolHash:             res.PoolHash.String(),
		OrderHash:            res.OrderHash.String(),
		OrderBatchingHash:    res.BatchingHash.String(),
		PoolAddress:          poolAddr,
		OrderAddress:         orderAddr,
		OrderBatchingAddress: batchingAddr,
		LicenseSymbol:        params.LicenseSymbol,
		AdminAsset:           params.AdminAsset,
		NftAsset:             params.NftAsset,
		LpAsset:              params.LpAsset,
		Assets:               assets,
		Multiples:            multiples,
		Fee:                  params.Fee.String(),
		AdminFee:             params.AdminFee.String(),
		FeeDenominator:       params.Denominator.String(),
		MaximumDeadlineRange: params.MaximumDeadlineRange.String(),
	}, nil
}
