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

package plutusdata

import (
	"fmt"
	"math/big"
)

// PoolParams are the parameters of the stableswap pool validator
type PoolParams struct {
	NftAsset             Asset
	LpAsset              Asset
	LicenseSymbol        string
	AdminAsset           Asset
	MaximumDeadlineRange *big.Int
	Assets               []Asset
	Multiples            []*big.Int
	Fee                  *big.Int
	AdminFee             *big.Int
	Denominator          *big.Int
}

// Validate checks the structural invariants of the parameters. Integer
// signs are not checked here.
func (p PoolParams) Validate() error {
	if len(p.Assets) != len(p.Multiples) {
		return newEncodingError(
			"multiples",
			fmt.Errorf(
				"%w: %d assets, %d multiples",
				ErrLengthMismatch,
				len(p.Assets),
				len(p.Multiples),
			),
		)
	}
	for name, val := range map[string]*big.Int{
		"maximumDeadlineRange": p.MaximumDeadlineRange,
		"fee":                  p.Fee,
		"adminFee":             p.AdminFee,
		"denominator":          p.Denominator,
	} {
		if val == nil {
			return newEncodingError(name, ErrMissingInteger)
		}
	}
	for idx, val := range p.Multiples {
		if val == nil {
			return newEncodingError(fmt.Sprintf("multiples[%d]", idx), ErrMissingInteger)
		}
	}
	return nil
}
