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

// Package plutusdata turns stableswap domain values into the Plutus data
// values the on-chain scripts take as parameters.
package plutusdata

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/stableswap-deploy/address"
)

// Constructor tags of the on-chain credential sum types
const (
	credentialTagKey    = 0
	credentialTagScript = 1
	stakeTagInline      = 0
)

// EncodeAsset encodes an asset as Constr 0 [policyId, tokenName]
func EncodeAsset(asset Asset) (data.PlutusData, error) {
	policyId, err := decodeHexSized("policyId", asset.PolicyId, PolicyIdSize, PolicyIdSize)
	if err != nil {
		return nil, err
	}
	tokenName, err := decodeHexSized("tokenName", asset.TokenName, 0, MaxTokenNameSize)
	if err != nil {
		return nil, err
	}
	return data.NewConstr(
		0,
		data.NewByteString(policyId),
		data.NewByteString(tokenName),
	), nil
}

// EncodePoolParams encodes the pool validator parameters. The field order
// must match the validator's PoolParams type.
func EncodePoolParams(params PoolParams) (data.PlutusData, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	nftAsset, err := EncodeAsset(params.NftAsset)
	if err != nil {
		return nil, wrapField("nftAsset", err)
	}
	lpAsset, err := EncodeAsset(params.LpAsset)
	if err != nil {
		return nil, wrapField("lpAsset", err)
	}
	licenseSymbol, err := decodeHexSized("licenseSymbol", params.LicenseSymbol, PolicyIdSize, PolicyIdSize)
	if err != nil {
		return nil, err
	}
	adminAsset, err := EncodeAsset(params.AdminAsset)
	if err != nil {
		return nil, wrapField("adminAsset", err)
	}
	assets := make([]data.PlutusData, 0, len(params.Assets))
	for idx, asset := range params.Assets {
		tmpAsset, err := EncodeAsset(asset)
		if err != nil {
			return nil, wrapField(fmt.Sprintf("assets[%d]", idx), err)
		}
		assets = append(assets, tmpAsset)
	}
	multiples := make([]data.PlutusData, 0, len(params.Multiples))
	for _, multiple := range params.Multiples {
		multiples = append(multiples, EncodeInteger(multiple))
	}
	return data.NewConstr(
		0,
		nftAsset,
		lpAsset,
		data.NewByteString(licenseSymbol),
		adminAsset,
		EncodeInteger(params.MaximumDeadlineRange),
		data.NewList(assets...),
		data.NewList(multiples...),
		EncodeInteger(params.Fee),
		EncodeInteger(params.AdminFee),
		EncodeInteger(params.Denominator),
	), nil
}

// EncodeInteger encodes an arbitrary precision integer. The value is copied.
func EncodeInteger(val *big.Int) data.PlutusData {
	return data.NewInteger(new(big.Int).Set(val))
}

// EncodeHash encodes a hex encoded hash as a byte string
func EncodeHash(hashHex string) (data.PlutusData, error) {
	hashBytes, err := decodeHexSized("hash", hashHex, address.HashSize, address.HashSize)
	if err != nil {
		return nil, err
	}
	return data.NewByteString(hashBytes), nil
}

// EncodeHashBytes encodes a raw hash as a byte string
func EncodeHashBytes(hash []byte) (data.PlutusData, error) {
	if len(hash) != address.HashSize {
		return nil, newEncodingError(
			"hash",
			fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, address.HashSize, len(hash)),
		)
	}
	tmp := make([]byte, len(hash))
	copy(tmp, hash)
	return data.NewByteString(tmp), nil
}

// EncodeStakeCredential encodes a stake credential the way it appears inside
// an on-chain address: the inline stake credential constructor wrapping the
// key (0) or script (1) credential constructor.
func EncodeStakeCredential(cred address.Credential) (data.PlutusData, error) {
	var inner data.PlutusData
	hash := data.NewByteString(cred.Hash.Bytes())
	switch cred.Kind {
	case address.CredentialKey:
		inner = data.NewConstr(credentialTagKey, hash)
	case address.CredentialScript:
		inner = data.NewConstr(credentialTagScript, hash)
	default:
		return nil, newEncodingError(
			"stakeCredential",
			fmt.Errorf("%w: %s", address.ErrInvalidCredential, cred.Kind),
		)
	}
	return data.NewConstr(stakeTagInline, inner), nil
}

// Canonical returns the CBOR encoding of a Plutus data value. Equal values
// always produce equal bytes.
func Canonical(val data.PlutusData) ([]byte, error) {
	ret, err := data.Encode(val)
	if err != nil {
		return nil, newEncodingError("", err)
	}
	return ret, nil
}

func wrapField(field string, err error) error {
	var encErr *EncodingError
	if errors.As(err, &encErr) {
		return newEncodingError(field+"."+encErr.Field, encErr.Err)
	}
	return newEncodingError(field, err)
}
