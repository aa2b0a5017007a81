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

package script

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssetData() data.PlutusData {
	return data.NewConstr(
		0,
		data.NewByteString(bytes.Repeat([]byte{0xaa}, 28)),
		data.NewByteString([]byte("lp")),
	)
}

func testAssetParameter() Parameter {
	var idx uint64
	return Parameter{
		Title: "nft_asset",
		Schema: Schema{
			AnyOf: []Schema{
				{
					DataType: "constructor",
					Index:    &idx,
					Fields:   []Schema{{DataType: "bytes"}, {DataType: "bytes"}},
				},
			},
		},
	}
}

func TestApplyProducesNewScript(t *testing.T) {
	template := NewScript(mustHex(t, testLedgerHex), PlutusV2, []Parameter{testAssetParameter()})
	require.Equal(t, 1, template.Remaining())

	applied, err := Apply(template, testAssetData())
	require.NoError(t, err)
	assert.Equal(t, 0, applied.Remaining())
	assert.Equal(t, EnvelopeWrapped, ClassifyEnvelope(applied.Bytes()))
	assert.NotEqual(t, template.Bytes(), applied.Bytes())

	templateHash, err := Hash(template)
	require.NoError(t, err)
	appliedHash, err := Hash(applied)
	require.NoError(t, err)
	assert.NotEqual(t, templateHash, appliedHash)

	// Template is unchanged
	assert.Equal(t, 1, template.Remaining())
	assert.Equal(t, testWrappedHex, template.Hex())
}

func TestApplyDeterministic(t *testing.T) {
	template := NewScript(mustHex(t, testLedgerHex), PlutusV2, []Parameter{testAssetParameter()})
	first, err := Apply(template, testAssetData())
	require.NoError(t, err)
	second, err := Apply(template, testAssetData())
	require.NoError(t, err)
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestApplyDifferentParametersDiffer(t *testing.T) {
	template := NewScript(mustHex(t, testLedgerHex), PlutusV2, nil)
	first, err := Apply(template, data.NewInteger(big.NewInt(1)))
	require.NoError(t, err)
	second, err := Apply(template, data.NewInteger(big.NewInt(2)))
	require.NoError(t, err)
	firstHash, err := Hash(first)
	require.NoError(t, err)
	secondHash, err := Hash(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstHash, secondHash)
}

func TestApplySaturatedDeclared(t *testing.T) {
	template := NewScript(mustHex(t, testLedgerHex), PlutusV2, []Parameter{testAssetParameter()})
	applied, err := Apply(template, testAssetData())
	require.NoError(t, err)
	_, err = Apply(applied, testAssetData())
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, ErrSaturated)
}

func TestApplySaturatedStructural(t *testing.T) {
	// lam (lam (var 2)) binds two parameters when the arity is not declared
	template := NewScript(mustHex(t, testFlatHex), PlutusV2, nil)
	assert.Equal(t, -1, template.Remaining())
	applied, err := ApplyAll(
		template,
		data.NewInteger(big.NewInt(1)),
		data.NewInteger(big.NewInt(2)),
	)
	require.NoError(t, err)
	_, err = Apply(applied, data.NewInteger(big.NewInt(3)))
	require.ErrorIs(t, err, ErrSaturated)
}

func TestApplyWrongType(t *testing.T) {
	template := NewScript(mustHex(t, testLedgerHex), PlutusV2, []Parameter{testAssetParameter()})
	_, err := Apply(template, data.NewByteString([]byte{0x01}))
	var appErr *ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "nft_asset", appErr.Parameter)
	assert.ErrorIs(t, err, ErrParameterType)

	_, err = Apply(template, data.NewConstr(0, data.NewByteString([]byte{0x01})))
	assert.ErrorIs(t, err, ErrParameterType)
}

func TestApplyUndecodableProgram(t *testing.T) {
	template := NewScript([]byte{0xff}, PlutusV2, nil)
	_, err := Apply(template, data.NewInteger(big.NewInt(1)))
	require.ErrorIs(t, err, ErrDecodeProgram)
}

func TestApplyAllMatchesChainedApply(t *testing.T) {
	template := NewScript(mustHex(t, testPoolFlatHex), PlutusV2, nil)
	params := []data.PlutusData{
		data.NewInteger(big.NewInt(7)),
		data.NewByteString([]byte{0x01, 0x02}),
	}
	folded, err := ApplyAll(template, params...)
	require.NoError(t, err)
	chained := template
	for _, param := range params {
		chained, err = Apply(chained, param)
		require.NoError(t, err)
	}
	assert.Equal(t, chained.Bytes(), folded.Bytes())

	// Order matters
	reversed, err := ApplyAll(template, params[1], params[0])
	require.NoError(t, err)
	assert.NotEqual(t, folded.Bytes(), reversed.Bytes())
}

func TestParameterCheck(t *testing.T) {
	var zero, one uint64 = 0, 1
	credential := Parameter{
		Title: "stake_credential",
		Schema: Schema{
			AnyOf: []Schema{
				{DataType: "constructor", Index: &zero, Fields: []Schema{{}}},
				{DataType: "constructor", Index: &one, Fields: []Schema{{}, {}, {}}},
			},
		},
	}
	inline := data.NewConstr(0, data.NewConstr(1, data.NewByteString([]byte{0x01})))
	require.NoError(t, credential.Check(inline))
	require.ErrorIs(t, credential.Check(data.NewConstr(2)), ErrParameterType)
	require.ErrorIs(t, credential.Check(data.NewConstr(1)), ErrParameterType)

	bytesParam := Parameter{Title: "pool_hash", Schema: Schema{DataType: "bytes"}}
	require.NoError(t, bytesParam.Check(data.NewByteString([]byte{0x01})))
	require.ErrorIs(t, bytesParam.Check(data.NewInteger(big.NewInt(1))), ErrParameterType)

	anyParam := Parameter{Title: "anything"}
	require.NoError(t, anyParam.Check(data.NewList()))
	require.ErrorIs(t, anyParam.Check(nil), ErrParameterType)
}
