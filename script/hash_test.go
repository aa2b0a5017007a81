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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownScript(t *testing.T) {
	for _, input := range []string{testFlatHex, testLedgerHex, testWrappedHex} {
		s := NewScript(mustHex(t, input), PlutusV2, nil)
		hash, err := Hash(s)
		require.NoError(t, err)
		assert.Equal(t, testLedgerHash, hash.String())
	}
}

func TestHashDependsOnVersion(t *testing.T) {
	v2, err := Hash(NewScript(mustHex(t, testLedgerHex), PlutusV2, nil))
	require.NoError(t, err)
	v3, err := Hash(NewScript(mustHex(t, testLedgerHex), PlutusV3, nil))
	require.NoError(t, err)
	assert.NotEqual(t, v2, v3)
}

func TestHashErrors(t *testing.T) {
	_, err := Hash(Script{})
	var hashErr *HashError
	require.ErrorAs(t, err, &hashErr)
	assert.ErrorIs(t, err, ErrUnknownVersion)

	_, err = Hash(Script{version: PlutusV2, bytes: []byte{0x01}})
	require.ErrorAs(t, err, &hashErr)
	assert.ErrorIs(t, err, ErrMalformedScript)
}

func TestParsePlutusVersion(t *testing.T) {
	v, err := ParsePlutusVersion("v3")
	require.NoError(t, err)
	assert.Equal(t, PlutusV3, v)
	v, err = ParsePlutusVersion("")
	require.NoError(t, err)
	assert.Equal(t, PlutusV2, v)
	_, err = ParsePlutusVersion("v9")
	require.ErrorIs(t, err, ErrUnknownVersion)
	assert.Equal(t, "PlutusScriptV2", PlutusV2.TextEnvelopeType())
}
