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

package textenvelope

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStakeVKeyJSON = `{
    "type": "StakeVerificationKeyShelley_ed25519",
    "description": "Stake Verification Key",
    "cborHex": "5820000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
}`
	testStakeKeyHash = "491112dd01155c07dab485f71b572e0cae759e2cd38b1c0e97554297"
	// lam (lam (var 2)), wrapped
	testScriptHex  = "4746010000220021"
	testScriptHash = "b8ea348cb4e1661d63b020b6cef0af303f9d98f06319566a2051918d"
)

func TestStakeKeyHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stake.vkey")
	require.NoError(t, os.WriteFile(path, []byte(testStakeVKeyJSON), 0o600))
	env, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, TypeStakeVKey, env.Type)
	hash, err := env.KeyHash()
	require.NoError(t, err)
	assert.Equal(t, testStakeKeyHash, hash.String())
}

func TestExtendedStakeKeyHash(t *testing.T) {
	env := &Envelope{
		Type: TypeStakeExtendedVKey,
		CborHex: "5840000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f" +
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}
	hash, err := env.KeyHash()
	require.NoError(t, err)
	assert.Equal(t, testStakeKeyHash, hash.String())
}

func TestKeyHashErrors(t *testing.T) {
	_, err := (&Envelope{Type: "PaymentSigningKeyShelley_ed25519", CborHex: "4100"}).KeyHash()
	require.ErrorIs(t, err, ErrUnsupportedType)
	_, err = (&Envelope{Type: TypeStakeVKey, CborHex: "4100"}).KeyHash()
	require.ErrorIs(t, err, ErrInvalidKey)
	_, err = (&Envelope{Type: TypeStakeVKey, CborHex: "zz"}).KeyHash()
	require.Error(t, err)
}

func TestScriptEnvelopeRoundTrip(t *testing.T) {
	scriptBytes, err := hex.DecodeString(testScriptHex)
	require.NoError(t, err)
	s := script.NewScript(scriptBytes, script.PlutusV2, nil)
	env := NewScriptEnvelope(s)
	assert.Equal(t, "PlutusScriptV2", env.Type)
	assert.Equal(t, testScriptHex, env.CborHex)

	path := filepath.Join(t.TempDir(), "script.plutus")
	require.NoError(t, env.WriteFile(path))
	loaded, err := ReadFile(path)
	require.NoError(t, err)
	loadedScript, err := loaded.Script()
	require.NoError(t, err)
	hash, err := script.Hash(loadedScript)
	require.NoError(t, err)
	assert.Equal(t, testScriptHash, hash.String())
}

func TestScriptEnvelopeUnsupported(t *testing.T) {
	_, err := (&Envelope{Type: "SimpleScript", CborHex: testScriptHex}).Script()
	require.ErrorIs(t, err, ErrUnsupportedType)
}
