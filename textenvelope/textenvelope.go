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

// Package textenvelope reads and writes cardano-cli text envelope files
// (script files and verification key files).
package textenvelope

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/stableswap-deploy/script"
)

const (
	TypeStakeVKey         = "StakeVerificationKeyShelley_ed25519"
	TypeStakeExtendedVKey = "StakeExtendedVerificationKeyShelley_ed25519_bip32"
	TypePaymentVKey       = "PaymentVerificationKeyShelley_ed25519"
)

const (
	ed25519PublicKeySize  = 32
	ed25519ExtendedVKSize = 64
)

// maxEnvelopeSize bounds envelope reads; script envelopes are well under this size
const maxEnvelopeSize = 16 << 20

var (
	ErrUnsupportedType = errors.New("unsupported text envelope type")
	ErrInvalidKey      = errors.New("invalid verification key")
)

// Envelope is the JSON structure of a cardano-cli text envelope
type Envelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// ReadFile loads a text envelope from a file path
func ReadFile(path string) (*Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open text envelope %q: %w", path, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxEnvelopeSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read text envelope %q: %w", path, err)
	}
	env, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text envelope %q: %w", path, err)
	}
	return env, nil
}

// Parse parses a text envelope
func Parse(fileBytes []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(fileBytes, &env); err != nil {
		return nil, fmt.Errorf("could not parse text envelope: %w", err)
	}
	return &env, nil
}

// Bytes returns the decoded cborHex payload
func (e *Envelope) Bytes() ([]byte, error) {
	ret, err := hex.DecodeString(e.CborHex)
	if err != nil {
		return nil, fmt.Errorf("could not decode cborHex: %w", err)
	}
	return ret, nil
}

// WriteFile writes the envelope as indented JSON
func (e *Envelope) WriteFile(path string) error {
	buf, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// NewScriptEnvelope returns the text envelope for a script, as written by
// cardano-cli for PlutusScriptV2 files
func NewScriptEnvelope(s script.Script) *Envelope {
	return &Envelope{
		Type:    s.Version().TextEnvelopeType(),
		CborHex: s.Hex(),
	}
}

// Script decodes a script text envelope
func (e *Envelope) Script() (script.Script, error) {
	var version script.PlutusVersion
	switch e.Type {
	case script.PlutusV1.TextEnvelopeType():
		version = script.PlutusV1
	case script.PlutusV2.TextEnvelopeType():
		version = script.PlutusV2
	case script.PlutusV3.TextEnvelopeType():
		version = script.PlutusV3
	default:
		return script.Script{}, fmt.Errorf("%w: %s", ErrUnsupportedType, e.Type)
	}
	scriptBytes, err := e.Bytes()
	if err != nil {
		return script.Script{}, err
	}
	return script.NewScript(scriptBytes, version, nil), nil
}

// KeyHash returns the Blake2b-224 hash of a verification key envelope
func (e *Envelope) KeyHash() (lcommon.Blake2b224, error) {
	cborData, err := e.Bytes()
	if err != nil {
		return lcommon.Blake2b224{}, err
	}
	var keyBytes []byte
	if _, err := cbor.Decode(cborData, &keyBytes); err != nil {
		return lcommon.Blake2b224{}, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	switch e.Type {
	case TypeStakeVKey, TypePaymentVKey:
		if len(keyBytes) != ed25519PublicKeySize {
			return lcommon.Blake2b224{}, fmt.Errorf(
				"%w: expected %d bytes, got %d",
				ErrInvalidKey,
				ed25519PublicKeySize,
				len(keyBytes),
			)
		}
	case TypeStakeExtendedVKey:
		// Public key followed by the chain code
		if len(keyBytes) != ed25519ExtendedVKSize {
			return lcommon.Blake2b224{}, fmt.Errorf(
				"%w: expected %d bytes, got %d",
				ErrInvalidKey,
				ed25519ExtendedVKSize,
				len(keyBytes),
			)
		}
		keyBytes = keyBytes[:ed25519PublicKeySize]
	default:
		return lcommon.Blake2b224{}, fmt.Errorf("%w: %s", ErrUnsupportedType, e.Type)
	}
	return lcommon.Blake2b224Hash(keyBytes), nil
}
