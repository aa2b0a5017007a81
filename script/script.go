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

// Package script applies parameters to Plutus script templates and derives
// script hashes.
package script

import (
	"encoding/hex"
	"fmt"
	"strings"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// PlutusVersion is the Plutus language version of a script
type PlutusVersion uint8

const (
	PlutusV1 PlutusVersion = 1
	PlutusV2 PlutusVersion = 2
	PlutusV3 PlutusVersion = 3
)

// ParsePlutusVersion parses the "v2" style names used by blueprints
func ParsePlutusVersion(s string) (PlutusVersion, error) {
	switch strings.ToLower(s) {
	case "v1", "plutusv1":
		return PlutusV1, nil
	case "v2", "plutusv2", "":
		return PlutusV2, nil
	case "v3", "plutusv3":
		return PlutusV3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
}

// languageTag returns the prefix byte hashed together with the script bytes
func (v PlutusVersion) languageTag() (byte, error) {
	switch v {
	case PlutusV1:
		return byte(lcommon.ScriptRefTypePlutusV1), nil
	case PlutusV2:
		return byte(lcommon.ScriptRefTypePlutusV2), nil
	case PlutusV3:
		return byte(lcommon.ScriptRefTypePlutusV3), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownVersion, v)
	}
}

// TextEnvelopeType returns the cardano-cli text envelope type for the version
func (v PlutusVersion) TextEnvelopeType() string {
	return fmt.Sprintf("PlutusScriptV%d", v)
}

func (v PlutusVersion) String() string {
	return fmt.Sprintf("v%d", v)
}

// Script is wrapped script bytes together with the parameters it still expects.
// Values are immutable: Apply returns a new Script.
type Script struct {
	bytes   []byte
	pending []Parameter
	version PlutusVersion
	// arity is unknown for templates without a parameter list
	arityKnown bool
}

// NewScript normalizes the envelope of scriptBytes. Parameters lists the
// parameters the script still expects, in application order; pass nil when
// the arity is not known.
func NewScript(scriptBytes []byte, version PlutusVersion, parameters []Parameter) Script {
	return newScript(NormalizeEnvelope(scriptBytes), version, parameters)
}

// NewScriptStrict is NewScript but rejects ambiguous envelopes
func NewScriptStrict(scriptBytes []byte, version PlutusVersion, parameters []Parameter) (Script, error) {
	normalized, err := NormalizeEnvelopeStrict(scriptBytes)
	if err != nil {
		return Script{}, err
	}
	return newScript(normalized, version, parameters), nil
}

func newScript(normalized []byte, version PlutusVersion, parameters []Parameter) Script {
	ret := Script{
		bytes:      normalized,
		version:    version,
		arityKnown: parameters != nil,
	}
	if parameters != nil {
		ret.pending = append([]Parameter{}, parameters...)
	}
	return ret
}

// Bytes returns the wrapped script bytes
func (s Script) Bytes() []byte {
	return append([]byte{}, s.bytes...)
}

// Hex returns the wrapped script bytes as hex, the form used for cborHex
func (s Script) Hex() string {
	return hex.EncodeToString(s.bytes)
}

func (s Script) Version() PlutusVersion {
	return s.version
}

// Remaining returns the number of parameters still expected, or -1 if unknown
func (s Script) Remaining() int {
	if !s.arityKnown {
		return -1
	}
	return len(s.pending)
}

// LedgerBytes returns the script bytes as they appear on chain (one CBOR
// byte string layer around the flat program)
func (s Script) LedgerBytes() ([]byte, error) {
	inner, ok := unwrapOnce(s.bytes)
	if !ok {
		return nil, ErrMalformedScript
	}
	if _, ok := unwrapOnce(inner); !ok {
		return nil, ErrMalformedScript
	}
	return inner, nil
}

func (s Script) flat() ([]byte, error) {
	inner, err := s.LedgerBytes()
	if err != nil {
		return nil, err
	}
	flat, _ := unwrapOnce(inner)
	return flat, nil
}
