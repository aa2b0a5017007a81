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
	"github.com/blinklabs-io/gouroboros/cbor"
)

// EnvelopeState is the result of classifying script bytes by trial decoding
type EnvelopeState int

const (
	// EnvelopeUnwrapped is a bare flat program or a ledger script (one CBOR
	// byte string layer), as found in blueprint compiledCode
	EnvelopeUnwrapped EnvelopeState = iota
	// EnvelopeWrapped is a ledger script wrapped once more, the form used by
	// text envelopes and parameter application
	EnvelopeWrapped
	// EnvelopeAmbiguous decodes as more layers than a wrapped script has
	EnvelopeAmbiguous
)

const wrappedDepth = 2

func (s EnvelopeState) String() string {
	switch s {
	case EnvelopeUnwrapped:
		return "unwrapped"
	case EnvelopeWrapped:
		return "wrapped"
	case EnvelopeAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// ClassifyEnvelope reports how many CBOR byte string layers surround a program
func ClassifyEnvelope(scriptBytes []byte) EnvelopeState {
	switch depth := envelopeDepth(scriptBytes, wrappedDepth+1); {
	case depth < wrappedDepth:
		return EnvelopeUnwrapped
	case depth == wrappedDepth:
		return EnvelopeWrapped
	default:
		return EnvelopeAmbiguous
	}
}

// NormalizeEnvelope returns the script wrapped to the envelope depth expected
// by parameter application and text envelopes. Bare flat input gains two
// CBOR layers, single-layer input gains one. Already wrapped input is
// returned unchanged, as is ambiguous input. NormalizeEnvelope is idempotent.
func NormalizeEnvelope(scriptBytes []byte) []byte {
	depth := envelopeDepth(scriptBytes, wrappedDepth+1)
	ret := scriptBytes
	for ; depth < wrappedDepth; depth++ {
		ret = wrapOnce(ret)
	}
	return ret
}

// NormalizeEnvelopeStrict is NormalizeEnvelope but rejects ambiguous input
func NormalizeEnvelopeStrict(scriptBytes []byte) ([]byte, error) {
	if ClassifyEnvelope(scriptBytes) == EnvelopeAmbiguous {
		return nil, ErrAmbiguousEnvelope
	}
	return NormalizeEnvelope(scriptBytes), nil
}

func envelopeDepth(scriptBytes []byte, maxDepth int) int {
	depth := 0
	for depth < maxDepth {
		inner, ok := unwrapOnce(scriptBytes)
		if !ok {
			break
		}
		scriptBytes = inner
		depth++
	}
	return depth
}

// unwrapOnce decodes a CBOR byte string that spans the whole input
func unwrapOnce(scriptBytes []byte) ([]byte, bool) {
	if len(scriptBytes) == 0 {
		return nil, false
	}
	var inner []byte
	n, err := cbor.Decode(scriptBytes, &inner)
	if err != nil || n != len(scriptBytes) || inner == nil {
		return nil, false
	}
	return inner, true
}

func wrapOnce(scriptBytes []byte) []byte {
	if scriptBytes == nil {
		// A nil slice would encode as CBOR null
		scriptBytes = []byte{}
	}
	ret, err := cbor.Encode(scriptBytes)
	if err != nil {
		// Encoding a byte string only fails on allocation failure
		panic("cbor encode of byte string failed: " + err.Error())
	}
	return ret
}
