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

package address

import (
	"encoding/hex"
	"fmt"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// HashSize is the size in bytes of a key or script credential hash
const HashSize = 28

// CredentialKind distinguishes key hash credentials from script hash credentials
type CredentialKind uint8

const (
	CredentialKey CredentialKind = iota
	CredentialScript
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialKey:
		return "key"
	case CredentialScript:
		return "script"
	default:
		return fmt.Sprintf("credential(%d)", uint8(k))
	}
}

// Credential is a payment or stake credential
type Credential struct {
	Hash lcommon.Blake2b224
	Kind CredentialKind
}

func KeyCredential(hash lcommon.Blake2b224) Credential {
	return Credential{Kind: CredentialKey, Hash: hash}
}

func ScriptCredential(hash lcommon.Blake2b224) Credential {
	return Credential{Kind: CredentialScript, Hash: hash}
}

// NewCredentialFromHex builds a credential from a hex encoded 28-byte hash
func NewCredentialFromHex(kind CredentialKind, hashHex string) (Credential, error) {
	if kind != CredentialKey && kind != CredentialScript {
		return Credential{}, fmt.Errorf("%w: unknown kind %d", ErrInvalidCredential, kind)
	}
	hashBytes, err := hex.DecodeString(hashHex)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if len(hashBytes) != HashSize {
		return Credential{}, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidCredential,
			HashSize,
			len(hashBytes),
		)
	}
	return Credential{Kind: kind, Hash: lcommon.NewBlake2b224(hashBytes)}, nil
}

// ParseCredentialKind parses the "key" / "script" names used in config files
func ParseCredentialKind(s string) (CredentialKind, error) {
	switch s {
	case "key":
		return CredentialKey, nil
	case "script":
		return CredentialScript, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidCredential, s)
	}
}

func (c Credential) IsScript() bool {
	return c.Kind == CredentialScript
}

func (c Credential) String() string {
	return c.Kind.String() + ":" + c.Hash.String()
}
