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
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Hash returns the script hash: Blake2b-224 over the language tag followed by
// the ledger script bytes. The hash is also the policy ID of a minting script.
func Hash(s Script) (lcommon.Blake2b224, error) {
	tag, err := s.version.languageTag()
	if err != nil {
		return lcommon.Blake2b224{}, &HashError{Err: err}
	}
	ledgerBytes, err := s.LedgerBytes()
	if err != nil {
		return lcommon.Blake2b224{}, &HashError{Err: err}
	}
	tmp := make([]byte, 0, 1+len(ledgerBytes))
	tmp = append(tmp, tag)
	tmp = append(tmp, ledgerBytes...)
	return lcommon.Blake2b224Hash(tmp), nil
}
