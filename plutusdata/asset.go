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
	"encoding/hex"
	"fmt"
	"regexp"
)

const (
	PolicyIdSize     = 28
	MaxTokenNameSize = 32
)

var lowerHexRegexp = regexp.MustCompile(`^(?:[0-9a-f]{2})*$`)

// Asset identifies a native asset by policy ID and token name, both hex encoded
type Asset struct {
	PolicyId  string `json:"policyId"  yaml:"policyId"`
	TokenName string `json:"tokenName" yaml:"tokenName"`
}

func (a Asset) String() string {
	if a.TokenName == "" {
		return a.PolicyId
	}
	return a.PolicyId + "." + a.TokenName
}

// Validate checks the hex encoding and lengths of both asset components
func (a Asset) Validate() error {
	if _, err := decodeHexSized("policyId", a.PolicyId, PolicyIdSize, PolicyIdSize); err != nil {
		return err
	}
	if _, err := decodeHexSized("tokenName", a.TokenName, 0, MaxTokenNameSize); err != nil {
		return err
	}
	return nil
}

// DecodeHex decodes a lowercase hex string
func DecodeHex(s string) ([]byte, error) {
	if !lowerHexRegexp.MatchString(s) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHex, s)
	}
	return hex.DecodeString(s)
}

func decodeHexSized(field string, s string, minLen int, maxLen int) ([]byte, error) {
	ret, err := DecodeHex(s)
	if err != nil {
		return nil, newEncodingError(field, err)
	}
	if len(ret) < minLen || len(ret) > maxLen {
		var err error
		if minLen == maxLen {
			err = fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, minLen, len(ret))
		} else {
			err = fmt.Errorf("%w: expected %d to %d bytes, got %d", ErrInvalidLength, minLen, maxLen, len(ret))
		}
		return nil, newEncodingError(field, err)
	}
	return ret, nil
}
