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
	"errors"
	"fmt"
)

var (
	ErrMalformedHex   = errors.New("malformed hex")
	ErrInvalidLength  = errors.New("invalid length")
	ErrLengthMismatch = errors.New("assets and multiples length mismatch")
	ErrMissingInteger = errors.New("missing integer value")
)

// EncodingError is returned when a domain value cannot be turned into
// Plutus data
type EncodingError struct {
	Err   error
	Field string
}

func (e *EncodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("encoding error: %s", e.Err)
	}
	return fmt.Sprintf("encoding error: %s: %s", e.Field, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func newEncodingError(field string, err error) *EncodingError {
	return &EncodingError{Field: field, Err: err}
}
