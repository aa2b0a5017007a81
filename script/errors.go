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
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAmbiguousEnvelope = errors.New("ambiguous script envelope")
	ErrSaturated         = errors.New("script takes no more parameters")
	ErrParameterType     = errors.New("parameter does not match schema")
	ErrDecodeProgram     = errors.New("failed to decode program")
	ErrEncodeProgram     = errors.New("failed to encode program")
	ErrMalformedScript   = errors.New("malformed script bytes")
	ErrUnknownVersion    = errors.New("unknown plutus version")
	ErrDuplicateTemplate = errors.New("more than one validator matches role")
	ErrInvalidBlueprint  = errors.New("invalid blueprint")
)

// ApplicationError is returned when a parameter cannot be applied to a script
type ApplicationError struct {
	Err       error
	Parameter string
}

func (e *ApplicationError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("application error: %s", e.Err)
	}
	return fmt.Sprintf("application error: parameter %q: %s", e.Parameter, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}

// HashError is returned when script bytes cannot be hashed
type HashError struct {
	Err error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash error: %s", e.Err)
}

func (e *HashError) Unwrap() error {
	return e.Err
}

// MissingTemplateError lists the roles absent from a template bundle
type MissingTemplateError struct {
	Roles []Role
}

func (e *MissingTemplateError) Error() string {
	tmpRoles := make([]string, 0, len(e.Roles))
	for _, role := range e.Roles {
		tmpRoles = append(tmpRoles, fmt.Sprintf("%s (%s)", role, role.TitlePattern()))
	}
	return "missing script templates: " + strings.Join(tmpRoles, ", ")
}
