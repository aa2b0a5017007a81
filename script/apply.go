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
	"fmt"

	"github.com/blinklabs-io/plutigo/data"
	"github.com/blinklabs-io/plutigo/syn"
)

// Apply applies one parameter to a script, producing a script that takes
// one parameter fewer. Parameters must be applied in declaration order.
func Apply(s Script, param data.PlutusData) (Script, error) {
	var paramName string
	if s.arityKnown {
		if len(s.pending) == 0 {
			return Script{}, &ApplicationError{Err: ErrSaturated}
		}
		paramName = s.pending[0].Title
		if err := s.pending[0].Check(param); err != nil {
			return Script{}, &ApplicationError{Parameter: paramName, Err: err}
		}
	}
	flat, err := s.flat()
	if err != nil {
		return Script{}, &ApplicationError{Parameter: paramName, Err: err}
	}
	program, err := syn.Decode[syn.DeBruijn](flat)
	if err != nil {
		return Script{}, &ApplicationError{
			Parameter: paramName,
			Err:       fmt.Errorf("%w: %w", ErrDecodeProgram, err),
		}
	}
	if unboundLambdas(program.Term) < 1 {
		return Script{}, &ApplicationError{Parameter: paramName, Err: ErrSaturated}
	}
	program.Term = &syn.Apply[syn.DeBruijn]{
		Function: program.Term,
		Argument: &syn.Constant{
			Con: &syn.Data{Inner: param},
		},
	}
	newFlat, err := encodeProgram(program)
	if err != nil {
		return Script{}, &ApplicationError{
			Parameter: paramName,
			Err:       fmt.Errorf("%w: %w", ErrEncodeProgram, err),
		}
	}
	ret := Script{
		bytes:      wrapOnce(wrapOnce(newFlat)),
		version:    s.version,
		arityKnown: s.arityKnown,
	}
	if s.arityKnown {
		ret.pending = append([]Parameter{}, s.pending[1:]...)
	}
	return ret, nil
}

// ApplyAll applies an ordered list of parameters, one at a time
func ApplyAll(s Script, params ...data.PlutusData) (Script, error) {
	ret := s
	for idx, param := range params {
		tmp, err := Apply(ret, param)
		if err != nil {
			return Script{}, fmt.Errorf("apply parameter %d: %w", idx, err)
		}
		ret = tmp
	}
	return ret, nil
}

// unboundLambdas returns how many leading lambdas of the applied function
// are not yet bound by an application
func unboundLambdas(term syn.Term[syn.DeBruijn]) int {
	applied := 0
	for {
		app, ok := term.(*syn.Apply[syn.DeBruijn])
		if !ok {
			break
		}
		applied++
		term = app.Function
	}
	lambdas := 0
	for {
		lam, ok := term.(*syn.Lambda[syn.DeBruijn])
		if !ok {
			break
		}
		lambdas++
		term = lam.Body
	}
	return lambdas - applied
}
