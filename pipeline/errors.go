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

package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrNoTemplates = errors.New("no templates provided")
	ErrNoPools     = errors.New("no pools to build")
)

// StageError identifies the pipeline stage that failed
type StageError struct {
	Err   error
	Stage string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// PoolError identifies the pool whose build failed
type PoolError struct {
	Err error
	Key string
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("pool %s: %s", e.Key, e.Err)
}

func (e *PoolError) Unwrap() error {
	return e.Err
}

// FailedPools returns the keys of every *PoolError in err's tree, in the
// order they were joined
func FailedPools(err error) []string {
	var ret []string
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if poolErr, ok := err.(*PoolError); ok {
			ret = append(ret, poolErr.Key)
			return
		}
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return ret
}
