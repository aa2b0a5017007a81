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
)

// Schema is the subset of a CIP-57 blueprint schema needed to check a
// parameter value before it is applied
type Schema struct {
	Index    *uint64  `json:"index,omitempty"`
	Title    string   `json:"title,omitempty"`
	DataType string   `json:"dataType,omitempty"`
	Ref      string   `json:"$ref,omitempty"`
	AnyOf    []Schema `json:"anyOf,omitempty"`
	Fields   []Schema `json:"fields,omitempty"`
}

// Parameter is a declared script parameter
type Parameter struct {
	Title  string `json:"title"`
	Schema Schema `json:"schema"`
}

// Check compares the shape of a Plutus data value against the parameter
// schema. Only the outermost layer is checked; an empty schema accepts any value.
func (p Parameter) Check(val data.PlutusData) error {
	if val == nil {
		return fmt.Errorf("%w: nil value", ErrParameterType)
	}
	schema := p.Schema
	switch schema.DataType {
	case "":
		if len(schema.AnyOf) > 0 {
			return checkConstr(val, schema.AnyOf)
		}
		return nil
	case "bytes":
		if _, ok := val.(*data.ByteString); !ok {
			return typeMismatch(schema.DataType, val)
		}
	case "integer":
		if _, ok := val.(*data.Integer); !ok {
			return typeMismatch(schema.DataType, val)
		}
	case "list":
		if _, ok := val.(*data.List); !ok {
			return typeMismatch(schema.DataType, val)
		}
	case "map":
		if _, ok := val.(*data.Map); !ok {
			return typeMismatch(schema.DataType, val)
		}
	case "constructor":
		return checkConstr(val, []Schema{schema})
	}
	// Builtin (non-data) types such as #bytes are not checked
	return nil
}

func checkConstr(val data.PlutusData, variants []Schema) error {
	constr, ok := val.(*data.Constr)
	if !ok {
		return typeMismatch("constructor", val)
	}
	for _, variant := range variants {
		if variant.Index == nil {
			// Variant is not a plain constructor, give up on checking
			return nil
		}
		if uint64(constr.Tag) != *variant.Index {
			continue
		}
		if len(constr.Fields) != len(variant.Fields) {
			return fmt.Errorf(
				"%w: constructor %d expects %d fields, got %d",
				ErrParameterType,
				*variant.Index,
				len(variant.Fields),
				len(constr.Fields),
			)
		}
		return nil
	}
	return fmt.Errorf("%w: no constructor with index %d", ErrParameterType, constr.Tag)
}

func typeMismatch(expected string, val data.PlutusData) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrParameterType, expected, val)
}
