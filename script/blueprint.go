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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
)

// Role identifies one of the stableswap scripts
type Role string

const (
	RoleLpMinting     Role = "lp_minting"
	RolePool          Role = "pool"
	RoleOrderBatching Role = "order_batching"
	RoleOrder         Role = "order"
)

// Roles lists every role a bundle must provide, in pipeline order
var Roles = []Role{
	RoleLpMinting,
	RolePool,
	RoleOrderBatching,
	RoleOrder,
}

var roleTitlePatterns = map[Role]string{
	RoleOrder:         "*_validator.validate_order",
	RolePool:          "*_validator.validate_pool",
	RoleLpMinting:     "*_minting_policy.validate_lp_minting",
	RoleOrderBatching: "*_validator.validate_order_spending_in_batching",
}

// TitlePattern returns the blueprint title pattern matched for the role. A
// leading '*' matches any non-empty module prefix.
func (r Role) TitlePattern() string {
	return roleTitlePatterns[r]
}

func (r Role) matches(title string) bool {
	pattern := r.TitlePattern()
	if pattern == "" {
		return false
	}
	suffix, wildcard := strings.CutPrefix(pattern, "*")
	if !wildcard {
		return title == pattern
	}
	return len(title) > len(suffix) && strings.HasSuffix(title, suffix)
}

// maxBlueprintSize bounds the blueprint read from untrusted readers
const maxBlueprintSize = 64 * 1024 * 1024

const maxRefDepth = 32

// Blueprint is a CIP-57 Plutus blueprint (plutus.json)
type Blueprint struct {
	Definitions map[string]Schema    `json:"definitions"`
	Preamble    BlueprintPreamble    `json:"preamble"`
	Validators  []BlueprintValidator `json:"validators"`
	// Blake2b-256 of the raw file, recorded with each deployment
	Hash lcommon.Blake2b256 `json:"-"`
}

type BlueprintPreamble struct {
	Title         string            `json:"title"`
	Version       string            `json:"version"`
	PlutusVersion string            `json:"plutusVersion"`
	Compiler      BlueprintCompiler `json:"compiler"`
}

type BlueprintCompiler struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type BlueprintValidator struct {
	Title        string      `json:"title"`
	CompiledCode string      `json:"compiledCode"`
	Hash         string      `json:"hash"`
	Parameters   []Parameter `json:"parameters"`
}

func NewBlueprintFromFile(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewBlueprintFromReader(f)
}

func NewBlueprintFromReader(r io.Reader) (*Blueprint, error) {
	buf, err := io.ReadAll(io.LimitReader(r, maxBlueprintSize+1))
	if err != nil {
		return nil, err
	}
	if len(buf) > maxBlueprintSize {
		return nil, fmt.Errorf(
			"%w: exceeds maximum size of %d bytes",
			ErrInvalidBlueprint,
			maxBlueprintSize,
		)
	}
	b := &Blueprint{}
	if err := json.Unmarshal(buf, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlueprint, err)
	}
	b.Hash = lcommon.Blake2b256Hash(buf)
	return b, nil
}

// Template is an unparameterized script read from a blueprint
type Template struct {
	Role  Role
	Title string
	Code  []byte
	// nil when the blueprint does not declare parameters
	Parameters []Parameter
	Version    PlutusVersion
}

// Script returns the template as a script ready for parameter application
func (t Template) Script() Script {
	return NewScript(t.Code, t.Version, t.Parameters)
}

// StrictScript is Script but rejects templates with an ambiguous envelope
func (t Template) StrictScript() (Script, error) {
	return NewScriptStrict(t.Code, t.Version, t.Parameters)
}

// Templates holds one template per role. It is read only after creation and
// safe to share between goroutines.
type Templates struct {
	byRole        map[Role]Template
	blueprintHash lcommon.Blake2b256
}

func (t *Templates) Get(role Role) Template {
	return t.byRole[role]
}

func (t *Templates) BlueprintHash() lcommon.Blake2b256 {
	return t.blueprintHash
}

// Templates extracts the template for every role. All missing roles are
// reported together in a MissingTemplateError.
func (b *Blueprint) Templates() (*Templates, error) {
	version, err := ParsePlutusVersion(b.Preamble.PlutusVersion)
	if err != nil {
		return nil, err
	}
	ret := &Templates{
		byRole:        make(map[Role]Template, len(Roles)),
		blueprintHash: b.Hash,
	}
	var missing []Role
	for _, role := range Roles {
		var found *BlueprintValidator
		for idx := range b.Validators {
			validator := &b.Validators[idx]
			if !role.matches(validator.Title) {
				continue
			}
			if found != nil && found.CompiledCode != validator.CompiledCode {
				return nil, fmt.Errorf(
					"%w: %s: %q and %q",
					ErrDuplicateTemplate,
					role,
					found.Title,
					validator.Title,
				)
			}
			if found == nil {
				found = validator
			}
		}
		if found == nil {
			missing = append(missing, role)
			continue
		}
		code, err := plutusdata.DecodeHex(found.CompiledCode)
		if err != nil {
			return nil, fmt.Errorf("%w: validator %q: %w", ErrInvalidBlueprint, found.Title, err)
		}
		params, err := b.resolveParameters(found.Parameters)
		if err != nil {
			return nil, fmt.Errorf("validator %q: %w", found.Title, err)
		}
		ret.byRole[role] = Template{
			Role:       role,
			Title:      found.Title,
			Code:       code,
			Parameters: params,
			Version:    version,
		}
	}
	if len(missing) > 0 {
		return nil, &MissingTemplateError{Roles: missing}
	}
	return ret, nil
}

func (b *Blueprint) resolveParameters(params []Parameter) ([]Parameter, error) {
	if params == nil {
		return nil, nil
	}
	ret := make([]Parameter, 0, len(params))
	for _, param := range params {
		schema, err := b.resolveSchema(param.Schema)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", param.Title, err)
		}
		ret = append(ret, Parameter{Title: param.Title, Schema: schema})
	}
	return ret, nil
}

// resolveSchema follows $ref links until it reaches a concrete schema
func (b *Blueprint) resolveSchema(schema Schema) (Schema, error) {
	for range maxRefDepth {
		if schema.Ref == "" {
			return schema, nil
		}
		name, ok := strings.CutPrefix(schema.Ref, "#/definitions/")
		if !ok {
			return Schema{}, fmt.Errorf("%w: unsupported $ref %q", ErrInvalidBlueprint, schema.Ref)
		}
		// JSON pointer escapes
		name = strings.ReplaceAll(name, "~1", "/")
		name = strings.ReplaceAll(name, "~0", "~")
		def, ok := b.Definitions[name]
		if !ok {
			return Schema{}, fmt.Errorf("%w: unknown definition %q", ErrInvalidBlueprint, name)
		}
		schema = def
	}
	return Schema{}, fmt.Errorf("%w: $ref chain too deep", ErrInvalidBlueprint)
}
