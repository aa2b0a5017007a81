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

package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/deployment"
	"github.com/blinklabs-io/stableswap-deploy/pipeline"
	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/blinklabs-io/stableswap-deploy/textenvelope"
	"github.com/getsops/sops/v3/decrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrNegativeInteger = errors.New("integer must not be negative")
	ErrMissingValue    = errors.New("missing required value")
	ErrDuplicatePool   = errors.New("duplicate pool key")
	ErrNetworkNotFound = errors.New("network not present in pools file")
	ErrStakeCredential = errors.New("stake credential must set exactly one of keyHash, scriptHash or vkeyFile")
)

// BigInt is an arbitrary precision integer read from a YAML scalar. Quoted
// and unquoted decimal values are both accepted.
type BigInt struct {
	*big.Int
}

func NewBigInt(v int64) BigInt {
	return BigInt{Int: big.NewInt(v)}
}

func (b *BigInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected integer", value.Line)
	}
	tmp, ok := new(big.Int).SetString(value.Value, 10)
	if !ok {
		return fmt.Errorf("line %d: invalid integer %q", value.Line, value.Value)
	}
	b.Int = tmp
	return nil
}

func (b BigInt) MarshalYAML() (any, error) {
	if b.Int == nil {
		return nil, nil
	}
	return b.String(), nil
}

func (b BigInt) set() bool {
	return b.Int != nil
}

// PoolsFile is the per-network pool configuration
type PoolsFile struct {
	Networks map[string]NetworkPools `yaml:"networks"`
}

// NetworkPools holds the pools of one network and the values they inherit
type NetworkPools struct {
	Defaults        PoolDefaults           `yaml:"defaults"`
	StakeCredential *StakeCredentialConfig `yaml:"stakeCredential,omitempty"`
	Pools           []PoolEntry            `yaml:"pools"`
}

type PoolDefaults struct {
	LicenseSymbol        string            `yaml:"licenseSymbol"`
	AdminAsset           *plutusdata.Asset `yaml:"adminAsset,omitempty"`
	MaximumDeadlineRange BigInt            `yaml:"maximumDeadlineRange"`
	Fee                  BigInt            `yaml:"fee"`
	AdminFee             BigInt            `yaml:"adminFee"`
	FeeDenominator       BigInt            `yaml:"feeDenominator"`
}

// PoolEntry is one pool. Unset economics fall back to the network defaults.
type PoolEntry struct {
	Key                  string                 `yaml:"key"`
	NftAsset             plutusdata.Asset       `yaml:"nftAsset"`
	Assets               []plutusdata.Asset     `yaml:"assets"`
	Multiples            []BigInt               `yaml:"multiples"`
	LicenseSymbol        string                 `yaml:"licenseSymbol,omitempty"`
	AdminAsset           *plutusdata.Asset      `yaml:"adminAsset,omitempty"`
	MaximumDeadlineRange BigInt                 `yaml:"maximumDeadlineRange,omitempty"`
	Fee                  BigInt                 `yaml:"fee,omitempty"`
	AdminFee             BigInt                 `yaml:"adminFee,omitempty"`
	FeeDenominator       BigInt                 `yaml:"feeDenominator,omitempty"`
	StakeCredential      *StakeCredentialConfig `yaml:"stakeCredential,omitempty"`
}

// StakeCredentialConfig selects the stake part of the pool and order
// addresses
type StakeCredentialConfig struct {
	KeyHash    string `yaml:"keyHash,omitempty"`
	ScriptHash string `yaml:"scriptHash,omitempty"`
	// VkeyFile is a cardano-cli stake verification key file. Relative paths
	// are resolved against the pools file.
	VkeyFile string `yaml:"vkeyFile,omitempty"`
}

// Resolve returns the credential described by the config
func (s *StakeCredentialConfig) Resolve(baseDir string) (*address.Credential, error) {
	if s == nil {
		return nil, nil
	}
	set := 0
	for _, v := range []string{s.KeyHash, s.ScriptHash, s.VkeyFile} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrStakeCredential
	}
	var cred address.Credential
	var err error
	switch {
	case s.KeyHash != "":
		cred, err = address.NewCredentialFromHex(address.CredentialKey, s.KeyHash)
	case s.ScriptHash != "":
		cred, err = address.NewCredentialFromHex(address.CredentialScript, s.ScriptHash)
	default:
		path := s.VkeyFile
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		env, readErr := textenvelope.ReadFile(path)
		if readErr != nil {
			return nil, readErr
		}
		hash, hashErr := env.KeyHash()
		if hashErr != nil {
			return nil, fmt.Errorf("%s: %w", path, hashErr)
		}
		cred = address.KeyCredential(hash)
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// LoadPoolsFile reads a pools file, decrypting it first when it carries SOPS
// metadata
func LoadPoolsFile(path string) (*PoolsFile, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading pools file: %w", err)
	}
	return ParsePools(buf)
}

func ParsePools(buf []byte) (*PoolsFile, error) {
	encrypted, err := isSopsEncrypted(buf)
	if err != nil {
		return nil, fmt.Errorf("error parsing pools file: %w", err)
	}
	if encrypted {
		buf, err = decrypt.Data(buf, "yaml")
		if err != nil {
			return nil, fmt.Errorf("error decrypting pools file: %w", err)
		}
	}
	var ret PoolsFile
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, fmt.Errorf("error parsing pools file: %w", err)
	}
	return &ret, nil
}

func isSopsEncrypted(buf []byte) (bool, error) {
	var meta struct {
		Sops *yaml.Node `yaml:"sops"`
	}
	if err := yaml.Unmarshal(buf, &meta); err != nil {
		return false, err
	}
	return meta.Sops != nil, nil
}

// PoolConfigs resolves the pools of a network into pipeline inputs. baseDir
// anchors relative key file paths. An invalid entry does not stop its
// siblings: the valid pools are returned alongside the per-pool failures,
// each a *pipeline.PoolError, joined into the error.
func (f *PoolsFile) PoolConfigs(network string, baseDir string) ([]pipeline.PoolConfig, error) {
	netPools, ok := f.Networks[network]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, network)
	}
	defaultStake, err := netPools.StakeCredential.Resolve(baseDir)
	if err != nil {
		return nil, fmt.Errorf("network %s: stake credential: %w", network, err)
	}
	seen := make(map[string]struct{}, len(netPools.Pools))
	ret := make([]pipeline.PoolConfig, 0, len(netPools.Pools))
	var errs []error
	for idx, entry := range netPools.Pools {
		if entry.Key == "" {
			errs = append(errs, fmt.Errorf("network %s: pools[%d]: key: %w", network, idx, ErrMissingValue))
			continue
		}
		if _, dup := seen[entry.Key]; dup {
			errs = append(errs, &pipeline.PoolError{
				Key: entry.Key,
				Err: fmt.Errorf("network %s: %w", network, ErrDuplicatePool),
			})
			continue
		}
		seen[entry.Key] = struct{}{}
		if err := deployment.ValidateKey(entry.Key); err != nil {
			errs = append(errs, &pipeline.PoolError{
				Key: entry.Key,
				Err: fmt.Errorf("network %s: %w", network, err),
			})
			continue
		}
		pool, err := entry.resolve(netPools.Defaults, defaultStake, baseDir)
		if err != nil {
			errs = append(errs, &pipeline.PoolError{
				Key: entry.Key,
				Err: fmt.Errorf("network %s: %w", network, err),
			})
			continue
		}
		ret = append(ret, pool)
	}
	return ret, errors.Join(errs...)
}

func (p PoolEntry) resolve(
	defaults PoolDefaults,
	defaultStake *address.Credential,
	baseDir string,
) (pipeline.PoolConfig, error) {
	ret := pipeline.PoolConfig{
		Key:           p.Key,
		NftAsset:      p.NftAsset,
		Assets:        p.Assets,
		LicenseSymbol: firstString(p.LicenseSymbol, defaults.LicenseSymbol),
	}
	switch {
	case p.AdminAsset != nil:
		ret.AdminAsset = *p.AdminAsset
	case defaults.AdminAsset != nil:
		ret.AdminAsset = *defaults.AdminAsset
	default:
		return ret, fmt.Errorf("adminAsset: %w", ErrMissingValue)
	}
	if ret.LicenseSymbol == "" {
		return ret, fmt.Errorf("licenseSymbol: %w", ErrMissingValue)
	}
	var err error
	fields := []struct {
		name   string
		dst    **big.Int
		val    BigInt
		defVal BigInt
	}{
		{"maximumDeadlineRange", &ret.MaximumDeadlineRange, p.MaximumDeadlineRange, defaults.MaximumDeadlineRange},
		{"fee", &ret.Fee, p.Fee, defaults.Fee},
		{"adminFee", &ret.AdminFee, p.AdminFee, defaults.AdminFee},
		{"feeDenominator", &ret.FeeDenominator, p.FeeDenominator, defaults.FeeDenominator},
	}
	for _, f := range fields {
		if *f.dst, err = pickInt(f.name, f.val, f.defVal); err != nil {
			return ret, err
		}
	}
	if len(p.Multiples) != len(p.Assets) {
		return ret, fmt.Errorf(
			"%w: %d assets, %d multiples",
			plutusdata.ErrLengthMismatch,
			len(p.Assets),
			len(p.Multiples),
		)
	}
	ret.Multiples = make([]*big.Int, 0, len(p.Multiples))
	for idx, m := range p.Multiples {
		val, err := pickInt(fmt.Sprintf("multiples[%d]", idx), m, BigInt{})
		if err != nil {
			return ret, err
		}
		ret.Multiples = append(ret.Multiples, val)
	}
	ret.StakeCredential = defaultStake
	if p.StakeCredential != nil {
		ret.StakeCredential, err = p.StakeCredential.Resolve(baseDir)
		if err != nil {
			return ret, fmt.Errorf("stake credential: %w", err)
		}
	}
	return ret, nil
}

func pickInt(name string, val BigInt, defVal BigInt) (*big.Int, error) {
	if !val.set() {
		val = defVal
	}
	if !val.set() {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingValue)
	}
	if val.Sign() < 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNegativeInteger)
	}
	return new(big.Int).Set(val.Int), nil
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
