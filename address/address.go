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
	"fmt"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Kind is the shape of a derived address
type Kind uint8

const (
	KindEnterprise Kind = iota + 1
	KindBase
	KindReward
)

func (k Kind) String() string {
	switch k {
	case KindEnterprise:
		return "enterprise"
	case KindBase:
		return "base"
	case KindReward:
		return "reward"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Address is a Shelley address built from one or two credentials. Values
// are only produced by NewEnterprise, NewBase, NewReward and Derive.
type Address struct {
	payment Credential
	stake   Credential
	kind    Kind
	network Network
	addr    lcommon.Address
}

// NewEnterprise returns an address carrying only a payment credential
func NewEnterprise(network Network, payment Credential) (Address, error) {
	return newAddress(network, KindEnterprise, payment, Credential{})
}

// NewBase returns an address carrying a payment and a stake credential
func NewBase(network Network, payment Credential, stake Credential) (Address, error) {
	return newAddress(network, KindBase, payment, stake)
}

// NewReward returns a reward (withdrawal) address for a stake credential
func NewReward(network Network, stake Credential) (Address, error) {
	return newAddress(network, KindReward, Credential{}, stake)
}

func newAddress(network Network, kind Kind, payment Credential, stake Credential) (Address, error) {
	if !network.valid() {
		return Address{}, fmt.Errorf("%w: %d", ErrUnknownNetwork, network)
	}
	addrType, err := addressType(kind, payment, stake)
	if err != nil {
		return Address{}, err
	}
	var paymentBytes, stakeBytes []byte
	if kind != KindReward {
		paymentBytes = payment.Hash.Bytes()
	}
	if kind != KindEnterprise {
		stakeBytes = stake.Hash.Bytes()
	}
	addr, err := lcommon.NewAddressFromParts(
		addrType,
		uint8(network),
		paymentBytes,
		stakeBytes,
	)
	if err != nil {
		return Address{}, fmt.Errorf("build %s address: %w", kind, err)
	}
	return Address{
		payment: payment,
		stake:   stake,
		kind:    kind,
		network: network,
		addr:    addr,
	}, nil
}

// addressType returns the header type nibble for the address shape and
// the script-ness of its credentials
func addressType(kind Kind, payment Credential, stake Credential) (uint8, error) {
	switch kind {
	case KindEnterprise:
		if payment.IsScript() {
			return lcommon.AddressTypeScriptNone, nil
		}
		return lcommon.AddressTypeKeyNone, nil
	case KindBase:
		switch {
		case payment.IsScript() && stake.IsScript():
			return lcommon.AddressTypeScriptScript, nil
		case payment.IsScript():
			return lcommon.AddressTypeScriptKey, nil
		case stake.IsScript():
			return lcommon.AddressTypeKeyScript, nil
		default:
			return lcommon.AddressTypeKeyKey, nil
		}
	case KindReward:
		if stake.IsScript() {
			return lcommon.AddressTypeNoneScript, nil
		}
		return lcommon.AddressTypeNoneKey, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidAddressKind, kind)
	}
}

// Derive picks the address shape from the credentials supplied:
//
//   - stake only: reward address
//   - payment and stake: base address
//   - payment only: enterprise address
func Derive(network Network, payment *Credential, stake *Credential) (Address, error) {
	switch {
	case payment == nil && stake != nil:
		return NewReward(network, *stake)
	case payment != nil && stake != nil:
		return NewBase(network, *payment, *stake)
	case payment != nil:
		return NewEnterprise(network, *payment)
	default:
		return Address{}, ErrNoCredential
	}
}

func (a Address) Kind() Kind {
	return a.kind
}

func (a Address) Network() Network {
	return a.network
}

// Payment returns the payment credential, if the address has one
func (a Address) Payment() (Credential, bool) {
	return a.payment, a.kind != KindReward
}

// Stake returns the stake credential, if the address has one
func (a Address) Stake() (Credential, bool) {
	return a.stake, a.kind != KindEnterprise
}

// Ledger returns the underlying ledger address
func (a Address) Ledger() (lcommon.Address, error) {
	if err := a.check(); err != nil {
		return lcommon.Address{}, err
	}
	return a.addr, nil
}

func (a Address) check() error {
	switch a.kind {
	case KindEnterprise, KindBase, KindReward:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidAddressKind, a.kind)
	}
}

// Header returns the address header byte: the address type in the high
// nibble and the network ID in the low nibble
func (a Address) Header() (byte, error) {
	if err := a.check(); err != nil {
		return 0, err
	}
	return a.addr.Type()<<4 | uint8(a.addr.NetworkId())&lcommon.AddressHeaderNetworkMask, nil
}

// Bytes returns the raw address: header byte followed by the credential hashes
func (a Address) Bytes() ([]byte, error) {
	if err := a.check(); err != nil {
		return nil, err
	}
	return a.addr.Bytes()
}

// Bech32 returns the bech32 form of the address (addr/addr_test for payment
// addresses, stake/stake_test for reward addresses)
func (a Address) Bech32() (string, error) {
	if err := a.check(); err != nil {
		return "", err
	}
	return a.addr.String(), nil
}

func (a Address) String() string {
	ret, err := a.Bech32()
	if err != nil {
		return ""
	}
	return ret
}
