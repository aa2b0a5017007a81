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
	"strings"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Network selects the network ID nibble of an address header
type Network uint8

const (
	NetworkTestnet Network = Network(lcommon.AddressNetworkTestnet)
	NetworkMainnet Network = Network(lcommon.AddressNetworkMainnet)
)

// NetworkByName returns the network discriminator for a network name. The
// public testnets (preprod, preview) share the testnet discriminator.
func NetworkByName(name string) (Network, error) {
	switch strings.ToLower(name) {
	case "mainnet":
		return NetworkMainnet, nil
	case "testnet", "preprod", "preview":
		return NetworkTestnet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}

func (n Network) String() string {
	switch n {
	case NetworkMainnet:
		return "mainnet"
	case NetworkTestnet:
		return "testnet"
	default:
		return fmt.Sprintf("network(%d)", uint8(n))
	}
}

func (n Network) valid() bool {
	return n == NetworkMainnet || n == NetworkTestnet
}

func (n Network) Validate() error {
	if !n.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, n)
	}
	return nil
}
