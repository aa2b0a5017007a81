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

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/blinklabs-io/stableswap-deploy/address"
	"github.com/blinklabs-io/stableswap-deploy/internal/config"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/blinklabs-io/stableswap-deploy/textenvelope"
	"github.com/spf13/cobra"
)

var addressFlags = struct {
	network           string
	paymentKeyHash    string
	paymentScriptHash string
	paymentScriptFile string
	stake             config.StakeCredentialConfig
}{}

func addressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive an address from payment and stake credentials",
		Long: "Derive an address. A payment credential alone gives an enterprise address, " +
			"payment and stake credentials give a base address and a stake credential " +
			"alone gives a reward address.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			commonRun()
			addr, err := addressRun()
			if err != nil {
				slog.Error(err.Error(), "component", programName)
				os.Exit(1)
			}
			fmt.Println(addr)
		},
	}
	cmd.Flags().StringVar(&addressFlags.network, "network", "testnet", "network name")
	cmd.Flags().StringVar(&addressFlags.paymentKeyHash, "payment-key-hash", "", "payment key hash")
	cmd.Flags().StringVar(&addressFlags.paymentScriptHash, "payment-script-hash", "", "payment script hash")
	cmd.Flags().StringVar(&addressFlags.paymentScriptFile, "payment-script-file", "", "payment script file")
	cmd.Flags().StringVar(&addressFlags.stake.KeyHash, "stake-key-hash", "", "stake key hash")
	cmd.Flags().StringVar(&addressFlags.stake.ScriptHash, "stake-script-hash", "", "stake script hash")
	cmd.Flags().StringVar(&addressFlags.stake.VkeyFile, "stake-verification-key-file", "", "stake verification key file")
	return cmd
}

func addressRun() (string, error) {
	network, err := address.NetworkByName(addressFlags.network)
	if err != nil {
		return "", err
	}
	payment, err := paymentCredential()
	if err != nil {
		return "", err
	}
	var stake *address.Credential
	if addressFlags.stake != (config.StakeCredentialConfig{}) {
		if stake, err = addressFlags.stake.Resolve(""); err != nil {
			return "", err
		}
	}
	addr, err := address.Derive(network, payment, stake)
	if err != nil {
		return "", err
	}
	return addr.Bech32()
}

func paymentCredential() (*address.Credential, error) {
	var cred address.Credential
	var err error
	switch {
	case addressFlags.paymentKeyHash != "" && addressFlags.paymentScriptHash == "" && addressFlags.paymentScriptFile == "":
		cred, err = address.NewCredentialFromHex(address.CredentialKey, addressFlags.paymentKeyHash)
	case addressFlags.paymentScriptHash != "" && addressFlags.paymentKeyHash == "" && addressFlags.paymentScriptFile == "":
		cred, err = address.NewCredentialFromHex(address.CredentialScript, addressFlags.paymentScriptHash)
	case addressFlags.paymentScriptFile != "" && addressFlags.paymentKeyHash == "" && addressFlags.paymentScriptHash == "":
		env, readErr := textenvelope.ReadFile(addressFlags.paymentScriptFile)
		if readErr != nil {
			return nil, readErr
		}
		s, scriptErr := env.Script()
		if scriptErr != nil {
			return nil, scriptErr
		}
		hash, hashErr := script.Hash(s)
		if hashErr != nil {
			return nil, hashErr
		}
		cred = address.ScriptCredential(hash)
	case addressFlags.paymentKeyHash == "" && addressFlags.paymentScriptHash == "" && addressFlags.paymentScriptFile == "":
		return nil, nil
	default:
		return nil, errors.New("specify at most one payment credential")
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
