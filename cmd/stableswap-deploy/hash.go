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

	"github.com/blinklabs-io/stableswap-deploy/plutusdata"
	"github.com/blinklabs-io/stableswap-deploy/script"
	"github.com/blinklabs-io/stableswap-deploy/textenvelope"
	"github.com/spf13/cobra"
)

var hashFlags = struct {
	hex       string
	version   string
	blueprint string
}{}

func hashCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash [script-file]",
		Short: "Print the hash of a script",
		Long: "Print the hash of a cardano-cli script file, of a hex encoded script, " +
			"or of every template in a blueprint",
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			commonRun()
			if err := hashRun(args); err != nil {
				slog.Error(err.Error(), "component", programName)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&hashFlags.hex, "hex", "", "hex encoded script in any envelope")
	cmd.Flags().StringVar(&hashFlags.version, "plutus-version", "v2", "plutus version of a hex encoded script")
	cmd.Flags().StringVar(&hashFlags.blueprint, "blueprint", "", "print the hash of every template in this blueprint")
	return cmd
}

func hashRun(args []string) error {
	if hashFlags.blueprint != "" {
		return hashBlueprint(hashFlags.blueprint)
	}
	var s script.Script
	switch {
	case len(args) == 1 && hashFlags.hex == "":
		env, err := textenvelope.ReadFile(args[0])
		if err != nil {
			return err
		}
		if s, err = env.Script(); err != nil {
			return err
		}
	case len(args) == 0 && hashFlags.hex != "":
		scriptBytes, err := plutusdata.DecodeHex(hashFlags.hex)
		if err != nil {
			return err
		}
		version, err := script.ParsePlutusVersion(hashFlags.version)
		if err != nil {
			return err
		}
		s = script.NewScript(scriptBytes, version, nil)
	default:
		return errors.New("specify exactly one of a script file or --hex")
	}
	hash, err := script.Hash(s)
	if err != nil {
		return err
	}
	fmt.Println(hash.String())
	return nil
}

func hashBlueprint(path string) error {
	bp, err := script.NewBlueprintFromFile(path)
	if err != nil {
		return err
	}
	templates, err := bp.Templates()
	if err != nil {
		return err
	}
	for _, role := range script.Roles {
		tmpl := templates.Get(role)
		hash, err := script.Hash(tmpl.Script())
		if err != nil {
			return fmt.Errorf("%s: %w", tmpl.Title, err)
		}
		fmt.Printf("%-16s %s %s\n", role, hash.String(), tmpl.Title)
	}
	return nil
}
