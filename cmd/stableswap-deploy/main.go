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

	"github.com/blinklabs-io/stableswap-deploy/internal/config"
	"github.com/blinklabs-io/stableswap-deploy/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const (
	programName = "stableswap-deploy"

	rootLong = `stableswap-deploy applies per-pool parameters to the stableswap
validator templates of a Plutus blueprint. For every pool listed in the pools
file it writes the applied LP minting policy, pool, order and order batching
scripts as text envelopes, along with a stableswap-script.json descriptor per
network carrying script hashes and addresses.

Without --config, the config is read from ~/.stableswap-deploy/config.yaml or
/etc/stableswap-deploy/config.yaml when present. STABLESWAP_* environment
variables override file values.`
)

var errLogFormat = errors.New("unknown log format")

var rootFlags = struct {
	configFile string
	logFormat  string
	debug      bool
}{}

// maxprocsLog routes automaxprocs output through the default logger
func maxprocsLog(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

// commonRun sets up the process logger and GOMAXPROCS for a subcommand
func commonRun() *slog.Logger {
	level := slog.LevelInfo
	if rootFlags.debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{
		AddSource: rootFlags.debug,
		Level:     level,
	}
	var handler slog.Handler
	if rootFlags.logFormat == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(maxprocsLog)); err != nil {
		logger.Error(
			"failed to set GOMAXPROCS",
			"component", programName,
			"error", err,
		)
		os.Exit(1)
	}
	logger.Debug(
		"starting "+programName,
		"component", programName,
		"version", version.GetVersionString(),
	)
	return logger
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Apply pool parameters to stableswap validators and write deployable scripts",
		Long:  rootLong,
		// Subcommands log their own failures
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		StringVarP(&rootFlags.configFile, "config", "c", "", "YAML config file (see help for the default lookup)")
	rootCmd.PersistentFlags().
		BoolVarP(&rootFlags.debug, "debug", "D", false, "log at debug level with source locations")
	rootCmd.PersistentFlags().
		StringVar(&rootFlags.logFormat, "log-format", "json", "log output format: json or text")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch rootFlags.logFormat {
		case "json", "text":
		default:
			return fmt.Errorf("%w: %q", errLogFormat, rootFlags.logFormat)
		}
		cfg, err := config.LoadConfig(rootFlags.configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		rootFlags.debug = rootFlags.debug || cfg.Debug
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	rootCmd.AddCommand(
		buildCommand(),
		hashCommand(),
		addressCommand(),
		versionCommand(),
	)
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
