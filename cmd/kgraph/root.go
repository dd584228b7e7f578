// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/learning-commons-org/knowledge-graph/internal/config"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// NewRootCmd creates the root kgraph command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kgraph",
		Short:         "kgraph — curriculum standards knowledge graph",
		Long:          "kgraph loads curriculum standards snapshots and answers questions about them: semantic search, cross-jurisdiction alignment, prerequisite discovery, and practice question generation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initViper(cmd)
		},
	}

	// Global flags, mapped to viper keys in initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("data-dir", "", "path to snapshot data directory")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Register subcommands
	root.AddCommand(
		newFrameworksCmd(),
		newStandardsCmd(),
		newComponentsCmd(),
		newPrereqsCmd(),
		newAlignCmd(),
		newEmbedCmd(),
		newSearchCmd(),
		newPracticeCmd(),
		newServeCmd(),
		newStatusCmd(),
		newDoctorCmd(),
		newSecretCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return kgerr.Errorf(kgerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover kgraph.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./kgraph binary in the project root.
		v.SetConfigName("kgraph")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kgraph")
		v.AddConfigPath("/etc/kgraph")
		// No config file is fine; defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return kgerr.Errorf(kgerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
			// No config found anywhere: bootstrap a default to ~/.config/kgraph/.
			if path := config.BootstrapConfig(); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return kgerr.Errorf(kgerr.CodeConfigLoadReadFailure, "reading bootstrapped config: %w", err)
				}
			}
		}
	}

	config.WarnInsecurePermissions(v.ConfigFileUsed())

	// Bind persistent flags to viper keys.
	if err := v.BindPFlag("data.dir", cmd.Root().PersistentFlags().Lookup("data-dir")); err != nil {
		return kgerr.Errorf(kgerr.CodeCLISetupFailure, "binding data-dir flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return kgerr.Errorf(kgerr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	if v.GetBool("verbose") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	return nil
}

// loadConfig unmarshals the viper state initViper prepared into a
// validated Config. Every subcommand that needs configuration calls
// this instead of re-reading files.
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}
