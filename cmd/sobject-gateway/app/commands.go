// Package app provides the commands of the SObject gateway binary.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/versions"
)

// NewRootCmd creates a new root command for the gateway.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "sobject-gateway",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Filtered SObject metadata gateway",
		Long: `sobject-gateway exposes SObject metadata and records from a remote API after
applying the blacklist and whitelist configured in its YAML file.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newSOQLCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// bindFlags binds the named flags of cmd to a fresh viper instance. A fresh
// instance per run keeps commands built by separate NewRootCmd calls apart.
func bindFlags(cmd *cobra.Command, names ...string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range names {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return nil, fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(name, flag); err != nil {
			return nil, fmt.Errorf("failed to bind %s flag: %w", name, err)
		}
	}
	return v, nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("error retrieving format flag: %w", err)
			}

			if format == "json" {
				output, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("error formatting version info as JSON: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sobject-gateway %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}
