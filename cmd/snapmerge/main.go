// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the snapmerge CLI. snapmerge sends a
// set of local files to a conversion service and saves the PDF it returns.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/snapmerge/internal/logging"
	"github.com/pdiddy/snapmerge/internal/secrets"
	"github.com/pdiddy/snapmerge/internal/sink"
	"github.com/pdiddy/snapmerge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// logger is built from --verbose before any subcommand runs.
	logger logging.Logger = logging.Discard()
)

// rootCmd is the base command for the snapmerge CLI.
var rootCmd = &cobra.Command{
	Use:   "snapmerge",
	Short: "Merge files into one PDF through a conversion service",
	Long: `snapmerge uploads a selection of local files to a conversion service in a
single request and saves the PDF it returns.

Every file you name is sent as-is; the service decides what it can convert
and reports how many files it processed and skipped.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(cmd.ErrOrStderr(), viper.GetBool("verbose"))

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug(context.Background(), "loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./snapmerge.yaml or ~/.config/snapmerge/config.yaml)")
	pf.BoolP("verbose", "v", false, "log every step of the upload")
	pf.String("secrets-dir", secrets.DefaultDir, "directory holding credential files")
	pf.String("endpoint", types.DefaultEndpoint, "conversion service base URL")
	pf.Duration("timeout", 0, "HTTP request timeout (0 waits indefinitely)")

	viper.BindPFlag("verbose", pf.Lookup("verbose"))
	viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
	viper.BindPFlag("service.endpoint", pf.Lookup("endpoint"))
	viper.BindPFlag("service.timeout", pf.Lookup("timeout"))

	viper.SetDefault("service.field_name", types.DefaultFieldName)
	viper.SetDefault("service.user_agent", types.DefaultUserAgent+" ("+version+")")
	viper.SetDefault("download.output_dir", ".")
	viper.SetDefault("sink.addr", sink.DefaultAddr)
	viper.SetDefault("telemetry.namespace", "snapmerge")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("snapmerge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "snapmerge"))
		}
	}

	viper.SetEnvPrefix("SNAPMERGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the typed configuration from flags, environment and
// config file, in viper's precedence order.
func loadConfig() types.ClientConfig {
	return types.ClientConfig{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("service.timeout"),
				UserAgent: viper.GetString("service.user_agent"),
			},
			Endpoint:  viper.GetString("service.endpoint"),
			FieldName: viper.GetString("service.field_name"),
		},
		Download: types.DownloadConfig{
			OutputDir: viper.GetString("download.output_dir"),
			Filename:  viper.GetString("download.filename"),
		},
		Sink: types.SinkConfig{
			Addr: viper.GetString("sink.addr"),
		},
		Telemetry: types.TelemetryConfig{
			Namespace:   viper.GetString("telemetry.namespace"),
			MetricsFile: viper.GetString("telemetry.metrics_file"),
		},
	}
}

// apiToken returns the service credential from config/env or .secrets/.
func apiToken() string {
	return secrets.Lookup(loadedSecrets, secrets.KeyAPIToken, viper.GetString("service.api_token"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
