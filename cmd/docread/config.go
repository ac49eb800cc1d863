package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/config"
	"github.com/docread/docread/internal/home"
	"github.com/docread/docread/internal/providers"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the local docread configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Long: `Write the default configuration file.

Without a path the file is written to <home>/config.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return fmt.Errorf("failed to create home directory: %w", err)
			}
			path = h.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfgMgr, err := loadEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return api.Output(cfgMgr.Entries())
	},
}

type providerStatus struct {
	Name      string  `json:"name" yaml:"name"`
	Type      string  `json:"type" yaml:"type"`
	Enabled   bool    `json:"enabled" yaml:"enabled"`
	Available bool    `json:"available" yaml:"available"`
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

var configProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured OCR providers and whether they can be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfgMgr, err := loadEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg := cfgMgr.Get()
		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())

		names := make([]string, 0, len(cfg.OCRProviders))
		for name := range cfg.OCRProviders {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]providerStatus, 0, len(names))
		for _, name := range names {
			p := cfg.OCRProviders[name]
			out = append(out, providerStatus{
				Name:      name,
				Type:      p.Type,
				Enabled:   p.Enabled,
				Available: registry.HasOCR(name),
				RateLimit: p.RateLimit,
			})
		}
		return api.Output(out)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd, configProvidersCmd)
	rootCmd.AddCommand(configCmd)
}
