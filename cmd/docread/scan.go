package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/metrics"
	"github.com/docread/docread/internal/providers"
	"github.com/docread/docread/internal/scan"
)

var (
	outFile       string
	scanProviders []string
	scanVerbose   bool
)

// outputResult prints v, or writes it to --out-file when set.
func outputResult(v any) error {
	if outFile != "" {
		return api.OutputToFile(v, outFile)
	}
	return api.Output(v)
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "OCR a document image locally and extract its fields",
	Long: `OCR a document image with the configured providers and extract its fields.

Runs in-process without a server. Providers are tried in the configured
order (defaults.ocr_providers) unless --provider is given.

Supported formats: JPEG, PNG, TIFF and single-page PDF.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		h, cfgMgr, err := loadEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfgMgr.SetLogger(logger)
		cfg := cfgMgr.Get()

		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())
		registry.SetLogger(logger)

		settings := cfg.ScanSettings()
		if len(scanProviders) > 0 {
			settings.ProviderOrder = scanProviders
		}

		svc, err := scan.New(scan.Config{
			Registry: registry,
			Home:     h,
			Metrics:  metrics.NewRecorder(1),
			Logger:   logger,
			Settings: settings,
		})
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		res, err := svc.Scan(ctx, scan.Upload{
			Filename: filepath.Base(args[0]),
			Body:     f,
		})
		if err != nil {
			return err
		}

		logger.Info("scan complete",
			"document_type", res.DocumentType,
			"provider", res.Provider,
			"retries", res.Retries,
			"ocr_time", res.OCRTime,
			"cost_usd", res.CostUSD)

		if scanVerbose {
			return outputResult(res)
		}
		return outputResult(res.Record)
	},
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanProviders, "provider", nil,
		"providers to try, in order (default: defaults.ocr_providers)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false,
		"print the full scan result with lines, provider and timings")
	for _, c := range []*cobra.Command{scanCmd, extractCmd} {
		c.Flags().StringVar(&outFile, "out-file", "", "write output to this file (.json selects JSON)")
	}
	rootCmd.AddCommand(scanCmd)
}
