package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docread/docread/internal/server"
	"github.com/docread/docread/version"
)

var (
	serveHost        string
	servePort        string
	serveSwaggerSpec string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docread HTTP server",
	Long: `Start the docread HTTP server.

The server exposes the scan route (server.scan_route, default
/api/documents/scan) plus text extraction, document schemas, metrics
and settings under /api. Provider settings in the config file are
reloaded while the server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger(os.Stdout)
		if err != nil {
			return err
		}

		h, cfgMgr, err := loadEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := h.EnsureExists(); err != nil {
			return fmt.Errorf("failed to create home directory: %w", err)
		}
		if n, err := h.CleanUploads(); err != nil {
			logger.Warn("failed to clean uploads", "error", err)
		} else if n > 0 {
			logger.Info("removed stale uploads", "count", n)
		}

		cfgMgr.SetLogger(logger)
		cfgMgr.WatchConfig()
		if f := cfgMgr.ConfigFile(); f != "" {
			logger.Info("loaded config", "file", f)
		}

		srv, err := server.New(server.Config{
			Host:            serveHost,
			Port:            servePort,
			ConfigManager:   cfgMgr,
			Home:            h,
			Logger:          logger,
			Version:         version.GitRelease,
			SwaggerSpecPath: serveSwaggerSpec,
		})
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "address to bind (default: server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (default: server.port)")
	serveCmd.Flags().StringVar(&serveSwaggerSpec, "swagger-spec", "", "serve this swagger.json instead of the embedded one")
	rootCmd.AddCommand(serveCmd)
}
