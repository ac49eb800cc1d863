package main

import (
	"os"

	"github.com/docread/docread/internal/api"
	"github.com/docread/docread/internal/server/endpoints"
)

var serverURL string

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}

	apiCmd := registry.BuildCommands(getServerURL)
	apiCmd.PersistentFlags().StringVar(&serverURL, "server", "", "docread server URL (default: $DOCREAD_SERVER_URL or http://localhost:8080)")
	rootCmd.AddCommand(apiCmd)
}

func getServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if env := os.Getenv("DOCREAD_SERVER_URL"); env != "" {
		return env
	}
	return "http://localhost:8080"
}
