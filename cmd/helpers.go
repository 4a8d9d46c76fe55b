package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"vms-e2e/internal/client"
	"vms-e2e/internal/config"
)

// loadConfig exits when the configuration is missing or invalid.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\nRun 'vms-e2e login' first or set VMS_E2E_* variables.\n", err)
		os.Exit(1)
	}
	return cfg
}

func newClient(cfg *config.Config) *client.Client {
	return client.New(client.ClientConfig{
		BaseURL:     cfg.ServerURL,
		HostName:    cfg.HostName,
		Username:    cfg.Username,
		Password:    cfg.Password,
		InsecureTLS: cfg.InsecureTLS,
		Timeout:     cfg.RequestTimeout,
	})
}

// getClient builds an API client from the stored configuration.
func getClient() *client.Client {
	return newClient(loadConfig())
}

// commandContext bounds a whole command, which may issue several requests.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Minute)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func fail(what string, err error) {
	fmt.Printf("Error %s: %v\n", what, err)
	os.Exit(1)
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
