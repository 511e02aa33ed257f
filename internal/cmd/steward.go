package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/contagion/internal/steward"
)

var stewardCmd = &cobra.Command{
	Use:   "steward",
	Short: "Drive a running server with the rule-based steward",
	Long: `Steward connects to a contagion server, waits for it to come up, then
observes, triages and applies at most one intervention every interval.
Its recent decisions are kept in a small JSON memory file.`,
	Args: cobra.NoArgs,
	RunE: runSteward,
}

func init() {
	rootCmd.AddCommand(stewardCmd)
	stewardCmd.Flags().String("url", "", "server base URL (default http://localhost:8080)")
	stewardCmd.Flags().Int("interval", 0, "seconds between cycles (default 5)")
	stewardCmd.Flags().String("admin-key", "", "bearer token for the server")

	_ = viper.BindPFlag("steward.url", stewardCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("steward.interval_seconds", stewardCmd.Flags().Lookup("interval"))
}

func runSteward(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key := cfg.Server.AdminKey
	if flagKey, _ := cmd.Flags().GetString("admin-key"); flagKey != "" {
		key = flagKey
	}
	if key == "" {
		return errors.New("steward needs an admin key (server.admin_key or --admin-key)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseURL := strings.TrimRight(cfg.Steward.URL, "/")
	if err := waitForAPI(ctx, baseURL, 5*time.Minute); err != nil {
		return err
	}

	remote := steward.NewRemote(baseURL, key)
	st := steward.New(remote, remote)
	if path := cfg.Steward.MemoryFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("memory dir: %w", err)
		}
		st.Memory = steward.LoadMemory(path)
		st.MemoryPath = path
		slog.Info("steward memory loaded", "path", path, "records", len(st.Memory.Records))
	}

	slog.Info("steward starting", "url", baseURL, "interval", cfg.Steward.Interval())
	if err := st.Run(ctx, cfg.Steward.Interval()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("steward stopped")
	return nil
}

// waitForAPI polls the status endpoint with exponential backoff until it
// answers 200, ctx ends, or the deadline passes.
func waitForAPI(ctx context.Context, baseURL string, timeout time.Duration) error {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 10 * time.Second}

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/status", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("contagion API is ready")
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("API at %s did not become ready within %s", baseURL, timeout)
		}
		slog.Info("API not ready, retrying", "backoff", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
