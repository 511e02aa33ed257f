package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/contagion/internal/api"
	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/steward"
)

var serveAutopilot bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a session in real time behind the HTTP API",
	Long: `Serve advances one session on a wall-clock day loop and exposes it
over HTTP. Reads are public; applying interventions, changing speed and
forcing a day need the admin bearer token.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("admin-key", "", "bearer token for POST endpoints")
	serveCmd.Flags().Float64("speed", 1, "day loop speed multiplier (0 starts paused)")
	serveCmd.Flags().BoolVar(&serveAutopilot, "autopilot", false, "run the steward in-process")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.admin_key", serveCmd.Flags().Lookup("admin-key"))
	_ = viper.BindPFlag("server.speed", serveCmd.Flags().Lookup("speed"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAutopilot {
		cfg.Steward.Enabled = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, db, err := startSession(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	game := api.NewGame(sess)

	eng := engine.NewEngine()
	eng.Interval = cfg.Server.DayInterval()
	eng.SetSpeed(cfg.Server.Speed)
	eng.OnDay = game.Tick

	srv := &api.Server{
		Game:     game,
		Eng:      eng,
		DB:       db,
		Addr:     cfg.Server.Addr,
		AdminKey: cfg.Server.AdminKey,
		Origins:  cfg.Server.Origins,
		Advance:  api.NewRateLimiter(cfg.Server.AdvancePerMinute, time.Minute),
	}
	if srv.AdminKey == "" {
		slog.Warn("no admin key set, POST endpoints are disabled")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("day loop stopped", "error", err)
			return
		}
		if ctx.Err() == nil {
			slog.Info("session over, still serving", "outcome", game.Outcome())
		}
	}()

	if cfg.Steward.Enabled {
		st := steward.NewLocal(game)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := st.Run(ctx, cfg.Steward.Interval()); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("steward stopped", "error", err)
			}
		}()
		slog.Info("steward autopilot enabled", "interval", cfg.Steward.Interval())
	}

	err = srv.ListenAndServe(ctx)
	stop()
	wg.Wait()
	return err
}
