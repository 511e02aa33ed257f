// Package cmd holds the contagion command tree.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/talgya/contagion/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "contagion",
	Short: "Multi-region outbreak simulation",
	Long: `Contagion simulates an outbreak spreading across world regions.
Each day you may apply a handful of offered interventions while random
events shake the world. Contain the infection before the economy or
public morale collapses.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/contagion/config.yaml)")
	flags.StringP("difficulty", "d", "", "easy, normal or expert")
	flags.Int64("seed", 0, "replay seed (0 picks a random one)")
	flags.String("archive", "", "SQLite archive path")
	flags.String("log-level", "", "debug, info, warn or error")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("game.difficulty", flags.Lookup("difficulty"))
	_ = viper.BindPFlag("game.seed", flags.Lookup("seed"))
	_ = viper.BindPFlag("archive.path", flags.Lookup("archive"))
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "contagion: reading config: %v\n", err)
		}
	}
}

// loadConfig unmarshals the merged settings and installs the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	slog.SetDefault(newLogger(cfg.Logging))
	return cfg, nil
}

func newLogger(c config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if useText(c.Format, os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// useText reports whether logs go out as text rather than JSON. Auto picks
// text only for an interactive terminal.
func useText(format string, fd uintptr) bool {
	switch format {
	case "text":
		return true
	case "json":
		return false
	default:
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}
