package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/ssn-relay/internal/app"
	"github.com/vovakirdan/ssn-relay/internal/config"
	applog "github.com/vovakirdan/ssn-relay/internal/log"
	"github.com/vovakirdan/ssn-relay/internal/nettts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ssn-relay",
		Short:         "Relay Social Stream Ninja chat events to a NetTTS engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath, cmd.Flags())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to config.yaml (created with defaults if missing)")
	registerConfigFlags(flags, config.Default())

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Listen for chat events (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath, cmd.Flags())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "send <text>...",
		Short: "Send one line to the NetTTS engine and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd.Context(), configPath, cmd.Flags(), strings.Join(args, " "))
		},
	})
	return root
}

// registerConfigFlags exposes each config key as a flag; names match keys with dashes.
func registerConfigFlags(flags *pflag.FlagSet, def config.Config) {
	flags.String("listen-host", def.ListenHost, "HTTP listen host")
	flags.Int("listen-port", def.ListenPort, "HTTP listen port")
	flags.String("nettts-host", def.NetTTSHost, "NetTTS host")
	flags.Int("nettts-port", def.NetTTSPort, "NetTTS port")
	flags.String("prefix", def.Prefix, "tags prepended to every spoken line")
	flags.Int("max-len", def.MaxLen, "maximum characters per spoken message (0 disables)")
	flags.StringSlice("allowed-users", def.AllowedUsers, "display names allowed to speak (empty allows everyone)")
	flags.Duration("dial-timeout", def.DialTimeout, "NetTTS connect and write timeout")
	flags.Duration("read-header-timeout", def.ReadHeaderTimeout, "HTTP read header timeout")
	flags.Duration("shutdown-timeout", def.ShutdownTimeout, "graceful shutdown timeout")
	flags.Int64("max-body-bytes", def.MaxBodyBytes, "largest accepted request body")
	flags.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.Bool("log-pretty", def.LogPretty, "human readable console logs")
	flags.Bool("metrics-enabled", def.MetricsEnabled, "serve Prometheus metrics at /metrics")
}

func loadConfig(configPath string, flags *pflag.FlagSet) (config.Config, *zerolog.Logger, error) {
	bootLogger := applog.New("info", true)

	cfg, path, err := config.Load(bootLogger, configPath, flags)
	if err != nil {
		return cfg, bootLogger, err
	}

	logger := applog.New(cfg.LogLevel, cfg.LogPretty)
	logger.Debug().Str("path", path).Msg("config loaded")
	return cfg, logger, nil
}

func runServe(ctx context.Context, configPath string, flags *pflag.FlagSet) error {
	cfg, logger, err := loadConfig(configPath, flags)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	logger.Info().Str("addr", cfg.ListenAddr()).Msg("starting ssn relay")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runSend(ctx context.Context, configPath string, flags *pflag.FlagSet, text string) error {
	cfg, logger, err := loadConfig(configPath, flags)
	if err != nil {
		return err
	}

	client := nettts.NewClient(cfg.NetTTSAddr(), cfg.DialTimeout)
	start := time.Now()
	if err := client.Deliver(ctx, cfg.Prefix+text); err != nil {
		return err
	}
	logger.Info().Str("addr", client.Addr()).Dur("took", time.Since(start)).Msg("sent")
	return nil
}
