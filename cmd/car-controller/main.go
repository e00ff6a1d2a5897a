package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"car-controller/internal/config"
	"car-controller/internal/core"
	"car-controller/internal/logger"
	"car-controller/internal/messaging"
	"car-controller/internal/metrics"
)

var (
	cfgPath  string
	logLevel int
)

var rootCmd = &cobra.Command{
	Use:           "car-controller",
	Short:         "Simulated car controller",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to a YAML or JSON config file")
	rootCmd.Flags().IntVar(&logLevel, "log", int(logger.LogLevelInfo), "log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level logger.LogLevel) *logger.Logger {
	// Running under systemd, journald adds timestamps
	if os.Getenv("INVOCATION_ID") != "" {
		return logger.NewLogger(os.Stdout, level)
	}
	return logger.NewConsoleLogger(os.Stdout, level)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log") {
		cfg.Log.Level = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	l := newLogger(logger.LogLevel(cfg.Log.Level))
	l.Infof("Starting car controller (backend=%s)", cfg.Hardware.Backend)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(cfg.Hardware, l)
	if err != nil {
		return err
	}
	defer b.Close()

	outputs := b.outputs
	if cfg.Redis.Enabled {
		var callbacks messaging.Callbacks
		if b.panel != nil {
			callbacks = messaging.PanelCallbacks(b.panel)
		}
		client := messaging.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, l, callbacks)
		if err := client.Connect(); err != nil {
			return err
		}
		defer client.Close()
		client.StartListening()
		outputs.Display = messaging.NewDashboardMirror(b.display, client, l)
	}

	var opts []core.Option
	if cfg.Metrics.Addr != "" {
		rec, err := metrics.NewPromRecorder(nil)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		opts = append(opts, core.WithRecorder(rec))
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.Addr, nil, l); err != nil {
				l.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	controller := core.NewController(b.inputs, outputs, l, opts...)
	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	l.Infof("Shutdown complete")
	return nil
}
