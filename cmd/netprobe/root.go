package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/app"
	"github.com/hamed0406/netprobe/internal/config"
	"github.com/hamed0406/netprobe/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "netprobe",
	Short:        "Periodically ping, request and traceroute hosts, reporting failures",
	SilenceUsage: true,
	RunE:         runProbes,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Schedule probe jobs for every configured host (default)",
	RunE:  runProbes,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("NETPROBE_CONFIG"), "Properties file to load (env NETPROBE_CONFIG)")
	rootCmd.AddCommand(runCmd)
}

func runProbes(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Console: cfg.LogConsole})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("netprobe_start",
		zap.Strings("hosts", cfg.Hosts),
		zap.String("report_url", cfg.ReportURL),
		zap.String("status_addr", cfg.StatusAddr),
	)
	err = app.Build(cfg, logger).Run(ctx)
	if err != nil {
		logger.Error("netprobe_stopped", logging.Chain(err))
		return err
	}
	logger.Info("netprobe_stopped")
	return nil
}
