package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/netprobe/internal/logging"
	"github.com/hamed0406/netprobe/internal/sink"
)

var sinkAddr string

var sinkCmd = &cobra.Command{
	Use:   "sink",
	Short: "Run a local report API that logs every report it receives",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.NewLogger(logging.Options{Dir: "logs", Console: true})
		if err != nil {
			return err
		}
		defer logger.Sync()

		srv := &http.Server{
			Addr:              sinkAddr,
			Handler:           sink.Router(logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()

		logger.Info("sink_listen", zap.String("addr", sinkAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "sink")
		}
		return nil
	},
}

func init() {
	// 3000 matches the default report URL used in local setups.
	sinkCmd.Flags().StringVarP(&sinkAddr, "addr", "a", ":3000", "HTTP address to listen on")
	rootCmd.AddCommand(sinkCmd)
}
