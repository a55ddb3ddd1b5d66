package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mdsync/internal/daemon"
	"mdsync/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start watching the content directory",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	manager, err := daemon.NewManager(cfg)
	if err != nil {
		return err
	}

	if err := manager.Start(); err != nil {
		return err
	}

	srv := daemon.NewServer(manager, cfg.DaemonPort)
	srv.Start()

	logger.Log.Info("mdsync started",
		zap.String("root", cfg.Root),
		zap.Duration("debounce", cfg.Debounce),
		zap.Bool("auto_sync", cfg.AutoSync),
		zap.String("log", cfg.LogPath))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
	}

	manager.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}

func init() {
	rootCmd.AddCommand(startCmd)
}
