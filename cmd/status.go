package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mdsync/internal/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View watcher status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			// No running daemon; report the configured state.
			printStatus(model.Snapshot{
				Root:     cfg.Root,
				LogPath:  cfg.LogPath,
				AutoSync: cfg.AutoSync,
			})
			return nil
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var snap model.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		printStatus(snap)
		return nil
	},
}

func printStatus(snap model.Snapshot) {
	fmt.Printf("root:          %s\n", snap.Root)
	fmt.Printf("log file:      %s\n", snap.LogPath)
	fmt.Printf("watching:      %t\n", snap.Watching)
	fmt.Printf("auto-sync:     %t\n", snap.AutoSync)
	fmt.Printf("files tracked: %d\n", snap.FilesTracked)

	if !snap.Watching {
		return
	}

	fmt.Printf("synced:        %d\n", snap.Synced)
	fmt.Printf("failed:        %d\n", snap.Failed)

	lastSync := "-"
	if snap.LastSync != nil {
		lastSync = snap.LastSync.Format("2006-01-02 15:04:05")
	}
	fmt.Printf("last sync:     %s\n", lastSync)
	fmt.Printf("uptime:        %s\n", time.Since(snap.StartedAt).Round(time.Second))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
