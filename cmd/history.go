package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mdsync/internal/model"
	"mdsync/internal/repository"

	"github.com/spf13/cobra"
)

var (
	historyLimit  int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent sync outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fmt.Sprintf("%s?n=%d&failed=%t", daemonURL("/history"), historyLimit, historyFailed)
		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var histories []model.History
		if err := json.NewDecoder(resp.Body).Decode(&histories); err != nil {
			return err
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			status := "ok"
			if h.Status == model.StatusFailed {
				status = fmt.Sprintf("exit %d", h.ExitCode)
			}

			fmt.Printf("[%s] %-7s %-40s %s\n",
				h.FinishedAt.Format("2006-01-02 15:04:05"),
				h.EventType,
				h.Path,
				status,
			)
		}

		printHistoryStats()
		return nil
	},
}

func printHistoryStats() {
	resp, err := http.Get(daemonURL("/history/stats"))
	if err != nil {
		return
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	var stats repository.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return
	}

	fmt.Printf("total %d (%d success, %d failed)\n", stats.Total, stats.Success, stats.Failed)
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show only failed syncs")
	rootCmd.AddCommand(historyCmd)
}
