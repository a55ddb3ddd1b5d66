package cmd

import (
	"fmt"
	"os"

	"mdsync/internal/autostart"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the watcher to start on login",
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		as := autostart.New()
		if installed, err := as.IsInstalled(); err == nil && installed {
			fmt.Println("mdsync already registered for autostart")
			return nil
		}

		if err := as.Install(execPath); err != nil {
			return err
		}

		fmt.Println("mdsync registered for autostart")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
