// Package cmd implements the chatfeed command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatfeed/config"
)

var rootCmd = &cobra.Command{
	Use:   "chatfeed",
	Short: "Ordered chat message store with live grouping",
	Long: `chatfeed maintains a newest-first chat message sequence, emits one
operation per mutation to any number of subscribers, and derives visual
cluster/date-separator tags per message.

The demo command runs a terminal feed driven entirely by the store's
operation stream; replay loads serialized messages from a file.`,
}

var configDirFlag string

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Override config directory (default: ~/.chatfeed)")
	cobra.OnInitialize(func() {
		if configDirFlag != "" {
			config.SetConfigDir(configDirFlag)
		}
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
