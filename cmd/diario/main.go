package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "diario",
		Short:         "Terminal client for the diario journaling service",
		Long:          "diario drafts journal entries by chatting with the service's AI assistant,\nwith image attachments uploaded along the way.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: $XDG_CONFIG_HOME/diario/config.toml)")

	root.AddCommand(newDraftCmd())
	root.AddCommand(newVersionCmd())

	return root
}
