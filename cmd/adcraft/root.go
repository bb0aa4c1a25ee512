package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "adcraft",
		Short:         "Generate platform-specific ad copy",
		Long:          `adcraft writes a headline, body, call to action and hashtags for a product, tuned to an advertising platform, a tone and a length.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newGenerateCmd(&verbose))
	root.AddCommand(newOptionsCmd())
	return root
}
