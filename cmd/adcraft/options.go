package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"adcraft/internal/domain/adcopy"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List platforms, tones and lengths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			defaults := adcopy.DefaultAdRequest()
			printOptions(out, "Platforms", adcopy.Platforms(), defaults.Platform)
			printOptions(out, "Tones", adcopy.Tones(), defaults.Tone)
			printOptions(out, "Lengths", adcopy.Lengths(), defaults.Length)
			return nil
		},
	}
}

type option interface {
	comparable
	String() string
	Ident() string
}

func printOptions[T option](out io.Writer, title string, values []T, def T) {
	fmt.Fprintf(out, "%s:\n", title)
	for _, v := range values {
		marker := " "
		if v == def {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %-16s %s\n", marker, strings.ToLower(v.Ident()), v.String())
	}
}
