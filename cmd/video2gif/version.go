package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/video2gif/internal/processing"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "video2gif v%s\n", processing.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Developed by %s\n", processing.Author)
		},
	}
}
