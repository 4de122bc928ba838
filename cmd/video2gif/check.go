package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/five82/video2gif/internal/deps"
	apperrors "github.com/five82/video2gif/internal/errors"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that ffmpeg and ffprobe are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen)
			bad := color.New(color.FgRed)
			warn := color.New(color.FgYellow)

			statuses := deps.CheckBinaries(cmd.Context(), deps.Requirements(ctx.ffmpegBinary(), ctx.ffprobeBinary()))
			for _, s := range statuses {
				switch {
				case s.Available:
					ok.Fprintf(out, "✓ %s", s.Name)
					fmt.Fprintf(out, " %s\n", s.Path)
					if s.Version != "" {
						fmt.Fprintf(out, "    %s\n", s.Version)
					}
				case s.Optional:
					warn.Fprintf(out, "! %s", s.Name)
					fmt.Fprintf(out, " (optional) %s: %s\n", s.Detail, s.Description)
				default:
					bad.Fprintf(out, "✗ %s", s.Name)
					fmt.Fprintf(out, " %s: %s\n", s.Detail, s.Description)
				}
			}

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return apperrors.NewDependencyMissingError(missing[0].Command)
			}
			return nil
		},
	}
}
