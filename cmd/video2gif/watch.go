package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/processing"
	"github.com/five82/video2gif/internal/util"
	"github.com/five82/video2gif/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce = watch.DefaultDebounce

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Convert videos as they appear in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			runLog, err := ctx.setupLogging(errOut)
			if err != nil {
				return err
			}
			defer func() { _ = runLog.Close() }()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := ctx.requireFFmpeg(cmd.Context()); err != nil {
				return err
			}
			conv, err := ctx.newConverter(cfg)
			if err != nil {
				return err
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if !util.DirectoryExists(abs) {
				return fmt.Errorf("%s is not a directory", abs)
			}

			rep := ctx.newReporter(out, errOut, runLog)
			fmt.Fprintf(out, "Watching %s for new videos (Ctrl+C to stop)\n", abs)

			w := watch.New(abs, conv, watch.Options{
				Debounce: debounce,
				Config:   cfg,
				Logger:   logging.Global(),
				Handler:  processing.ReporterHandler(rep),
			})
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is converted")
	return cmd
}
