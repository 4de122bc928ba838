package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	apperrors "github.com/five82/video2gif/internal/errors"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/util"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:   "video2gif [path]",
		Short: "Convert videos into tiny, small and medium GIFs",
		Long: `Convert videos into three GIF versions (tiny, small, medium).

With a file argument only that file is converted. With a directory argument,
or no argument, every supported video in that directory (or the current one)
is converted. Outputs are written next to each input as NAME-<tier>.gif.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is normal.
			_ = godotenv.Load()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file (default config.json, env "+envConfig+")")
	flags.StringVar(&ctx.ffmpegFlag, "ffmpeg", "", "ffmpeg binary (env "+envFFmpeg+")")
	flags.StringVar(&ctx.ffprobeFlag, "ffprobe", "", "ffprobe binary (env "+envFFprobe+")")
	flags.StringVar(&ctx.logDir, "log-dir", "", "Log directory (default "+filepath.Join("<cache>", "video2gif", "logs")+")")
	flags.BoolVar(&ctx.noLog, "no-log", false, "Disable log file creation")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&ctx.jsonOutput, "json", false, "Emit newline-delimited JSON events")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, args []string) error {
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

	files, dir, err := resolveInputs(args)
	if err != nil {
		return err
	}
	if files == nil {
		files, err = conv.FindVideos(dir)
		if apperrors.IsNoFilesFound(err) {
			fmt.Fprintf(out, "No video files found in %s\n", dir)
			return nil
		}
		if err != nil {
			return err
		}
	}

	rep := ctx.newReporter(out, errOut, runLog)
	conv.ConvertBatch(cmd.Context(), files, rep)
	if path := runLog.FilePath(); path != "" && !ctx.jsonOutput {
		fmt.Fprintf(errOut, "Log: %s\n", path)
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}
	return nil
}

// resolveInputs picks the single file named by args, or the directory to
// scan: the argument when it is a directory, the working directory otherwise.
func resolveInputs(args []string) (files []string, dir string, err error) {
	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("resolve path: %w", err)
		}
		switch {
		case util.FileExists(abs):
			return []string{abs}, "", nil
		case util.DirectoryExists(abs):
			return nil, abs, nil
		}
		logging.Warn("path not found, scanning working directory", "path", abs)
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("resolve working directory: %w", err)
	}
	return nil, wd, nil
}
