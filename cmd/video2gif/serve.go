package main

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/server"
	"github.com/five82/video2gif/internal/watch"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	var watchDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runLog, err := ctx.setupLogging(cmd.ErrOrStderr())
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

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(conv, server.Options{
				Addr:   flagOrEnv(addr, envAddr, server.DefaultAddr),
				Config: cfg,
				Logger: logging.Global(),
			})

			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.Run(gctx)
			})
			if watchDir != "" {
				abs, err := filepath.Abs(watchDir)
				if err != nil {
					return err
				}
				w := watch.New(abs, conv, watch.Options{Config: cfg, Logger: logging.Global()})
				g.Go(func() error {
					return w.Run(gctx)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default "+server.DefaultAddr+", env "+envAddr+")")
	cmd.Flags().StringVar(&watchDir, "watch", "", "Also convert videos dropped into this directory")
	return cmd
}
