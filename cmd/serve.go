package cmd

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ScootGarcia/renetium/internal/render"
	"github.com/ScootGarcia/renetium/internal/server"
	"github.com/ScootGarcia/renetium/internal/watch"
	"github.com/ScootGarcia/renetium/site"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and reloads content on changes",
	Long: `The serve command loads the site and serves it over HTTP. Pages are
rendered per request: the shell page drives navigation through the location
hash, and every page also works without scripting. When contentDir is set,
the directory is watched and the content is reloaded after changes; a reload
that fails keeps the previous content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	port := appConfig.Port
	if cmd.Flags().Changed("port") {
		port = serverPort
	}

	lib, err := loadLibrary(appConfig, logger)
	if err != nil {
		return err
	}
	rn, err := newRenderer(appConfig, render.ServerLinks{})
	if err != nil {
		return err
	}
	static, err := fs.Sub(site.FS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	srv := server.New(lib, rn, server.Options{
		Static:         static,
		Images:         imagesFS(appConfig),
		AllowedOrigins: appConfig.AllowedOrigins,
		Logger:         logger,
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.ListenAndServe(ctx, fmt.Sprintf(":%d", port))
	})
	if appConfig.ContentDir != "" {
		w := watch.New([]string{appConfig.ContentDir}, watch.WithLogger(logger))
		g.Go(func() error {
			return w.Run(ctx, func() { reload(srv) })
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://localhost:%d\nPress Ctrl+C to stop the server.\n", port)
	return g.Wait()
}

func reload(srv *server.Server) {
	logger.Info("reloading content due to changes")
	lib, err := loadLibrary(appConfig, logger)
	if err != nil {
		logger.Error("reload failed, keeping previous content", zap.Error(err))
		return
	}
	srv.Swap(lib)
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "port to serve the site on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
