package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/config"
	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/logging"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/render"
	"github.com/ScootGarcia/renetium/site"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "renetium",
	Short: "Renetium - photography stories, tips and galleries",
	Long: `Renetium serves and builds a photography site: a knowledge base of
articles, tips and forum discussions, and photo galleries with a full-screen
viewer. Content is read from markdown files with front matter and a
galleries.yaml file, embedded by default or taken from contentDir.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func initializeConfig(_ *cobra.Command) error {
	cfg, found, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	l, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return err
	}
	appConfig, logger = cfg, l
	if found {
		file := cfgFile
		if file == "" {
			file = "config.yaml"
		}
		logger.Debug("using config file", zap.String("file", file))
	} else {
		logger.Debug("no config file found, using defaults and environment")
	}
	return nil
}

// siteFS is the tree content is loaded from: contentDir when set, the
// embedded site otherwise.
func siteFS(cfg config.Config) fs.FS {
	if cfg.ContentDir != "" {
		return os.DirFS(cfg.ContentDir)
	}
	return site.FS
}

// imagesFS is the optional local images directory.
func imagesFS(cfg config.Config) fs.FS {
	if cfg.ImagesDir == "" {
		return nil
	}
	return os.DirFS(cfg.ImagesDir)
}

func loadLibrary(cfg config.Config, log *zap.Logger) (*model.Library, error) {
	lib, err := content.NewLoader(siteFS(cfg), log).Load(cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return lib, nil
}

// newRenderer parses the embedded layouts.
func newRenderer(cfg config.Config, links render.Links) (*render.Renderer, error) {
	return render.New(site.FS, render.Options{
		SiteTitle: cfg.SiteTitle,
		BaseURL:   cfg.BaseURL,
		Links:     links,
		Resolver:  assets.NewResolver(imagesFS(cfg)),
	})
}
