package cmd

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/build"
	"github.com/ScootGarcia/renetium/internal/render"
	"github.com/ScootGarcia/renetium/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site into the output directory",
	Long: `The build command loads the knowledge base and galleries, renders every
page without scripting (home, each knowledge base filter, every item, every
gallery frame inline and full-screen, about), writes search.json, and copies
the static assets and the images directory into the configured output
directory (default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(cmd)
	},
}

func runBuildProcess(cmd *cobra.Command) error {
	logger.Info("starting build",
		zap.String("outputDir", appConfig.OutputDir),
		zap.String("baseURL", appConfig.BaseURL),
		zap.String("siteTitle", appConfig.SiteTitle))

	lib, err := loadLibrary(appConfig, logger)
	if err != nil {
		return err
	}
	rn, err := newRenderer(appConfig, render.StaticLinks{})
	if err != nil {
		return err
	}
	static, err := fs.Sub(site.FS, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	report, err := build.Site(cmd.Context(), lib, rn, build.Options{
		OutputDir: appConfig.OutputDir,
		Static:    static,
		Images:    imagesFS(appConfig),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages and %d assets into %s\n", report.Pages, report.Assets, appConfig.OutputDir)
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
