package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/tui"
)

var (
	browseHash  string
	browseStyle string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browses the site in the terminal",
	Long: `The browse command opens the site in a terminal browser. --hash picks the
starting page the same way a location hash does, for example
'#/articles?filter=forum'. Use tab or 1-4 to switch pages and [ ] to move
through history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd)
	},
}

func runBrowse(cmd *cobra.Command) error {
	// Anything below error level would draw over the alternate screen.
	quiet := logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))

	lib, err := loadLibrary(appConfig, quiet)
	if err != nil {
		return err
	}
	m, err := tui.New(lib, tui.Options{
		Hash:      browseHash,
		SiteTitle: appConfig.SiteTitle,
		Style:     browseStyle,
		Resolver:  assets.NewResolver(imagesFS(appConfig)),
		Logger:    quiet,
	})
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal browser: %w", err)
	}
	return nil
}

func init() {
	browseCmd.Flags().StringVar(&browseHash, "hash", "", "starting location hash, e.g. '#/gallery'")
	browseCmd.Flags().StringVar(&browseStyle, "style", "dark", "markdown style: dark, light, notty or ascii")
	rootCmd.AddCommand(browseCmd)
}
