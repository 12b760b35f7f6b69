package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/progress"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the publication page as a static site",
	Long: `Loads the publication document and writes index.html (selected publications),
all.html (every publication), the stylesheet, the script, a copy of the
document and every file matching the configured asset patterns.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("output", "", "override output directory")
	buildCmd.Flags().Bool("strict", false, "fail on load errors and malformed records")
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after building")
	buildCmd.Flags().Int("port", 8080, "port for the local preview server")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	strict, _ := cmd.Flags().GetBool("strict")

	database, loads, err := openLoadLog(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	r, err := render.New(cfg.HighlightName)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	gen := site.NewGenerator(newController(cfg, loads), r, outputDir, cfg.SiteTitle)
	gen.IntroFile = cfg.IntroFile
	gen.AssetRoot = assetRoot(cfg.Source)
	gen.Assets = cfg.Assets
	gen.ImagePreview = cfg.ImagePreview
	gen.Strict = strict
	gen.Reporter = progress.NewReporter()
	gen.Logger = logger

	pageCount, err := gen.Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("building site: %w", err)
	}

	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)

	// Optionally serve the site.
	if serve, _ := cmd.Flags().GetBool("serve"); serve {
		port, _ := cmd.Flags().GetInt("port")
		openBrowser, _ := cmd.Flags().GetBool("open")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return site.Preview(ctx, outputDir, port, openBrowser, logger)
	}
	return nil
}

// assetRoot is the directory asset patterns are resolved against: the
// directory holding a local source document, or the working directory.
func assetRoot(source string) string {
	if source == "" || loader.IsURL(source) {
		return "."
	}
	return filepath.Dir(source)
}
