package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/publist/publist/internal/loader"
	"github.com/publist/publist/internal/render"
	"github.com/publist/publist/internal/server"
	"github.com/publist/publist/internal/watch"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the publication page with a live view toggle",
	Long: `Starts an HTTP server that renders the publication page, switches between the
selected and full views in place, and reloads the document when a local
source file changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override server.port")
	serveCmd.Flags().Bool("no-watch", false, "do not reload when the source file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	database, loads, err := openLoadLog(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	r, err := render.New(cfg.HighlightName)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	intro, err := renderIntro(r, cfg.IntroFile)
	if err != nil {
		return err
	}

	ctrl := newController(cfg, loads)

	srv := server.New(server.Config{
		Port:         cfg.Server.Port,
		AllowAll:     cfg.Server.AllowAll,
		Title:        cfg.SiteTitle,
		Intro:        intro,
		ImagePreview: cfg.ImagePreview,
		LiveReload:   cfg.Server.LiveReload,
		StaticDir:    assetRoot(cfg.Source),
		Assets:       cfg.Assets,
	}, ctrl, r, loads, logger)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl.Load(ctx)

	noWatch, _ := cmd.Flags().GetBool("no-watch")
	if fs, ok := ctrl.Source().(*loader.FileSource); ok && !noWatch {
		w := watch.New(fs.Path, func(ctx context.Context) { ctrl.Load(ctx) }, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Warn("source watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(os.Stderr, "publist server %s starting on port %d\n", Version, cfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Source: %s\n", ctrl.Source())
	if cfg.DBPath != "" {
		fmt.Fprintf(os.Stderr, "  Load log: %s\n", database.Path())
	}

	return srv.Start()
}
