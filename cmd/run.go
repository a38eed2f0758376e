package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/config"
	"github.com/kubev2v/assessment-report-agent/internal/handlers"
	"github.com/kubev2v/assessment-report-agent/internal/server"
	"github.com/kubev2v/assessment-report-agent/internal/services"
	"github.com/kubev2v/assessment-report-agent/internal/store"
	"github.com/kubev2v/assessment-report-agent/internal/store/migrations"
	"github.com/kubev2v/assessment-report-agent/pkg/browser"
	"github.com/kubev2v/assessment-report-agent/pkg/download"
	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

const (
	dbFilename      = "agent.duckdb"
	shutdownTimeout = 10 * time.Second
)

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	runCmd := &cobra.Command{
		Use:          "run",
		Short:        "Run the assessment report agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	nfs := cobrautil.NewNamedFlagSets(runCmd)

	serverFlags := nfs.FlagSet("Server")
	serverFlags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port the API listens on")
	serverFlags.StringVar(&cfg.Server.StaticsFolder, "server-statics-folder", cfg.Server.StaticsFolder, "Folder of the UI served in prod mode")
	serverFlags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod")

	agentFlags := nfs.FlagSet("Agent")
	agentFlags.StringVar(&cfg.Agent.Version, "version", cfg.Agent.Version, "Version reported by the agent")
	agentFlags.IntVar(&cfg.Agent.NumWorkers, "num-workers", cfg.Agent.NumWorkers, "Number of scheduler workers")
	agentFlags.StringVar(&cfg.Agent.DataFolder, "data-folder", cfg.Agent.DataFolder, "Folder of the database and the exported files")

	registerBrowserFlags(nfs.FlagSet("Browser"), cfg)
	registerExportFlags(nfs.FlagSet("Export"), cfg)

	nfs.AddFlagSets(runCmd)

	return runCmd
}

func validateConfiguration(cfg *config.Configuration) error {
	switch cfg.Server.ServerMode {
	case server.DevServer:
	case server.ProductionServer:
		if cfg.Server.StaticsFolder == "" {
			return errors.New("statics folder must be set when server mode is prod")
		}
	default:
		return fmt.Errorf("invalid server mode %q: must be %s or %s", cfg.Server.ServerMode, server.DevServer, server.ProductionServer)
	}

	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port %d: must be between 1 and 65535", cfg.Server.HTTPPort)
	}

	if cfg.Agent.NumWorkers < 1 {
		return fmt.Errorf("invalid num-workers %d: must be at least 1", cfg.Agent.NumWorkers)
	}

	if cfg.Agent.DataFolder == "" {
		return errors.New("data-folder cannot be empty")
	}

	return validateRenderingConfiguration(cfg)
}

// validateRenderingConfiguration checks the settings shared by the server and the export command.
func validateRenderingConfiguration(cfg *config.Configuration) error {
	if cfg.Browser.DeviceScaleFactor <= 0 {
		return fmt.Errorf("invalid browser-device-scale-factor %v: must be greater than 0", cfg.Browser.DeviceScaleFactor)
	}

	if cfg.Browser.ViewportWidth < 1 || cfg.Browser.ViewportHeight < 1 {
		return fmt.Errorf("invalid browser viewport %dx%d", cfg.Browser.ViewportWidth, cfg.Browser.ViewportHeight)
	}

	if cfg.Browser.LoadTimeout <= 0 {
		return fmt.Errorf("invalid browser-load-timeout %s: must be positive", cfg.Browser.LoadTimeout)
	}

	if cfg.Export.SettleDelay < 0 {
		return fmt.Errorf("invalid export-settle-delay %s: cannot be negative", cfg.Export.SettleDelay)
	}

	return nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	zap.S().Infow("starting agent", "version", cfg.Agent.Version, "configuration", cfg.DebugMap())

	if err := os.MkdirAll(cfg.Agent.DataFolder, 0750); err != nil {
		return fmt.Errorf("failed to create data folder: %w", err)
	}

	db, err := store.NewDB(filepath.Join(cfg.Agent.DataFolder, dbFilename))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			zap.S().Errorw("failed to close store", "error", err)
		}
	}()

	sched := scheduler.NewScheduler(cfg.Agent.NumWorkers)
	defer sched.Close()

	b := browser.New(browserConfig(cfg.Browser))
	defer func() {
		if err := b.Close(); err != nil {
			zap.S().Warnw("failed to close browser", "error", err)
		}
	}()

	files := download.NewDiskStore(cfg.Agent.DataFolder)
	// the report service starts every export with exporters writing to the assessment's history
	exportSrv := services.NewExportService(sched, nil, nil, nil)
	assessmentSrv := services.NewAssessmentService(st)
	reportSrv := services.NewReportService(assessmentSrv, exportSrv, st, files, openDocument(b), cfg.Export.SettleDelay)

	h := handlers.New(assessmentSrv, reportSrv, exportSrv)

	srv, err := server.NewServer(cfg, h.Register)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("server listening", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode)
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.S().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return <-errCh
}

func openDocument(b *browser.Browser) services.DocumentOpener {
	return func(ctx context.Context, html, containerID string) (services.Document, error) {
		doc, err := b.Open(ctx, html, containerID)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
}
