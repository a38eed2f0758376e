package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kubev2v/assessment-report-agent/internal/config"
	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	"github.com/kubev2v/assessment-report-agent/internal/services"
	"github.com/kubev2v/assessment-report-agent/pkg/browser"
	"github.com/kubev2v/assessment-report-agent/pkg/download"
	"github.com/kubev2v/assessment-report-agent/pkg/scheduler"
)

type exportOptions struct {
	input     string
	format    string
	title     string
	filename  string
	outputDir string
}

func NewExportCommand(cfg *config.Configuration) *cobra.Command {
	opts := &exportOptions{}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export a report from an inventory snapshot file",
		Example: `  report-agent export --input inventory.json --format pdf --title "Q3 Review"
  report-agent export --input inventory.yaml --format xlsx --output-dir reports`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if err := validateRenderingConfiguration(cfg); err != nil {
				return err
			}
			return runExport(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	nfs := cobrautil.NewNamedFlagSets(exportCmd)

	exportFlags := nfs.FlagSet("Export")
	exportFlags.StringVarP(&opts.input, "input", "i", "", "Inventory snapshot file (JSON or YAML). Use - for stdin")
	exportFlags.StringVarP(&opts.format, "format", "f", string(models.ExportKindPdf), "Export format: pdf, html or xlsx")
	exportFlags.StringVar(&opts.title, "title", "", "Document title")
	exportFlags.StringVar(&opts.filename, "filename", "", "Name of the exported file")
	exportFlags.StringVarP(&opts.outputDir, "output-dir", "o", ".", "Folder the exported file is written to")
	registerExportFlags(exportFlags, cfg)

	registerBrowserFlags(nfs.FlagSet("Browser"), cfg)

	nfs.AddFlagSets(exportCmd)
	_ = exportCmd.MarkFlagRequired("input")

	return exportCmd
}

func (o *exportOptions) validate() error {
	if o.input == "" {
		return errors.New("input cannot be empty")
	}
	if _, ok := models.ParseExportKind(o.format); !ok {
		return fmt.Errorf("invalid format %q: must be pdf, html or xlsx", o.format)
	}
	if strings.ContainsAny(o.filename, `/\`) {
		return fmt.Errorf("invalid filename %q: must not contain a path separator", o.filename)
	}
	return nil
}

func runExport(ctx context.Context, cfg *config.Configuration, opts *exportOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	snapshot, err := readSnapshot(opts.input)
	if err != nil {
		return err
	}

	kind, _ := models.ParseExportKind(opts.format)
	exportOpts := models.ExportOptions{DocumentTitle: opts.title, Filename: opts.filename}

	sched := scheduler.NewScheduler(1)
	defer sched.Close()

	b := browser.New(browserConfig(cfg.Browser))
	defer func() {
		if err := b.Close(); err != nil {
			zap.S().Named("export").Warnw("failed to close browser", "error", err)
		}
	}()

	sink := download.NewDirSink(opts.outputDir)
	exports := services.NewExportService(
		sched,
		nil,
		report.NewHTMLGenerator(sink, cfg.Export.SettleDelay),
		report.NewXLSXGenerator(sink),
	)

	unsubscribe := exports.Subscribe(progressPrinter(out))
	defer unsubscribe()

	switch kind {
	case models.ExportKindHtml:
		err = exports.ExportHtml(ctx, snapshot, exportOpts)
	case models.ExportKindXlsx:
		err = exports.ExportXlsx(ctx, snapshot, exportOpts)
	default:
		// the report is rendered and loaded in the browser inside the export
		pdf := services.NewDocumentExporter(openDocument(b), report.NewPDFGenerator(sink, report.NewPaginator()))
		err = exports.Run(ctx, models.ExportKindPdf, func(ctx context.Context) error {
			return pdf.Generate(ctx, snapshot, exportOpts)
		})
	}
	if err != nil {
		return err
	}

	if state := exports.GetSnapshot(); state.Error != nil {
		return fmt.Errorf("export failed: %s", state.Error.Message)
	}

	for _, path := range sink.Written() {
		fmt.Fprintln(out, path)
	}
	return nil
}

// readSnapshot reads a snapshot file. YAML files are converted to JSON first.
func readSnapshot(input string) (*models.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml input: %w", err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert yaml input: %w", err)
		}
	}

	return report.ParseSnapshot(data)
}

func progressPrinter(out io.Writer) services.Listener {
	working := color.New(color.FgCyan)
	done := color.New(color.FgGreen, color.Bold)
	failed := color.New(color.FgRed, color.Bold)

	return func(s models.ExportState) {
		switch s.LoadingState {
		case models.LoadingStateGeneratingPdf, models.LoadingStateGeneratingHtml, models.LoadingStateGeneratingXlsx:
			_, _ = working.Fprintf(out, "%s...\n", s.LoadingState)
		case models.LoadingStateIdle:
			_, _ = done.Fprintln(out, "export done")
		case models.LoadingStateError:
			_, _ = failed.Fprintf(out, "export failed: %s\n", s.Error.Message)
		}
	}
}
