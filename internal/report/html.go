package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	DefaultDocumentTitle = "VMware Infrastructure Assessment Report"
	DefaultHTMLFilename  = "VMware_Infrastructure_Assessment_Comprehensive.html"

	// ExportContainerID is the id of the element captured for the PDF export.
	ExportContainerID = "export-dashboard"
	// ExportBlockSelector matches the blocks a page break must not cut.
	ExportBlockSelector = ".export-block"
	// ExportSegmentAttribute marks the four regions of the explicit page layout.
	ExportSegmentAttribute = "data-export-segment"

	timestampLayout = "January 2, 2006 15:04 MST"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var documentTemplate = template.Must(template.New("report").Parse(reportTemplate))

// Sink receives generated documents.
type Sink interface {
	Download(ctx context.Context, file models.ExportFile) error
}

type barView struct {
	Label     string
	Value     string
	Percent   string
	Supported bool
}

type documentView struct {
	Title            string
	GeneratedAt      string
	Data             *models.ChartData
	TotalVMs         int
	OSCount          int
	DatastoreCount   int
	WarningCount     int
	PowerStates      []barView
	OperatingSystems []barView
	Storage          []barView
}

// RenderDocument returns the standalone HTML report of data.
// The same markup is loaded in the browser for the PDF export.
func RenderDocument(data *models.ChartData, title string, generatedAt time.Time) (string, error) {
	if title == "" {
		title = DefaultDocumentTitle
	}

	view := documentView{
		Title:          title,
		GeneratedAt:    generatedAt.Format(timestampLayout),
		Data:           data,
		OSCount:        len(data.OSData),
		DatastoreCount: len(data.StorageLabels),
		WarningCount:   len(data.WarningsData),
	}

	maxPower := 0
	for _, p := range data.PowerStateData {
		view.TotalVMs += p.Count
		maxPower = max(maxPower, p.Count)
	}
	for _, p := range data.PowerStateData {
		view.PowerStates = append(view.PowerStates, barView{
			Label:   p.Label,
			Value:   strconv.Itoa(p.Count),
			Percent: percent(float64(p.Count), float64(maxPower)),
		})
	}

	maxOS := 0
	for _, o := range data.OSData {
		maxOS = max(maxOS, o.Count)
	}
	for _, o := range data.OSData {
		view.OperatingSystems = append(view.OperatingSystems, barView{
			Label:     o.Name,
			Value:     strconv.Itoa(o.Count),
			Percent:   percent(float64(o.Count), float64(maxOS)),
			Supported: o.Supported,
		})
	}

	for i, label := range data.StorageLabels {
		used, total := data.StorageUsedData[i], data.StorageTotalData[i]
		view.Storage = append(view.Storage, barView{
			Label:   label,
			Value:   fmt.Sprintf("%.0f / %.0f GB", used, total),
			Percent: percent(used, total),
		})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render report document: %w", err)
	}
	return buf.String(), nil
}

func percent(v, total float64) string {
	if total <= 0 || v <= 0 {
		return "0"
	}
	return strconv.FormatFloat(min(v/total*100, 100), 'f', 1, 64)
}

// HTMLGenerator produces the standalone HTML export.
type HTMLGenerator struct {
	sink        Sink
	settleDelay time.Duration
	now         func() time.Time
}

func NewHTMLGenerator(sink Sink, settleDelay time.Duration) *HTMLGenerator {
	return &HTMLGenerator{sink: sink, settleDelay: settleDelay, now: time.Now}
}

func (g *HTMLGenerator) WithClock(now func() time.Time) *HTMLGenerator {
	g.now = now
	return g
}

// Generate renders snapshot and hands the document to the sink. It returns once
// the settle delay following the hand-off has elapsed.
func (g *HTMLGenerator) Generate(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error {
	if snapshot == nil {
		return srvErrors.NewNoInventoryError()
	}

	data, err := Transform(snapshot)
	if err != nil {
		return err
	}

	doc, err := RenderDocument(data, opts.DocumentTitle, g.now())
	if err != nil {
		return err
	}

	filename := opts.Filename
	if filename == "" {
		filename = DefaultHTMLFilename
	}

	if err := g.sink.Download(ctx, models.ExportFile{
		Name:        filename,
		ContentType: models.ExportKindHtml.ContentType(),
		Data:        []byte(doc),
	}); err != nil {
		return err
	}

	zap.S().Named("html_generator").Debugw("html report handed to sink", "filename", filename, "size", len(doc))

	select {
	case <-time.After(g.settleDelay):
	case <-ctx.Done():
	}

	return nil
}
