package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	DefaultXLSXFilename = "VMware_Infrastructure_Assessment.xlsx"

	sheetSummary  = "Summary"
	sheetOS       = "Operating Systems"
	sheetWarnings = "Warnings"
	sheetStorage  = "Storage"

	xlsxLibrary = "excelize"
)

// workbook wraps an excelize file and keeps the first error.
type workbook struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *workbook) row(sheet string, row int, values ...any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetSheetRow(sheet, cell, &values)
}

func (w *workbook) header(sheet string, row int, values ...any) {
	w.row(sheet, row, values...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	w.err = w.f.SetCellStyle(sheet, first, last, w.headerStyle)
}

func (w *workbook) sheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *workbook) width(sheet, startCol, endCol string, width float64) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetColWidth(sheet, startCol, endCol, width)
}

func (w *workbook) chart(sheet, cell string, chart *excelize.Chart) {
	if w.err != nil {
		return
	}
	w.err = w.f.AddChart(sheet, cell, chart)
}

// RenderWorkbook returns the spreadsheet export of data.
func RenderWorkbook(data *models.ChartData, title string) ([]byte, error) {
	if title == "" {
		title = DefaultDocumentTitle
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	w := &workbook{f: f}
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, srvErrors.NewExternalLibraryError(xlsxLibrary, err)
	}
	w.headerStyle, w.err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F5F5F5"}},
	})

	writeSummarySheet(w, data, title)
	writeOSSheet(w, data)
	writeWarningsSheet(w, data)
	writeStorageSheet(w, data)

	if w.err != nil {
		return nil, srvErrors.NewExternalLibraryError(xlsxLibrary, w.err)
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, srvErrors.NewExternalLibraryError(xlsxLibrary, err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(w *workbook, data *models.ChartData, title string) {
	w.row(sheetSummary, 1, title)

	w.header(sheetSummary, 3, "Power State", "VMs")
	for i, p := range data.PowerStateData {
		w.row(sheetSummary, 4+i, p.Label, p.Count)
	}

	resourceStart := 5 + len(data.PowerStateData)
	w.header(sheetSummary, resourceStart, "Resource", "Current", "Recommended")
	for i, r := range data.ResourceData {
		w.row(sheetSummary, resourceStart+1+i, r.Label, r.Actual, r.Recommended)
	}
	w.width(sheetSummary, "A", "A", 28)
	w.width(sheetSummary, "B", "C", 16)

	if n := len(data.PowerStateData); n > 0 {
		w.chart(sheetSummary, "E3", &excelize.Chart{
			Type: excelize.Pie,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$B$3", sheetSummary),
				Categories: rangeRef(sheetSummary, "A", 4, 3+n),
				Values:     rangeRef(sheetSummary, "B", 4, 3+n),
			}},
			Title:  []excelize.RichTextRun{{Text: "VM Power States"}},
			Legend: excelize.ChartLegend{Position: "right"},
		})
	}

	if n := len(data.ResourceData); n > 0 {
		first, last := resourceStart+1, resourceStart+n
		w.chart(sheetSummary, "E20", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{Name: fmt.Sprintf("'%s'!$B$%d", sheetSummary, resourceStart), Categories: rangeRef(sheetSummary, "A", first, last), Values: rangeRef(sheetSummary, "B", first, last)},
				{Name: fmt.Sprintf("'%s'!$C$%d", sheetSummary, resourceStart), Categories: rangeRef(sheetSummary, "A", first, last), Values: rangeRef(sheetSummary, "C", first, last)},
			},
			Title:  []excelize.RichTextRun{{Text: "Resource Allocation"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		})
	}
}

func writeOSSheet(w *workbook, data *models.ChartData) {
	w.sheet(sheetOS)
	w.header(sheetOS, 1, "Operating System", "VMs", "Supported")
	for i, o := range data.OSData {
		w.row(sheetOS, 2+i, o.Name, o.Count, o.Supported)
	}
	w.width(sheetOS, "A", "A", 48)

	if n := len(data.OSData); n > 0 {
		w.chart(sheetOS, "E2", &excelize.Chart{
			Type: excelize.Bar,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$B$1", sheetOS),
				Categories: rangeRef(sheetOS, "A", 2, 1+n),
				Values:     rangeRef(sheetOS, "B", 2, 1+n),
			}},
			Title:  []excelize.RichTextRun{{Text: "Operating Systems"}},
			Legend: excelize.ChartLegend{Position: "none"},
		})
	}
}

func writeWarningsSheet(w *workbook, data *models.ChartData) {
	w.sheet(sheetWarnings)
	w.header(sheetWarnings, 1, "Warning", "Affected VMs")
	for i, warn := range data.WarningsData {
		w.row(sheetWarnings, 2+i, warn.Label, warn.Count)
	}
	w.width(sheetWarnings, "A", "A", 64)
}

func writeStorageSheet(w *workbook, data *models.ChartData) {
	w.sheet(sheetStorage)
	w.header(sheetStorage, 1, "Datastore", "Used GB", "Total GB")
	for i, label := range data.StorageLabels {
		w.row(sheetStorage, 2+i, label, data.StorageUsedData[i], data.StorageTotalData[i])
	}
	w.width(sheetStorage, "A", "A", 32)
	w.width(sheetStorage, "B", "C", 14)

	if n := len(data.StorageLabels); n > 0 {
		w.chart(sheetStorage, "E2", &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{
				{Name: fmt.Sprintf("'%s'!$B$1", sheetStorage), Categories: rangeRef(sheetStorage, "A", 2, 1+n), Values: rangeRef(sheetStorage, "B", 2, 1+n)},
				{Name: fmt.Sprintf("'%s'!$C$1", sheetStorage), Categories: rangeRef(sheetStorage, "A", 2, 1+n), Values: rangeRef(sheetStorage, "C", 2, 1+n)},
			},
			Title:  []excelize.RichTextRun{{Text: "Storage Utilization"}},
			Legend: excelize.ChartLegend{Position: "bottom"},
		})
	}
}

func rangeRef(sheet, col string, first, last int) string {
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, col, first, col, last)
}

// XLSXGenerator produces the spreadsheet export.
type XLSXGenerator struct {
	sink Sink
}

func NewXLSXGenerator(sink Sink) *XLSXGenerator {
	return &XLSXGenerator{sink: sink}
}

func (g *XLSXGenerator) Generate(ctx context.Context, snapshot *models.Snapshot, opts models.ExportOptions) error {
	if snapshot == nil {
		return srvErrors.NewNoInventoryError()
	}

	data, err := Transform(snapshot)
	if err != nil {
		return err
	}

	doc, err := RenderWorkbook(data, opts.DocumentTitle)
	if err != nil {
		return err
	}

	filename := opts.Filename
	if filename == "" {
		filename = DefaultXLSXFilename
	}

	return g.sink.Download(ctx, models.ExportFile{
		Name:        filename,
		ContentType: models.ExportKindXlsx.ContentType(),
		Data:        doc,
	})
}
