package report

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

const (
	DefaultPDFFilename = "Dashboard_Report.pdf"

	pageMargin   = 10.0
	footerHeight = 8.0
	fontFamily   = "Helvetica"
	pdfLibrary   = "fpdf"
)

var (
	colorPrimary   = [3]int{0, 102, 204}
	colorTextDark  = [3]int{21, 21, 21}
	colorTextMuted = [3]int{106, 110, 115}
	colorGridLine  = [3]int{210, 210, 210}
)

// tableOfContents is printed on the cover page.
var tableOfContents = []string{
	"Executive Summary",
	"Infrastructure Overview",
	"Virtual Machine Inventory",
	"VM Power States",
	"Resource Allocation",
	"Recommended Target Capacity",
	"Operating System Distribution",
	"Operating System Support",
	"Migration Readiness",
	"Migration Warnings",
	"Storage Utilization",
	"Datastore Capacity",
	"Network Overview",
	"Host and Cluster Inventory",
	"Next Steps",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Paginator assembles the PDF document of a capture.
type Paginator struct {
	canvases CanvasFactory
	now      func() time.Time
}

func NewPaginator() *Paginator {
	return &Paginator{canvases: DefaultCanvasFactory(), now: time.Now}
}

func (p *Paginator) WithCanvasFactory(f CanvasFactory) *Paginator {
	p.canvases = f
	return p
}

func (p *Paginator) WithClock(now func() time.Time) *Paginator {
	p.now = now
	return p
}

// Build returns the PDF document of c: a cover page followed by one page per planned segment.
func (p *Paginator) Build(ctx context.Context, c *Capture, title string) ([]byte, error) {
	if title == "" {
		title = DefaultDocumentTitle
	}

	bounds := c.Bitmap.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, srvErrors.NewDrawingContextError(bounds.Dx(), bounds.Dy())
	}

	now := p.now()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("assessment-report-agent", true)
	pdf.SetCreationDate(now)

	p.writeCoverPage(pdf, title, now)

	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin
	contentHeight := pageHeight - 2*pageMargin - footerHeight

	scale := contentWidth / float64(bounds.Dx())
	plan := BuildPlan(c, contentHeight/scale)

	zap.S().Named("paginator").Debugw("pagination planned", "kind", plan.Kind.String(), "pages", len(plan.Segments),
		"bitmap_width", bounds.Dx(), "bitmap_height", bounds.Dy())

	slices, err := p.encodeSlices(ctx, c, plan)
	if err != nil {
		return nil, err
	}

	for i, data := range slices {
		seg := plan.Segments[i]
		name := fmt.Sprintf("slice-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}

		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))

		w := contentWidth
		h := float64(seg.Height) * scale
		if h > contentHeight {
			w *= contentHeight / h
			h = contentHeight
		}
		pdf.ImageOptions(name, pageMargin+(contentWidth-w)/2, pageMargin, w, h, false, opts, 0, "")
	}

	addPageNumbers(pdf)

	if pdf.Err() {
		return nil, srvErrors.NewExternalLibraryError(pdfLibrary, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, srvErrors.NewExternalLibraryError(pdfLibrary, err)
	}

	return buf.Bytes(), nil
}

// encodeSlices crops and PNG encodes every segment. The result keeps the plan order.
func (p *Paginator) encodeSlices(ctx context.Context, c *Capture, plan Plan) ([][]byte, error) {
	slices := make([][]byte, len(plan.Segments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, seg := range plan.Segments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			img, err := cropSlice(p.canvases, c.Bitmap, seg)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return fmt.Errorf("failed to encode page %d: %w", i+1, err)
			}
			slices[i] = buf.Bytes()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices, nil
}

func (p *Paginator) writeCoverPage(pdf *fpdf.Fpdf, title string, generatedAt time.Time) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin
	bottom := pageHeight - pageMargin - footerHeight

	pdf.AddPage()

	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 6, "F")

	pdf.SetY(40)
	pdf.SetFont(fontFamily, "B", 24)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	for _, line := range pdf.SplitText(latin1(title), contentWidth) {
		pdf.CellFormat(0, 11, tr(line), "", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont(fontFamily, "", 11)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 6, "Generated on "+generatedAt.Format(timestampLayout), "", 1, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 10, "Table of Contents", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 12)
	const lineHeight = 9.0
	for i, entry := range tableOfContents {
		if pdf.GetY()+lineHeight > bottom {
			pdf.AddPage()
			pdf.SetY(pageMargin)
		}

		y := pdf.GetY()
		pdf.CellFormat(0, lineHeight, fmt.Sprintf("%d. %s", i+1, entry), "", 1, "L", false, 0, "")
		pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
		pdf.SetLineWidth(0.2)
		pdf.Line(pageMargin, y+lineHeight, pageWidth-pageMargin, y+lineHeight)
	}
}

// latin1 replaces the runes the core fonts cannot draw.
func latin1(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, s)
}

// addPageNumbers stamps "Page X of N" on every page, the cover included.
func addPageNumbers(pdf *fpdf.Fpdf) {
	totalPages := pdf.PageCount()
	for i := 1; i <= totalPages; i++ {
		pdf.SetPage(i)
		_, pageHeight := pdf.GetPageSize()

		pdf.SetY(pageHeight - pageMargin - footerHeight/2)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of %d", i, totalPages), "", 0, "C", false, 0, "")
	}
}

// PDFFilename returns the download name of a PDF export: the filename option, else
// the title, sanitized and with a .pdf extension.
func PDFFilename(opts models.ExportOptions) string {
	name := opts.Filename
	if name == "" {
		name = opts.DocumentTitle
	}

	if ext := ".pdf"; len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		name = name[:len(name)-len(ext)]
	}
	name = strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "_"), "_.")
	if name == "" {
		return DefaultPDFFilename
	}
	return name + ".pdf"
}

// PDFGenerator captures a rendered container and hands the paginated document to a sink.
type PDFGenerator struct {
	sink      Sink
	paginator *Paginator
}

func NewPDFGenerator(sink Sink, paginator *Paginator) *PDFGenerator {
	return &PDFGenerator{sink: sink, paginator: paginator}
}

func (g *PDFGenerator) Generate(ctx context.Context, container Container, opts models.ExportOptions) error {
	capture, err := CaptureContainer(ctx, container)
	if err != nil {
		return err
	}

	doc, err := g.paginator.Build(ctx, capture, opts.DocumentTitle)
	if err != nil {
		return err
	}

	return g.sink.Download(ctx, models.ExportFile{
		Name:        PDFFilename(opts),
		ContentType: models.ExportKindPdf.ContentType(),
		Data:        doc,
	})
}
