package report_test

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/assessment-report-agent/internal/models"
	"github.com/kubev2v/assessment-report-agent/internal/report"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

var chartDataScript = regexp.MustCompile(`(?s)<script type="application/json" id="chart-data">(.*?)</script>`)

var _ = Describe("HTMLGenerator", func() {
	var (
		sink      *recordingSink
		generator *report.HTMLGenerator
		now       time.Time
	)

	BeforeEach(func() {
		now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		sink = &recordingSink{}
		generator = report.NewHTMLGenerator(sink, 0).WithClock(func() time.Time { return now })
	})

	It("should fail without inventory", func() {
		// Act
		err := generator.Generate(context.TODO(), nil, models.ExportOptions{})

		// Assert
		Expect(err).To(MatchError("No inventory data available for export"))
		Expect(srvErrors.IsNoInventoryError(err)).To(BeTrue())
		Expect(sink.Files()).To(BeEmpty())
	})

	It("should fail on an unrecognized shape", func() {
		err := generator.Generate(context.TODO(), &models.Snapshot{}, models.ExportOptions{})
		Expect(srvErrors.IsInvalidInventoryShapeError(err)).To(BeTrue())
	})

	// Given a valid snapshot and no options
	// When we generate the HTML report
	// Then the default title and filename should be used
	It("should hand a standalone document to the sink", func() {
		// Act
		err := generator.Generate(context.TODO(), newSnapshot(), models.ExportOptions{})

		// Assert
		Expect(err).NotTo(HaveOccurred())
		files := sink.Files()
		Expect(files).To(HaveLen(1))
		Expect(files[0].Name).To(Equal("VMware_Infrastructure_Assessment_Comprehensive.html"))
		Expect(files[0].ContentType).To(Equal("text/html; charset=utf-8"))

		doc := string(files[0].Data)
		Expect(doc).To(ContainSubstring("<title>VMware Infrastructure Assessment Report</title>"))
		Expect(doc).To(ContainSubstring("Generated on March 14, 2026 09:30 UTC"))
		Expect(doc).To(ContainSubstring(`id="export-dashboard"`))
		for _, marker := range []string{"1", "2", "3", "4"} {
			Expect(doc).To(ContainSubstring(`data-export-segment="` + marker + `"`))
		}
		Expect(doc).To(ContainSubstring(`class="export-block`))
		Expect(doc).To(ContainSubstring("NetApp NFS"))
	})

	It("should embed the chart data as JSON", func() {
		// Arrange
		expected, err := report.Transform(newSnapshot())
		Expect(err).NotTo(HaveOccurred())

		// Act
		err = generator.Generate(context.TODO(), newSnapshot(), models.ExportOptions{})

		// Assert
		Expect(err).NotTo(HaveOccurred())
		match := chartDataScript.FindSubmatch(sink.Files()[0].Data)
		Expect(match).To(HaveLen(2))
		var data models.ChartData
		Expect(json.Unmarshal(match[1], &data)).To(Succeed())
		Expect(&data).To(Equal(expected))
	})

	It("should use the title and filename options", func() {
		// Act
		err := generator.Generate(context.TODO(), newSnapshot(), models.ExportOptions{
			DocumentTitle: "Q3 <Datacenter> Review",
			Filename:      "review.html",
		})

		// Assert
		Expect(err).NotTo(HaveOccurred())
		file := sink.Files()[0]
		Expect(file.Name).To(Equal("review.html"))
		Expect(string(file.Data)).To(ContainSubstring("<title>Q3 &lt;Datacenter&gt; Review</title>"))
	})

	It("should wait for the settle delay after the hand-off", func() {
		// Arrange
		generator = report.NewHTMLGenerator(sink, 100*time.Millisecond)
		start := time.Now()

		// Act
		err := generator.Generate(context.TODO(), newSnapshot(), models.ExportOptions{})

		// Assert
		Expect(err).NotTo(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically(">=", 100*time.Millisecond))
	})
})
