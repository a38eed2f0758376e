package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/assessment-report-agent/internal/config"
	"github.com/kubev2v/assessment-report-agent/internal/report"
)

const inventoryJSON = `{
	"infra": {
		"totalHosts": 2,
		"datastores": [{"vendor": "Dell", "type": "VMFS", "totalCapacityGB": 2000, "freeCapacityGB": 500}]
	},
	"vms": {
		"total": 10,
		"totalMigratable": 8,
		"powerStates": {"poweredOn": 9, "poweredOff": 1},
		"cpuCores": {"total": 40},
		"ramGB": {"total": 128},
		"diskGB": {"total": 900},
		"os": {"Microsoft Windows Server 2019": 6, "CentOS 7": 4},
		"migrationWarnings": []
	}
}`

const inventoryYAML = `
inventory:
  infra:
    totalHosts: 1
    datastores:
      - vendor: NetApp
        type: NFS
        totalCapacityGB: 100
        freeCapacityGB: 25
  vms:
    total: 2
    totalMigratable: 2
    powerStates:
      poweredOn: 2
    cpuCores:
      total: 4
    ramGB:
      total: 8
    diskGB:
      total: 40
    migrationWarnings: []
`

var _ = Describe("Export Command", func() {
	var (
		cfg     *config.Configuration
		tempDir string
	)

	BeforeEach(func() {
		color.NoColor = true
		cfg = config.NewConfigurationWithOptionsAndDefaults()
		cfg.Export.SettleDelay = 0
		tempDir = GinkgoT().TempDir()
	})

	writeInput := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0600)).To(Succeed())
		return path
	}

	Describe("Flag Parsing", func() {
		It("should parse the export flags", func() {
			cmd := NewExportCommand(cfg)

			err := cmd.ParseFlags([]string{
				"--input", "inventory.json",
				"--format", "xlsx",
				"--title", "Q3 Review",
				"--filename", "q3.xlsx",
				"--output-dir", "/tmp/reports",
				"--browser-no-sandbox",
				"--export-settle-delay", "0s",
			})
			Expect(err).ToNot(HaveOccurred())

			Expect(cmd.Flags().Lookup("input").Value.String()).To(Equal("inventory.json"))
			Expect(cmd.Flags().Lookup("format").Value.String()).To(Equal("xlsx"))
			Expect(cmd.Flags().Lookup("output-dir").Value.String()).To(Equal("/tmp/reports"))
			Expect(cfg.Browser.NoSandbox).To(BeTrue())
		})

		It("should default to a pdf export in the working directory", func() {
			cmd := NewExportCommand(cfg)
			Expect(cmd.ParseFlags([]string{})).To(Succeed())

			Expect(cmd.Flags().Lookup("format").Value.String()).To(Equal("pdf"))
			Expect(cmd.Flags().Lookup("output-dir").Value.String()).To(Equal("."))
		})
	})

	Describe("Options Validation", func() {
		It("should reject an unknown format", func() {
			opts := &exportOptions{input: "in.json", format: "docx"}
			err := opts.validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid format"))
		})

		It("should reject a filename with a path separator", func() {
			opts := &exportOptions{input: "in.json", format: "html", filename: "../out.html"}
			err := opts.validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid filename"))
		})

		It("should require an input", func() {
			opts := &exportOptions{format: "html"}
			Expect(opts.validate()).To(MatchError(ContainSubstring("input cannot be empty")))
		})
	})

	Describe("readSnapshot", func() {
		It("should read a JSON snapshot", func() {
			snapshot, err := readSnapshot(writeInput("inventory.json", inventoryJSON))
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.VMs).NotTo(BeNil())
			Expect(snapshot.VMs.Total).To(Equal(10))
		})

		It("should read a YAML snapshot", func() {
			snapshot, err := readSnapshot(writeInput("inventory.yaml", inventoryYAML))
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.Inventory).NotTo(BeNil())
			Expect(snapshot.Inventory.Infra.Datastores).To(HaveLen(1))
			Expect(snapshot.Inventory.Infra.Datastores[0].Vendor).To(Equal("NetApp"))
		})

		It("should fail when the file does not exist", func() {
			_, err := readSnapshot(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(MatchError(ContainSubstring("failed to read input")))
		})

		It("should fail on invalid YAML", func() {
			_, err := readSnapshot(writeInput("broken.yml", "inventory: [unclosed"))
			Expect(err).To(MatchError(ContainSubstring("failed to parse yaml input")))
		})
	})

	Describe("runExport", func() {
		It("should write an HTML report and print progress", func() {
			// Given
			out := &bytes.Buffer{}
			outputDir := filepath.Join(tempDir, "reports")
			opts := &exportOptions{
				input:     writeInput("inventory.json", inventoryJSON),
				format:    "html",
				title:     "Frankfurt DC",
				outputDir: outputDir,
			}

			// When
			err := runExport(context.Background(), cfg, opts, out)

			// Then
			Expect(err).NotTo(HaveOccurred())

			path := filepath.Join(outputDir, report.DefaultHTMLFilename)
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("Frankfurt DC"))

			Expect(out.String()).To(ContainSubstring("generating-html..."))
			Expect(out.String()).To(ContainSubstring("export done"))
			Expect(out.String()).To(ContainSubstring(path))
		})

		It("should write a spreadsheet under the requested name", func() {
			// Given
			out := &bytes.Buffer{}
			opts := &exportOptions{
				input:     writeInput("inventory.yaml", inventoryYAML),
				format:    "xlsx",
				filename:  "dc.xlsx",
				outputDir: tempDir,
			}

			// When
			err := runExport(context.Background(), cfg, opts, out)

			// Then
			Expect(err).NotTo(HaveOccurred())

			data, err := os.ReadFile(filepath.Join(tempDir, "dc.xlsx"))
			Expect(err).NotTo(HaveOccurred())
			Expect(data[:2]).To(Equal([]byte("PK")))
		})

		DescribeTable("should report an inventory of unknown shape through the export state",
			func(format, generating, file string) {
				// Given
				out := &bytes.Buffer{}
				opts := &exportOptions{
					input:     writeInput("empty.json", `{}`),
					format:    format,
					outputDir: tempDir,
				}

				// When
				err := runExport(context.Background(), cfg, opts, out)

				// Then
				Expect(err).To(MatchError(ContainSubstring("export failed: invalid inventory shape")))
				Expect(out.String()).To(HavePrefix(generating + "...\n"))
				Expect(out.String()).To(ContainSubstring("export failed: invalid inventory shape"))

				_, statErr := os.Stat(filepath.Join(tempDir, file))
				Expect(os.IsNotExist(statErr)).To(BeTrue())
			},
			Entry("html", "html", "generating-html", report.DefaultHTMLFilename),
			Entry("xlsx", "xlsx", "generating-xlsx", report.DefaultXLSXFilename),
			Entry("pdf, before a browser is started", "pdf", "generating-pdf", report.DefaultPDFFilename),
		)
	})
})
