package download_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/assessment-report-agent/pkg/download"
)

var _ = Describe("DiskStore", func() {
	var (
		tmpDir string
		store  *download.DiskStore
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "download-test-*")
		Expect(err).NotTo(HaveOccurred())
		store = download.NewDiskStore(tmpDir)
	})

	AfterEach(func() {
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
	})

	Describe("Save and Load", func() {
		It("should save and load a file", func() {
			path, err := store.Save("1234", "Dashboard_Report.pdf", []byte("%PDF-1.3"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "exports", "1234", "Dashboard_Report.pdf")))
			Expect(store.Exists(path)).To(BeTrue())

			data, err := store.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("%PDF-1.3"))
		})

		It("should overwrite an existing file", func() {
			_, err := store.Save("1234", "report.html", []byte("first"))
			Expect(err).NotTo(HaveOccurred())

			path, err := store.Save("1234", "report.html", []byte("second"))
			Expect(err).NotTo(HaveOccurred())

			data, err := store.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("second"))

			entries, err := os.ReadDir(filepath.Dir(path))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("should keep the file inside the store", func() {
			path, err := store.Save("1234", "../../escape.pdf", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal(filepath.Join(tmpDir, "exports", "1234", "escape.pdf")))
		})

		It("should reject an empty name", func() {
			_, err := store.Save("1234", "", []byte("x"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Load", func() {
		It("should return ErrNotFound when the file does not exist", func() {
			_, err := store.Load(filepath.Join(tmpDir, "exports", "missing", "report.pdf"))
			Expect(err).To(MatchError(download.ErrNotFound))
		})

		It("should return ErrNotFound outside the store", func() {
			outside := filepath.Join(tmpDir, "outside.txt")
			Expect(os.WriteFile(outside, []byte("x"), 0600)).To(Succeed())

			_, err := store.Load(outside)
			Expect(err).To(MatchError(download.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("should remove the file", func() {
			path, err := store.Save("1234", "report.xlsx", []byte("x"))
			Expect(err).NotTo(HaveOccurred())

			Expect(store.Delete(path)).To(Succeed())
			Expect(store.Exists(path)).To(BeFalse())
		})

		It("should not fail when the file does not exist", func() {
			Expect(store.Delete(filepath.Join(tmpDir, "exports", "none", "x.pdf"))).To(Succeed())
		})
	})
})
