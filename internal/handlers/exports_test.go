package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/assessment-report-agent/api/v1"
	"github.com/kubev2v/assessment-report-agent/internal/handlers"
	"github.com/kubev2v/assessment-report-agent/internal/models"
	srvErrors "github.com/kubev2v/assessment-report-agent/pkg/errors"
)

var _ = Describe("Export handlers", func() {
	var (
		mockReports *MockReportService
		mockState   *MockExportStateService
		router      *gin.Engine
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		mockReports = &MockReportService{}
		mockState = &MockExportStateService{State: models.ExportState{LoadingState: models.LoadingStateIdle}}

		handler := handlers.New(&MockAssessmentService{}, mockReports, mockState)
		router = gin.New()
		handler.Register(router.Group("/api/v1"))
	})

	Describe("StartExport", func() {
		It("should accept an export without a body", func() {
			// Given
			mockState.State = models.ExportState{LoadingState: models.LoadingStateGeneratingPdf}

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/pdf", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(mockReports.LastExportID).To(Equal("a1"))
			Expect(mockReports.LastExportKind).To(Equal(models.ExportKindPdf))
			Expect(mockReports.LastExportOpts).To(Equal(models.ExportOptions{}))

			var response v1.ExportState
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.LoadingState).To(Equal(v1.ExportStateLoadingStateGeneratingPdf))
			Expect(response.Error).To(BeNil())
		})

		It("should pass the export options", func() {
			// Given
			body := []byte(`{"documentTitle":"Q3 Review","filename":"q3.xlsx"}`)

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/xlsx", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(mockReports.LastExportKind).To(Equal(models.ExportKindXlsx))
			Expect(mockReports.LastExportOpts.DocumentTitle).To(Equal("Q3 Review"))
			Expect(mockReports.LastExportOpts.Filename).To(Equal("q3.xlsx"))
		})

		It("should reject an unknown export kind", func() {
			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/docx", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("unsupported export kind: docx"))
			Expect(mockReports.ExportCallCount).To(Equal(0))
		})

		It("should reject a filename with a path separator", func() {
			// Given
			body := []byte(`{"filename":"../etc/passwd"}`)

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/html", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("invalid export options"))
			Expect(mockReports.ExportCallCount).To(Equal(0))
		})

		It("should reject a title that is too long", func() {
			// Given
			body, err := json.Marshal(map[string]string{"documentTitle": strings.Repeat("x", 201)})
			Expect(err).NotTo(HaveOccurred())

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/pdf", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 409 when an export is running", func() {
			// Given
			mockReports.ExportError = srvErrors.NewExportInProgressError()

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/pdf", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(w.Body.String()).To(ContainSubstring("export already in progress"))
		})

		It("should return 404 when the assessment does not exist", func() {
			// Given
			mockReports.ExportError = srvErrors.NewAssessmentNotFoundError("a1")

			// When
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/a1/exports/pdf", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("export state", func() {
		It("should return the current state with its error", func() {
			// Given
			mockState.State = models.ExportState{
				LoadingState: models.LoadingStateError,
				Error:        &models.ExportError{Message: "boom", Type: models.ExportKindHtml},
			}

			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/state", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))

			var response v1.ExportState
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.LoadingState).To(Equal(v1.ExportStateLoadingStateError))
			Expect(response.Error).NotTo(BeNil())
			Expect(response.Error.Message).To(Equal("boom"))
			Expect(response.Error.Type).To(Equal(v1.ExportKindHtml))
		})

		It("should serialize a missing error as null", func() {
			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/state", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Body.String()).To(MatchJSON(`{"loadingState":"idle","error":null}`))
		})

		It("should clear the error", func() {
			// Given
			mockState.State = models.ExportState{
				LoadingState: models.LoadingStateError,
				Error:        &models.ExportError{Message: "boom", Type: models.ExportKindPdf},
			}

			// When
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/exports/state/error", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockState.ClearCallCount).To(Equal(1))
			Expect(w.Body.String()).To(MatchJSON(`{"loadingState":"idle","error":null}`))
		})
	})

	Describe("ListExports", func() {
		It("should return the exports", func() {
			// Given
			createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
			mockReports.ListResult = []models.ExportRecord{
				{ID: "e1", AssessmentID: "a1", Kind: models.ExportKindPdf, Filename: "Dashboard_Report.pdf", ContentType: "application/pdf", Size: 42, CreatedAt: createdAt},
				{ID: "e2", Kind: models.ExportKindXlsx, Filename: "dc.xlsx", Size: 7, CreatedAt: createdAt},
			}

			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockReports.LastListOpts).To(Equal(0))

			var response v1.ExportList
			Expect(json.Unmarshal(w.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Total).To(Equal(2))
			Expect(response.Exports[0].AssessmentId).NotTo(BeNil())
			Expect(*response.Exports[0].AssessmentId).To(Equal("a1"))
			Expect(response.Exports[1].AssessmentId).To(BeNil())
			Expect(response.Exports[1].Kind).To(Equal(v1.ExportKindXlsx))
		})

		It("should turn the query into list options", func() {
			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports?assessmentId=a1&kind=pdf&limit=5", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockReports.LastListOpts).To(Equal(3))
		})

		It("should add the filter to the list options", func() {
			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports?kind=pdf&filter="+url.QueryEscape("size > 1MB and filename ~ /^Q3/"), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockReports.LastListOpts).To(Equal(2))
		})

		It("should reject a malformed filter", func() {
			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports?filter="+url.QueryEscape("path = '/tmp'"), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("invalid filter"))
			Expect(w.Body.String()).To(ContainSubstring("unknown field"))
		})

		DescribeTable("should reject invalid query parameters",
			func(query string) {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/exports?"+query, nil)
				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(w.Body.String()).To(ContainSubstring("invalid query parameters"))
			},
			Entry("unknown kind", "kind=docx"),
			Entry("zero limit", "limit=0"),
			Entry("limit too large", "limit=5000"),
			Entry("limit not a number", "limit=ten"),
		)

		It("should hide store errors", func() {
			// Given
			mockReports.ListError = errors.New("io error")

			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("failed to list exports"))
		})
	})

	Describe("DownloadExport", func() {
		It("should return the file as an attachment", func() {
			// Given
			mockReports.FileResult = &models.ExportFile{
				Name:        "Q3 Review.pdf",
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.3"),
			}

			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/e1/file", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="Q3 Review.pdf"`))
			Expect(w.Body.String()).To(Equal("%PDF-1.3"))
		})

		It("should return 404 for an unknown export", func() {
			// Given
			mockReports.FileError = srvErrors.NewExportNotFoundError("e9")

			// When
			req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/e9/file", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// Then
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("export e9 not found"))
		})
	})
})
