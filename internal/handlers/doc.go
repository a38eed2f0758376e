// Package handlers implements the HTTP API layer of the assessment report agent.
//
// Handlers delegate to the services layer and only deal with request
// validation, response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request binding and validation                               │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Assessment │ Report │ Export                                   │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Handler Structure
//
// All handlers are methods on a single Handler struct. Services are held
// behind small interfaces so tests can replace them:
//
//	type Handler struct {
//	    assessmentSrv AssessmentService
//	    reportSrv     ReportService
//	    exportSrv     ExportStateService
//	}
//
// Routes are added to a router group with:
//
//	handler.Register(router.Group("/api/v1"))
//
// # API Endpoints
//
// Assessment Endpoints (assessments.go):
//
//	┌────────┬─────────────────────────────┬──────────────────────────────────┐
//	│ Method │ Endpoint                    │ Description                      │
//	├────────┼─────────────────────────────┼──────────────────────────────────┤
//	│ GET    │ /assessments                │ List assessments                 │
//	│ POST   │ /assessments                │ Create from an inventory         │
//	│ GET    │ /assessments/{id}           │ Get assessment with snapshots    │
//	│ POST   │ /assessments/{id}/snapshots │ Add an inventory snapshot        │
//	│ GET    │ /assessments/{id}/charts    │ Chart data of the latest snapshot│
//	└────────┴─────────────────────────────┴──────────────────────────────────┘
//
// Export Endpoints (exports.go, events.go):
//
//	┌────────┬──────────────────────────────────┬─────────────────────────────┐
//	│ Method │ Endpoint                         │ Description                 │
//	├────────┼──────────────────────────────────┼─────────────────────────────┤
//	│ POST   │ /assessments/{id}/exports/{kind} │ Start a pdf/html/xlsx export│
//	│ GET    │ /exports                         │ Export history              │
//	│ GET    │ /exports/state                   │ Current export state        │
//	│ DELETE │ /exports/state/error             │ Reset the state to idle     │
//	│ GET    │ /exports/events                  │ Websocket of state changes  │
//	│ GET    │ /exports/{id}/file               │ Download an exported file   │
//	└────────┴──────────────────────────────────┴─────────────────────────────┘
//
// # Starting an export
//
// POST /assessments/{id}/exports/{kind} answers 202 with the export state
// right after the export is scheduled. The outcome is observed through
// GET /exports/state or the events stream. The request body is optional:
//
//	{"documentTitle": "Q3 Review", "filename": "q3.pdf"}
//
// # Export history
//
// GET /exports accepts assessmentId, kind, limit and filter. filter is an
// expression of package filter, for example:
//
//	GET /exports?filter=size > 1MB and filename ~ /^Q3/
//
// A filter that does not parse is answered with 400 "invalid filter: ...".
//
// # Error Handling
//
//	┌─────────────────────────────┬────────┐
//	│ Error                       │ Status │
//	├─────────────────────────────┼────────┤
//	│ binding / validation        │ 400    │
//	│ InvalidInventoryShapeError  │ 400    │
//	│ NoInventoryError            │ 400    │
//	│ ResourceNotFoundError       │ 404    │
//	│ ExportInProgressError       │ 409    │
//	│ anything else               │ 500    │
//	└─────────────────────────────┴────────┘
//
// Error responses have the shape:
//
//	{"error": "export already in progress"}
//
// Unexpected errors are logged and answered with a generic message.
//
// # Events stream
//
// Every message of GET /exports/events is an ExportEvent:
//
//	{"type": "state", "state": {"loadingState": "generating-pdf", "error": null}}
//
// The first message carries the current state. A client that cannot keep up
// is disconnected with close code 1013 (try again later).
package handlers
