package v1

import (
	"github.com/kubev2v/assessment-report-agent/internal/models"
)

func NewAssessment(m models.Assessment) Assessment {
	a := Assessment{
		Id:         m.ID,
		Name:       m.Name,
		SourceType: AssessmentSourceType(m.SourceType),
		CreatedAt:  m.CreatedAt,
	}

	for _, s := range m.Snapshots {
		a.Snapshots = append(a.Snapshots, NewSnapshot(s))
	}

	return a
}

func NewAssessmentList(assessments []models.Assessment) AssessmentList {
	list := AssessmentList{
		Assessments: make([]Assessment, 0, len(assessments)),
		Total:       len(assessments),
	}
	for _, a := range assessments {
		list.Assessments = append(list.Assessments, NewAssessment(a))
	}
	return list
}

func NewSnapshot(m models.SnapshotRecord) Snapshot {
	return Snapshot{Id: m.ID, CreatedAt: m.CreatedAt}
}

func NewExportState(state models.ExportState) ExportState {
	var s ExportState

	switch state.LoadingState {
	case models.LoadingStateGeneratingPdf:
		s.LoadingState = ExportStateLoadingStateGeneratingPdf
	case models.LoadingStateGeneratingHtml:
		s.LoadingState = ExportStateLoadingStateGeneratingHtml
	case models.LoadingStateGeneratingXlsx:
		s.LoadingState = ExportStateLoadingStateGeneratingXlsx
	case models.LoadingStateError:
		s.LoadingState = ExportStateLoadingStateError
	default:
		s.LoadingState = ExportStateLoadingStateIdle
	}

	if state.Error != nil {
		s.Error = &ExportError{
			Message: state.Error.Message,
			Type:    ExportKind(state.Error.Type),
		}
	}

	return s
}

func NewExportEvent(state models.ExportState) ExportEvent {
	return ExportEvent{Type: ExportEventTypeState, State: NewExportState(state)}
}

func NewExport(m models.ExportRecord) Export {
	e := Export{
		Id:          m.ID,
		Kind:        ExportKind(m.Kind),
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		CreatedAt:   m.CreatedAt,
	}
	if m.AssessmentID != "" {
		id := m.AssessmentID
		e.AssessmentId = &id
	}
	return e
}

func NewExportList(records []models.ExportRecord) ExportList {
	list := ExportList{
		Exports: make([]Export, 0, len(records)),
		Total:   len(records),
	}
	for _, r := range records {
		list.Exports = append(list.Exports, NewExport(r))
	}
	return list
}

// ToOptions converts the request into export options. Missing fields keep the defaults.
func (r ExportRequest) ToOptions() models.ExportOptions {
	var opts models.ExportOptions
	if r.DocumentTitle != nil {
		opts.DocumentTitle = *r.DocumentTitle
	}
	if r.Filename != nil {
		opts.Filename = *r.Filename
	}
	return opts
}
