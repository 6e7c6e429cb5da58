package report

import (
	"context"
	"time"

	"github.com/klinik/klinik/internal/domain/patient"
)

const (
	// reportLimit caps the rows returned by the JSON report.
	reportLimit = 500
	// exportLimit caps the rows written into a spreadsheet export.
	exportLimit = 1000
)

// Summary aggregates the report's row counts over the requested range.
type Summary struct {
	TotalPatients int `json:"total_patients"`
	TotalToday    int `json:"total_today"`
}

// PatientSource provides the patient rows that reports are built from.
type PatientSource interface {
	List(ctx context.Context, f patient.ListFilter) ([]patient.Patient, error)
	Count(ctx context.Context, f patient.ListFilter) (int, error)
}

type Service struct {
	patients PatientSource
}

func NewService(patients PatientSource) *Service {
	return &Service{patients: patients}
}

// Patients returns the rows and summary for the patient report, newest
// visit first.
func (s *Service) Patients(ctx context.Context, f patient.ListFilter) ([]patient.Patient, *Summary, error) {
	f.Limit = reportLimit
	f.Skip = 0
	rows, err := s.patients.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.summarize(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return rows, summary, nil
}

func (s *Service) summarize(ctx context.Context, f patient.ListFilter) (*Summary, error) {
	total, err := s.patients.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalPatients: total}

	now := time.Now()
	today := patient.NewDate(now.Year(), now.Month(), now.Day())
	// Today's count is the intersection of the requested range with today.
	if (f.VisitFrom != nil && today.Before(f.VisitFrom.Time)) ||
		(f.VisitTo != nil && today.After(f.VisitTo.Time)) {
		return summary, nil
	}
	f.VisitFrom = &today
	f.VisitTo = &today
	totalToday, err := s.patients.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	summary.TotalToday = totalToday
	return summary, nil
}

// exportRows returns the rows for a spreadsheet export.
func (s *Service) exportRows(ctx context.Context, f patient.ListFilter) ([]patient.Patient, error) {
	f.Limit = exportLimit
	f.Skip = 0
	return s.patients.List(ctx, f)
}
