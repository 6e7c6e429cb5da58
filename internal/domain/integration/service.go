package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/klinik/klinik/internal/domain/patient"
)

// Placeholder values for fields an external system did not supply.
const (
	DefaultDiagnosis = "Belum ada diagnosis"
	DefaultTindakan  = "Belum ada tindakan"
	DefaultDokter    = "Belum ditugaskan"
)

// maxImportBatch caps a single import request.
const maxImportBatch = 500

var ErrValidation = errors.New("validation failed")

// ImportItem is one incoming record from an external system. Only the name
// and visit date are required; everything else falls back to placeholders.
type ImportItem struct {
	Name             string        `json:"name"`
	TanggalLahir     *patient.Date `json:"tanggal_lahir"`
	TanggalKunjungan *patient.Date `json:"tanggal_kunjungan"`
	Diagnosis        string        `json:"diagnosis"`
	Tindakan         string        `json:"tindakan"`
	Dokter           string        `json:"dokter"`
}

// ImportRequest is the body of an import call.
type ImportRequest struct {
	Patients []ImportItem `json:"patients"`
}

// PatientSink receives the normalized rows.
type PatientSink interface {
	CreateBatch(ctx context.Context, ps []patient.Patient) (int, error)
}

type Service struct {
	patients PatientSink
	logger   zerolog.Logger
}

func NewService(patients PatientSink, logger zerolog.Logger) *Service {
	return &Service{patients: patients, logger: logger.With().Str("component", "integration-service").Logger()}
}

// Import normalizes and stores a batch of external records, returning the
// number inserted. The batch is all-or-nothing on validation: a single bad
// item rejects the whole request before anything is written.
func (s *Service) Import(ctx context.Context, req ImportRequest) (int, error) {
	if len(req.Patients) == 0 {
		return 0, fmt.Errorf("%w: no patients in request", ErrValidation)
	}
	if len(req.Patients) > maxImportBatch {
		return 0, fmt.Errorf("%w: batch exceeds %d items", ErrValidation, maxImportBatch)
	}

	rows := make([]patient.Patient, 0, len(req.Patients))
	for i, item := range req.Patients {
		p, err := normalize(item)
		if err != nil {
			return 0, fmt.Errorf("%w: item %d: %v", ErrValidation, i, err)
		}
		rows = append(rows, p)
	}

	n, err := s.patients.CreateBatch(ctx, rows)
	if err != nil {
		return n, err
	}
	s.logger.Info().Int("imported", n).Msg("external records imported")
	return n, nil
}

func normalize(item ImportItem) (patient.Patient, error) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return patient.Patient{}, errors.New("missing name")
	}
	if item.TanggalKunjungan == nil {
		return patient.Patient{}, errors.New("missing tanggal_kunjungan")
	}

	p := patient.Patient{
		Name:             name,
		TanggalKunjungan: *item.TanggalKunjungan,
		Diagnosis:        strings.TrimSpace(item.Diagnosis),
		Tindakan:         strings.TrimSpace(item.Tindakan),
		Dokter:           strings.TrimSpace(item.Dokter),
	}
	if item.TanggalLahir != nil {
		p.TanggalLahir = *item.TanggalLahir
	} else {
		p.TanggalLahir = *item.TanggalKunjungan
	}
	if p.Diagnosis == "" {
		p.Diagnosis = DefaultDiagnosis
	}
	if p.Tindakan == "" {
		p.Tindakan = DefaultTindakan
	}
	if p.Dokter == "" {
		p.Dokter = DefaultDokter
	}
	return p, nil
}
