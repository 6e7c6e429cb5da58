package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrValidation marks a rejected input. The wrapped message is safe to show
// to clients.
var ErrValidation = errors.New("validation failed")

// CreateInput carries a new record as received on the wire.
type CreateInput struct {
	Name             string `json:"name"`
	TanggalLahir     *Date  `json:"tanggal_lahir"`
	TanggalKunjungan *Date  `json:"tanggal_kunjungan"`
	Diagnosis        string `json:"diagnosis"`
	Tindakan         string `json:"tindakan"`
	Dokter           string `json:"dokter"`
}

func (in CreateInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.TanggalLahir == nil {
		missing = append(missing, "tanggal_lahir")
	}
	if in.TanggalKunjungan == nil {
		missing = append(missing, "tanggal_kunjungan")
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		missing = append(missing, "diagnosis")
	}
	if strings.TrimSpace(in.Tindakan) == "" {
		missing = append(missing, "tindakan")
	}
	if strings.TrimSpace(in.Dokter) == "" {
		missing = append(missing, "dokter")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "patient-service").Logger()}
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Patient, int, error) {
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Patient{
		Name:             strings.TrimSpace(in.Name),
		TanggalLahir:     *in.TanggalLahir,
		TanggalKunjungan: *in.TanggalKunjungan,
		Diagnosis:        strings.TrimSpace(in.Diagnosis),
		Tindakan:         strings.TrimSpace(in.Tindakan),
		Dokter:           strings.TrimSpace(in.Dokter),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient created")
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be blank", ErrValidation)
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}
