package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no patient matches the given id.
var ErrNotFound = errors.New("patient not found")

// ListFilter narrows List and Count queries. Zero-value fields are ignored.
type ListFilter struct {
	Name      string
	VisitFrom *Date
	VisitTo   *Date
	Limit     int
	Skip      int
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Name             *string `json:"name"`
	TanggalLahir     *Date   `json:"tanggal_lahir"`
	TanggalKunjungan *Date   `json:"tanggal_kunjungan"`
	Diagnosis        *string `json:"diagnosis"`
	Tindakan         *string `json:"tindakan"`
	Dokter           *string `json:"dokter"`
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.TanggalLahir == nil && in.TanggalKunjungan == nil &&
		in.Diagnosis == nil && in.Tindakan == nil && in.Dokter == nil
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Patient, error)
	Count(ctx context.Context, f ListFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Create(ctx context.Context, p *Patient) error
	CreateBatch(ctx context.Context, ps []Patient) (int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*Summary, error)
}
