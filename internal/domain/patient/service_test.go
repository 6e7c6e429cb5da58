package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// memRepo is an in-memory Repository for service and handler tests.
type memRepo struct {
	rows map[uuid.UUID]*Patient
}

func newMemRepo() *memRepo {
	return &memRepo{rows: map[uuid.UUID]*Patient{}}
}

func (m *memRepo) matches(p *Patient, f ListFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.VisitFrom != nil && p.TanggalKunjungan.Before(f.VisitFrom.Time) {
		return false
	}
	if f.VisitTo != nil && p.TanggalKunjungan.After(f.VisitTo.Time) {
		return false
	}
	return true
}

func (m *memRepo) List(_ context.Context, f ListFilter) ([]Patient, error) {
	var all []Patient
	for _, p := range m.rows {
		if m.matches(p, f) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].TanggalKunjungan.Equal(all[j].TanggalKunjungan.Time) {
			return all[i].TanggalKunjungan.After(all[j].TanggalKunjungan.Time)
		}
		return all[i].ID.String() > all[j].ID.String()
	})
	if f.Skip >= len(all) {
		return []Patient{}, nil
	}
	all = all[f.Skip:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (m *memRepo) Count(_ context.Context, f ListFilter) (int, error) {
	n := 0
	for _, p := range m.rows {
		if m.matches(p, f) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memRepo) CreateBatch(ctx context.Context, ps []Patient) (int, error) {
	for i := range ps {
		if err := m.Create(ctx, &ps[i]); err != nil {
			return i, err
		}
	}
	return len(ps), nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.TanggalLahir != nil {
		p.TanggalLahir = *in.TanggalLahir
	}
	if in.TanggalKunjungan != nil {
		p.TanggalKunjungan = *in.TanggalKunjungan
	}
	if in.Diagnosis != nil {
		p.Diagnosis = *in.Diagnosis
	}
	if in.Tindakan != nil {
		p.Tindakan = *in.Tindakan
	}
	if in.Dokter != nil {
		p.Dokter = *in.Dokter
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRepo) Summary(_ context.Context) (*Summary, error) {
	s := &Summary{Total: len(m.rows)}
	now := time.Now()
	today := NewDate(now.Year(), now.Month(), now.Day())
	for _, p := range m.rows {
		if p.TanggalKunjungan.Equal(today.Time) {
			s.VisitsToday++
		}
	}
	return s, nil
}

func datePtr(d Date) *Date { return &d }

func validInput() CreateInput {
	return CreateInput{
		Name:             "Budi Santoso",
		TanggalLahir:     datePtr(NewDate(1985, time.January, 2)),
		TanggalKunjungan: datePtr(NewDate(2024, time.June, 1)),
		Diagnosis:        "ISPA",
		Tindakan:         "Pemberian obat",
		Dokter:           "Dr. Siti",
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, zerolog.Nop())
}

func TestCreateValid(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected assigned id")
	}
	if p.Name != "Budi Santoso" {
		t.Errorf("name = %q", p.Name)
	}
}

func TestCreateMissingFields(t *testing.T) {
	svc := newTestService(newMemRepo())

	in := validInput()
	in.Name = "  "
	in.Diagnosis = ""

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "name") || !strings.Contains(err.Error(), "diagnosis") {
		t.Errorf("error should name the missing fields: %v", err)
	}
}

func TestCreateMissingDates(t *testing.T) {
	svc := newTestService(newMemRepo())

	in := validInput()
	in.TanggalKunjungan = nil

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	diag := "Bronkitis"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Diagnosis: &diag})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Diagnosis != "Bronkitis" {
		t.Errorf("diagnosis = %q", updated.Diagnosis)
	}
	if updated.Name != created.Name {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
}

func TestUpdateBlankNameRejected(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	created, _ := svc.Create(context.Background(), validInput())
	blank := "   "
	_, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: &blank})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	svc := newTestService(newMemRepo())
	diag := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Diagnosis: &diag})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByVisitRange(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	mk := func(visit Date) {
		in := validInput()
		in.TanggalKunjungan = &visit
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	mk(NewDate(2024, time.May, 1))
	mk(NewDate(2024, time.June, 1))
	mk(NewDate(2024, time.July, 1))

	from := NewDate(2024, time.May, 15)
	to := NewDate(2024, time.June, 15)
	items, total, err := svc.List(context.Background(), ListFilter{VisitFrom: &from, VisitTo: &to, Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, len = %d, want 1", total, len(items))
	}
	if items[0].TanggalKunjungan.String() != "2024-06-01" {
		t.Errorf("visit = %s", items[0].TanggalKunjungan)
	}
}

func TestListOrdersByVisitDescending(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	for _, d := range []Date{
		NewDate(2024, time.May, 1),
		NewDate(2024, time.July, 1),
		NewDate(2024, time.June, 1),
	} {
		in := validInput()
		in.TanggalKunjungan = datePtr(d)
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, _, err := svc.List(context.Background(), ListFilter{Limit: 50})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"2024-07-01", "2024-06-01", "2024-05-01"}
	for i, w := range want {
		if items[i].TanggalKunjungan.String() != w {
			t.Errorf("items[%d] = %s, want %s", i, items[i].TanggalKunjungan, w)
		}
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc := newTestService(newMemRepo())
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSummaryCountsTodayVisits(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	now := time.Now()
	today := NewDate(now.Year(), now.Month(), now.Day())

	in := validInput()
	in.TanggalKunjungan = &today
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Total != 2 || s.VisitsToday != 1 {
		t.Errorf("summary = %+v, want total 2 visits_today 1", s)
	}
}
