package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, name, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.TanggalLahir, &p.TanggalKunjungan,
		&p.Diagnosis, &p.Tindakan, &p.Dokter, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// whereClause builds the filter WHERE fragment and its arguments.
func whereClause(f ListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.VisitFrom != nil {
		args = append(args, *f.VisitFrom)
		conds = append(conds, fmt.Sprintf("tanggal_kunjungan >= $%d", len(args)))
	}
	if f.VisitTo != nil {
		args = append(args, *f.VisitTo)
		conds = append(conds, fmt.Sprintf("tanggal_kunjungan <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *patientRepoPG) List(ctx context.Context, f ListFilter) ([]Patient, error) {
	where, args := whereClause(f)
	args = append(args, f.Limit, f.Skip)
	query := fmt.Sprintf(`SELECT `+patientCols+` FROM patients%s
		ORDER BY tanggal_kunjungan DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) Count(ctx context.Context, f ListFilter) (int, error) {
	where, args := whereClause(f)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&total)
	return total, err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		p.ID, p.Name, p.TanggalLahir, p.TanggalKunjungan, p.Diagnosis, p.Tindakan, p.Dokter).
		Scan(&p.CreatedAt)
}

func (r *patientRepoPG) CreateBatch(ctx context.Context, ps []Patient) (int, error) {
	batch := &pgx.Batch{}
	for i := range ps {
		ps[i].ID = uuid.New()
		batch.Queue(`
			INSERT INTO patients (id, name, tanggal_lahir, tanggal_kunjungan, diagnosis, tindakan, dokter)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ps[i].ID, ps[i].Name, ps[i].TanggalLahir, ps[i].TanggalKunjungan,
			ps[i].Diagnosis, ps[i].Tindakan, ps[i].Dokter)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range ps {
		if _, err := br.Exec(); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (r *patientRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
	var sets []string
	var args []interface{}
	args = append(args, id)

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		set("name", *in.Name)
	}
	if in.TanggalLahir != nil {
		set("tanggal_lahir", *in.TanggalLahir)
	}
	if in.TanggalKunjungan != nil {
		set("tanggal_kunjungan", *in.TanggalKunjungan)
	}
	if in.Diagnosis != nil {
		set("diagnosis", *in.Diagnosis)
	}
	if in.Tindakan != nil {
		set("tindakan", *in.Tindakan)
	}
	if in.Dokter != nil {
		set("dokter", *in.Dokter)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE patients SET %s WHERE id = $1 RETURNING `+patientCols,
		strings.Join(sets, ", "))
	return scanPatient(r.pool.QueryRow(ctx, query, args...))
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepoPG) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE tanggal_kunjungan = CURRENT_DATE)
		FROM patients`).Scan(&s.Total, &s.VisitsToday)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
