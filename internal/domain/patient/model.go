package patient

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals as
// "YYYY-MM-DD" and maps to a SQL DATE column.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Patient is a clinical record. The wire and column names follow the
// clinic's Indonesian record-keeping conventions.
type Patient struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	TanggalLahir     Date      `db:"tanggal_lahir" json:"tanggal_lahir"`
	TanggalKunjungan Date      `db:"tanggal_kunjungan" json:"tanggal_kunjungan"`
	Diagnosis        string    `db:"diagnosis" json:"diagnosis"`
	Tindakan         string    `db:"tindakan" json:"tindakan"`
	Dokter           string    `db:"dokter" json:"dokter"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Summary aggregates patient counts for the dashboard.
type Summary struct {
	Total       int `json:"total"`
	VisitsToday int `json:"visits_today"`
}
