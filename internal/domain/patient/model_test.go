package patient

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(1990, time.March, 15)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"1990-03-15"` {
		t.Errorf("marshal = %s, want \"1990-03-15\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"15/03/1990"`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Error("expected error for garbage")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time.Time: %v", err)
	}
	if d.String() != "2024-06-01" {
		t.Errorf("scanned = %s", d)
	}

	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestPatientJSONUsesRecordFieldNames(t *testing.T) {
	p := Patient{
		Name:             "Budi Santoso",
		TanggalLahir:     NewDate(1985, time.January, 2),
		TanggalKunjungan: NewDate(2024, time.June, 1),
		Diagnosis:        "ISPA",
		Tindakan:         "Pemberian obat",
		Dokter:           "Dr. Siti",
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"name", "tanggal_lahir", "tanggal_kunjungan", "diagnosis", "tindakan", "dokter"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing json key %q in %s", key, b)
		}
	}
}
