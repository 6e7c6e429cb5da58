package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/klinik/klinik/internal/domain/patient"
)

const (
	// ExportFilename is the attachment name of the patient spreadsheet.
	ExportFilename = "patients-report.xlsx"
	exportSheet    = "Patients"
)

var exportHeaders = []string{"ID", "Nama", "Tanggal Lahir", "Tanggal Kunjungan", "Diagnosis", "Tindakan", "Dokter"}

// ExportPatients renders the patient report as an xlsx workbook.
func (s *Service) ExportPatients(ctx context.Context, f patient.ListFilter) (*bytes.Buffer, error) {
	rows, err := s.exportRows(ctx, f)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(rows)
}

func buildWorkbook(rows []patient.Patient) (*bytes.Buffer, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := wb.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, p := range rows {
		values := []interface{}{
			p.ID.String(),
			p.Name,
			p.TanggalLahir.String(),
			p.TanggalKunjungan.String(),
			p.Diagnosis,
			p.Tindakan,
			p.Dokter,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := wb.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}
