package xlsx

import (
	"fmt"
	"io"
	"sort"

	domain "sinfopers/internal/domain/staffing"
	"sinfopers/internal/usecase/staffing"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "DSP-RIIL"
	totalsSheet  = "REKAP"
)

// WriteSummary renders the staffing report as a workbook: one line per slot
// with its DSP/RIIL pair and balance message, then a sheet of totals.
func WriteSummary(w io.Writer, s *staffing.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	put := func(sheet string, values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := put(summarySheet, "SATKER", "KATEGORI", "JABATAN/PANGKAT", "DSP", "RIIL", "KETERANGAN"); err != nil {
		return err
	}
	for _, u := range s.Units {
		for _, c := range u.Categories {
			for _, l := range c.Slots {
				if err := put(summarySheet, u.Unit, string(c.Category), l.Name, l.Quota, l.Occupancy, l.Message); err != nil {
					return err
				}
			}
			if err := put(summarySheet, u.Unit, string(c.Category), "JUMLAH", c.Total.Quota, c.Total.Occupancy, ""); err != nil {
				return err
			}
		}
		if err := put(summarySheet, u.Unit, "", "TOTAL", u.Total.Quota, u.Total.Occupancy, ""); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "F1", bold); err != nil {
		return err
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return err
	}
	row = 1
	if err := put(totalsSheet, "JABATAN/PANGKAT", "DSP", "RIIL"); err != nil {
		return err
	}
	names := make([]string, 0, len(s.BySlot))
	for n := range s.BySlot {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		t := s.BySlot[n]
		if err := put(totalsSheet, n, t.Quota, t.Occupancy); err != nil {
			return err
		}
	}
	for _, c := range domain.Categories {
		t := s.ByCategory[c]
		if err := put(totalsSheet, "JUMLAH "+string(c), t.Quota, t.Occupancy); err != nil {
			return err
		}
	}
	if err := put(totalsSheet, "TOTAL", s.GrandTotal.Quota, s.GrandTotal.Occupancy); err != nil {
		return err
	}
	if err := f.SetCellStyle(totalsSheet, "A1", "C1", bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
