package xlsx

import (
	"fmt"
	"io"
	"strings"

	"sinfopers/internal/apperr"
	domain "sinfopers/internal/domain/personnel"
	"sinfopers/internal/usecase/personnel"

	"github.com/xuri/excelize/v2"
)

// PersonnelColumns are the header cells a personnel sheet must carry.
var PersonnelColumns = []string{
	"NAMA", "NRP", "PANGKAT", "JABATAN", "JENIS_KELAMIN",
	"SUBSATKER", "SUBDIT", "BKO", "STATUS", "USERNAME",
}

var statusLabels = map[string]domain.Status{
	"aktif":     domain.StatusActive,
	"non aktif": domain.StatusInactive,
	"cuti":      domain.StatusOnLeave,
	"pensiun":   domain.StatusRetired,
}

var secondmentLabels = map[string]domain.Secondment{
	"-":            domain.SecondmentNone,
	"":             domain.SecondmentNone,
	"gasus masuk":  domain.SecondmentSpecialIn,
	"gasum masuk":  domain.SecondmentGeneralIn,
	"gasus keluar": domain.SecondmentSpecialOut,
	"gasum keluar": domain.SecondmentGeneralOut,
}

// label maps a sheet label to its stored value. Unknown labels are passed
// through lowercased so the registry rejects them with its own message.
func label[T ~string](labels map[string]T, raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	if v, ok := labels[k]; ok {
		return string(v)
	}
	return k
}

// ReadPersonnel parses the first sheet of a personnel workbook. Row numbers
// in the result are spreadsheet rows, the header being row 1. Blank rows are
// skipped.
func ReadPersonnel(r io.Reader) ([]personnel.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperr.Validation("not a readable xlsx workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Validation("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, apperr.Validation("sheet %s is empty", sheets[0])
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, name := range PersonnelColumns {
		if _, ok := col[name]; !ok {
			return nil, apperr.Validation("missing required column: %s", name)
		}
	}

	out := make([]personnel.ImportRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		cell := func(name string) string {
			if j := col[name]; j < len(cells) {
				return strings.TrimSpace(cells[j])
			}
			return ""
		}
		if blank(cells) {
			continue
		}
		out = append(out, personnel.ImportRow{
			Line:          i + 2,
			Name:          cell("NAMA"),
			NRP:           cell("NRP"),
			Rank:          cell("PANGKAT"),
			JobTitle:      cell("JABATAN"),
			Gender:        cell("JENIS_KELAMIN"),
			Unit:          cell("SUBSATKER"),
			SubDepartment: cell("SUBDIT"),
			Secondment:    label(secondmentLabels, cell("BKO")),
			Status:        label(statusLabels, cell("STATUS")),
			Username:      cell("USERNAME"),
		})
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
