package ost

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// Fixed coordinates inside the "Publikime AL" sheet: the reporting date the
// workbook claims to cover, and the 24 hourly demand cells below it. These
// are tied to the publisher's current template.
const (
	sheetPrefix     = "publikime al"
	claimedDateCell = "C158"
	firstHourRow    = 160
)

// excelEpoch is the zero day of Excel's 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// workbook wraps one downloaded OST report with its data sheet resolved.
type workbook struct {
	file  *excelize.File
	sheet string
}

func openWorkbook(raw []byte) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	for _, name := range f.GetSheetList() {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), sheetPrefix) {
			return &workbook{file: f, sheet: name}, nil
		}
	}
	f.Close()
	return nil, fmt.Errorf("no sheet named like %q", sheetPrefix)
}

func (w *workbook) Close() error { return w.file.Close() }

// claimedDate reads the reporting date the workbook itself declares. The
// cell has held both a literal "DD.MM.YYYY" string and a real date (which
// the raw read surfaces as an Excel serial number).
func (w *workbook) claimedDate() (time.Time, error) {
	v, err := w.file.GetCellValue(w.sheet, claimedDateCell)
	if err != nil {
		return time.Time{}, fmt.Errorf("read %s: %w", claimedDateCell, err)
	}
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty reporting date cell %s", claimedDateCell)
	}
	if t, perr := time.Parse("02.01.2006", s); perr == nil {
		return t, nil
	}
	if serial, perr := strconv.ParseFloat(s, 64); perr == nil {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized reporting date %q", s)
}

// hourlyDemand reads the 24 demand cells. Blank or undecodable cells stay
// unobserved rather than failing the workbook.
func (w *workbook) hourlyDemand() domain.HourlySeries {
	var series domain.HourlySeries
	for h := 0; h < domain.HoursPerDay; h++ {
		cell := fmt.Sprintf("F%d", firstHourRow+h)
		v, err := w.file.GetCellValue(w.sheet, cell)
		if err != nil {
			continue
		}
		if strings.TrimSpace(v) == "" {
			continue
		}
		val, perr := dataprocessing.ParseNumber(v)
		if perr != nil {
			continue
		}
		series[h] = &val
	}
	return series
}
