// Package export renders the candidate tally as a spreadsheet.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"votify-backend-go/internal/models"
)

// Supported formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// SheetName is the worksheet title of the XLSX report.
const SheetName = "Laporan Voting"

// Content types served with each format.
var ContentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv; charset=utf-8",
}

type column struct {
	header string
	width  float64
}

var columns = []column{
	{header: "No.", width: 5},
	{header: "Nama Kandidat", width: 30},
	{header: "Kategori", width: 15},
	{header: "Jabatan", width: 25},
	{header: "Jumlah Suara", width: 15},
}

// Headers returns the report column titles in order.
func Headers() []string {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.header
	}
	return headers
}

// Filename returns Laporan_Voting_<YYYY-MM-DD>.<format>.
func Filename(now time.Time, format string) string {
	return fmt.Sprintf("Laporan_Voting_%s.%s", now.Format("2006-01-02"), format)
}

// Write renders candidates in the given format. Rows keep the order of
// the input slice.
func Write(w io.Writer, format string, candidates []*models.Candidate) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, candidates)
	case FormatCSV:
		return WriteCSV(w, candidates)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, candidates []*models.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, c.width); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, col+"1", c.header); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	for i, c := range candidates {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, c.Name, c.Gender, c.Position, c.VoteCount}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteCSV writes the same columns as WriteXLSX.
func WriteCSV(w io.Writer, candidates []*models.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return err
	}
	for i, c := range candidates {
		record := []string{
			strconv.Itoa(i + 1),
			c.Name,
			c.Gender,
			c.Position,
			strconv.FormatInt(c.VoteCount, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
