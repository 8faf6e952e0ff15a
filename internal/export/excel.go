// Package export renders score history into xlsx workbooks for offline
// record keeping.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hmtran/classpoints/internal/models"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook builds a workbook with bold, auto-filtered headers and
// heuristic column widths.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("new style: %w", err)
	}

	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("header cell: %w", err)
			}
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end, _ := excelize.CoordinatesToCellName(len(s.Header), 1)
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return nil, fmt.Errorf("row cell: %w", err)
				}
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		for c := 1; c <= len(s.Header); c++ {
			width := len(s.Header[c-1])
			for r := 0; r < len(s.Rows) && r < 50; r++ {
				if l := len(s.Rows[r][c-1]); l > width {
					width = l
				}
			}
			w := float64(width) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			col, _ := excelize.ColumnNumberToName(c)
			_ = f.SetColWidth(name, col, col, w)
		}
	}

	return &Workbook{File: f}, nil
}

var scoreHeader = []string{
	"Date", "Student", "Code", "Button", "Week", "Points", "Note", "Violation date",
}

// ScoresSheet flattens denormalized score records into exportable rows,
// newest first, with dashes for unresolved references.
func ScoresSheet(title string, records []models.ScoreDetail) SheetSpec {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			time.Unix(rec.CreatedAt, 0).UTC().Format("2006-01-02 15:04"),
			orDash(rec.StudentName),
			orDash(rec.StudentCode),
			orDash(rec.ButtonName),
			orDash(rec.WeekName),
			strconv.FormatFloat(rec.Points, 'f', -1, 64),
			orDash(rec.Note),
			orDash(rec.ViolationDate),
		})
	}
	return SheetSpec{Title: title, Header: scoreHeader, Rows: rows}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
