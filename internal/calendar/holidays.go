package calendar

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// HolidayColumn is the header of the date column in the holiday spreadsheet.
const HolidayColumn = "Data"

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Load reads a holiday file and builds a Calendar from it.
func Load(path string, skipFooter int) (*Calendar, error) {
	days, err := LoadHolidays(path, skipFooter)
	if err != nil {
		return nil, err
	}
	return New(days), nil
}

// LoadHolidays reads holiday dates from a file.
// Supported formats:
//   - .xlsx : first sheet, column headed "Data"; the last skipFooter rows are notes and dropped
//   - .csv  : column headed "Data" (or the first column when there is no such header), same footer rule
//   - .txt  : one date per line, '#' lines are comments, same footer rule
//   - .json : JSON array of date strings
func LoadHolidays(path string, skipFooter int) ([]time.Time, error) {
	var (
		cells []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		cells, err = readSpreadsheetColumn(path, skipFooter)
	case ".csv":
		cells, err = readCSVColumn(path, skipFooter)
	case ".txt":
		cells, err = readTextLines(path, skipFooter)
	case ".json":
		cells, err = readJSONArray(path)
	default:
		return nil, fmt.Errorf("unsupported holiday file extension %q (use .xlsx, .csv, .txt or .json)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	days := make([]time.Time, 0, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		d, err := ParseDate(c)
		if err != nil {
			return nil, fmt.Errorf("holiday %d in %s: %w", i+1, path, err)
		}
		days = append(days, d)
	}
	slog.Info("loaded holidays", "count", len(days), "path", path)
	return days, nil
}

// ParseDate parses a holiday cell: an Excel serial number or one of the accepted layouts
// (ISO or day-first). The result is truncated to the date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("excel serial %q: %w", s, err)
		}
		return Truncate(t), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func readSpreadsheetColumn(path string, skipFooter int) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return pickColumn(rows, skipFooter, path)
}

func readCSVColumn(path string, skipFooter int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.Comma = sniffComma(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV: %w", err)
	}
	return pickColumn(rows, skipFooter, path)
}

// sniffComma peeks at the first line and picks ';' when the file is semicolon separated.
func sniffComma(file *os.File) rune {
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	_, _ = file.Seek(0, io.SeekStart)
	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// pickColumn returns the "Data" column below the header, minus the footer rows.
// Without a "Data" header the first column of every row is used.
func pickColumn(rows [][]string, skipFooter int, path string) ([]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no rows", path)
	}
	col, start := 0, 0
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), HolidayColumn) {
			col, start = i, 1
			break
		}
	}
	body := dropFooter(rows[start:], skipFooter)
	out := make([]string, 0, len(body))
	for _, row := range body {
		if col < len(row) {
			out = append(out, row[col])
		}
	}
	return out, nil
}

func readTextLines(path string, skipFooter int) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.EqualFold(line, HolidayColumn) {
			continue
		}
		lines = append(lines, line)
	}
	return dropFooter(lines, skipFooter), nil
}

func readJSONArray(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	var days []string
	if err := json.Unmarshal(content, &days); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	return days, nil
}

func dropFooter[T any](s []T, n int) []T {
	if n <= 0 {
		return s
	}
	if n >= len(s) {
		return s[:0]
	}
	return s[:len(s)-n]
}
