package predictor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quizadv/quizadv/internal/difficulty"
)

// Columns is the exact header a dataset must carry, in any order.
var Columns = []string{"subject", "accuracy", "avg_time", "streak", "current_level", "next_level"}

// Example is one labeled row of the historical dataset.
type Example struct {
	Subject      string
	Accuracy     float64 // percent, 0..100
	AvgTime      float64 // seconds
	Streak       int
	CurrentLevel int // 1..3
	NextLevel    int // class label
}

// ErrSchema reports a dataset whose header does not match Columns.
var ErrSchema = errors.New("dataset schema mismatch")

// LoadDataset reads examples from a .csv file, or from an .xlsx workbook
// using the named sheet (the first sheet when sheet is empty).
func LoadDataset(path, sheet string) ([]Example, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return readXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

// ReadCSV parses examples from CSV with a header row.
func ReadCSV(r io.Reader) ([]Example, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(rows)
}

func readXLSX(path, sheet string) ([]Example, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows)
}

// parseRows maps a header row plus data rows to examples. Blank rows are
// ignored; any other malformed cell fails the whole dataset.
func parseRows(rows [][]string) ([]Example, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrSchema)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	var out []Example
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		ex, err := parseRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, ex)
	}

	if len(out) == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchema, name)
		}
		index[name] = i
	}

	var missing []string
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	if len(index) != len(Columns) {
		return nil, fmt.Errorf("%w: expected exactly %d columns, got %d", ErrSchema, len(Columns), len(index))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (Example, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var ex Example
	var err error

	ex.Subject = cell("subject")
	if ex.Subject == "" {
		return ex, errors.New("subject is empty")
	}
	if ex.Accuracy, err = parseFloat("accuracy", cell("accuracy")); err != nil {
		return ex, err
	}
	if ex.AvgTime, err = parseFloat("avg_time", cell("avg_time")); err != nil {
		return ex, err
	}
	streak, err := parseFloat("streak", cell("streak"))
	if err != nil {
		return ex, err
	}
	ex.Streak = int(streak)
	if ex.CurrentLevel, err = parseLevel("current_level", cell("current_level")); err != nil {
		return ex, err
	}
	if ex.NextLevel, err = parseLevel("next_level", cell("next_level")); err != nil {
		return ex, err
	}
	return ex, nil
}

func parseFloat(col, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", col, s)
	}
	return v, nil
}

// parseLevel accepts a numeric label or a tier name.
func parseLevel(col, s string) (int, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v), nil
	}
	t, err := difficulty.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return t.Code(), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
