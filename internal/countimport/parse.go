package countimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	colDate       = "date"
	colVariantID  = "variant_id"
	colCountedQty = "counted_qty"
)

var requiredColumns = []string{colDate, colVariantID, colCountedQty}

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX
var ErrUnsupportedFormat = errors.New("unsupported count sheet format")

// Row is one parsed count line with its origin for error reporting
type Row struct {
	Date       time.Time
	VariantID  int64
	CountedQty float64
	File       string
	Line       int
}

// ParseFile reads a count sheet, picking the parser from the file extension.
func ParseFile(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ParseCSV(f, filepath.Base(path))
	case ".xlsx":
		return parseXLSX(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ParseCSV reads a CSV count sheet. name is only used in error messages.
func ParseCSV(r io.Reader, name string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", name, err)
	}
	p, err := newRowParser(name, header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)
		if err := p.add(record, line); err != nil {
			return nil, err
		}
	}
	return p.rows, nil
}

func parseXLSX(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	name := filepath.Base(path)
	var p *rowParser
	for line := 1; rows.Next(); line++ {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if p == nil {
			if p, err = newRowParser(name, record); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.add(record, line); err != nil {
			return nil, err
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: empty sheet", name)
	}
	return p.rows, nil
}

type rowParser struct {
	name   string
	colMap map[string]int
	rows   []Row
}

func newRowParser(name string, header []string) (*rowParser, error) {
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column: %s", name, col)
		}
	}
	return &rowParser{name: name, colMap: colMap}, nil
}

func (p *rowParser) add(record []string, line int) error {
	get := func(col string) string {
		if idx := p.colMap[col]; idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	if blank(record) {
		return nil
	}

	date, err := time.Parse(domain.DateLayout, get(colDate))
	if err != nil {
		return fmt.Errorf("%s:%d: invalid date %q", p.name, line, get(colDate))
	}
	variantID, err := strconv.ParseInt(get(colVariantID), 10, 64)
	if err != nil || variantID <= 0 {
		return fmt.Errorf("%s:%d: invalid variant_id %q", p.name, line, get(colVariantID))
	}
	qty, err := strconv.ParseFloat(get(colCountedQty), 64)
	if err != nil || qty < 0 {
		return fmt.Errorf("%s:%d: invalid counted_qty %q", p.name, line, get(colCountedQty))
	}

	p.rows = append(p.rows, Row{
		Date:       date,
		VariantID:  variantID,
		CountedQty: qty,
		File:       p.name,
		Line:       line,
	})
	return nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
