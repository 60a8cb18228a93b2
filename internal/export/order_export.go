package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Headers is the column row of every order export
var Headers = []string{"Supplier", "Category", "Product", "Suggested Qty", "Final Qty", "Unit", "Notes"}

var categoryLabels = map[domain.Category]string{
	domain.CategoryProtein: "Protein",
	domain.CategoryVeg:     "Vegetable",
	domain.CategoryFrozen:  "Frozen",
}

const sheetName = "Order"

// CategoryLabel returns the display label for a category; unknown categories are shown verbatim.
func CategoryLabel(c domain.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Rows sorts lines by supplier, category label and product name and renders them as
// string records. A nil record separates consecutive (supplier, category) groups.
func Rows(lines []domain.ExportLine) [][]string {
	records := make([][]string, 0, len(lines))
	for _, l := range lines {
		records = append(records, []string{
			l.Supplier,
			CategoryLabel(l.Category),
			l.ProductName,
			formatQty(l.SuggestedQty),
			formatQty(l.FinalQty),
			l.Unit,
			l.Notes,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		if a[1] != b[1] {
			return a[1] < b[1]
		}
		return a[2] < b[2]
	})

	out := make([][]string, 0, len(records)*2)
	for i, r := range records {
		if i > 0 && (r[0] != records[i-1][0] || r[1] != records[i-1][1]) {
			out = append(out, nil)
		}
		out = append(out, r)
	}
	return out
}

// CSV renders the order lines as CSV with a header row and blank lines between groups.
func CSV(lines []domain.ExportLine) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Headers); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range Rows(lines) {
		if err := w.Write(r); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders the same rows as a single-sheet workbook.
func XLSX(lines []domain.ExportLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	row := 1
	writeRow := func(values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		row++
		return sw.SetRow(cell, cells)
	}

	if err := writeRow(Headers); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}
	for _, r := range Rows(lines) {
		if r == nil {
			row++
			continue
		}
		if err := writeRow(r); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", row, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush xlsx: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
