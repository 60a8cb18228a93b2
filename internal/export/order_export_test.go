package export

import (
	"bytes"
	"testing"

	"github.com/andresuchdata/m2go-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleLines() []domain.ExportLine {
	return []domain.ExportLine{
		{Supplier: "Green Farm", Category: domain.CategoryVeg, ProductName: "Onion", SuggestedQty: 3.5, FinalQty: 4, Unit: "base unit"},
		{Supplier: "Meat Co", Category: domain.CategoryProtein, ProductName: "Beef", SuggestedQty: 25, FinalQty: 3, Unit: "case", Notes: "case rounding"},
		{Supplier: "Green Farm", Category: domain.CategoryVeg, ProductName: "Carrot", SuggestedQty: 8, FinalQty: 8, Unit: "base unit"},
		{Supplier: "Green Farm", Category: "dry", ProductName: "Rice", SuggestedQty: 1, FinalQty: 1, Unit: "base unit"},
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Protein", CategoryLabel(domain.CategoryProtein))
	assert.Equal(t, "Vegetable", CategoryLabel(domain.CategoryVeg))
	assert.Equal(t, "Frozen", CategoryLabel(domain.CategoryFrozen))
	assert.Equal(t, "dry", CategoryLabel("dry"))
}

func TestRowsSortAndGroup(t *testing.T) {
	rows := Rows(sampleLines())
	require.Len(t, rows, 6)

	assert.Equal(t, []string{"Green Farm", "Vegetable", "Carrot", "8", "8", "base unit", ""}, rows[0])
	assert.Equal(t, "Onion", rows[1][2])
	assert.Nil(t, rows[2])
	assert.Equal(t, "Rice", rows[3][2])
	assert.Nil(t, rows[4])
	assert.Equal(t, []string{"Meat Co", "Protein", "Beef", "25", "3", "case", "case rounding"}, rows[5])
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleLines())
	require.NoError(t, err)

	want := "Supplier,Category,Product,Suggested Qty,Final Qty,Unit,Notes\n" +
		"Green Farm,Vegetable,Carrot,8,8,base unit,\n" +
		"Green Farm,Vegetable,Onion,3.5,4,base unit,\n" +
		"\n" +
		"Green Farm,dry,Rice,1,1,base unit,\n" +
		"\n" +
		"Meat Co,Protein,Beef,25,3,case,case rounding\n"
	assert.Equal(t, want, string(out))
}

func TestCSVEmptyOrder(t *testing.T) {
	out, err := CSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "Supplier,Category,Product,Suggested Qty,Final Qty,Unit,Notes\n", string(out))
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(sampleLines())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "Carrot", rows[1][2])
	assert.Empty(t, rows[3])
	assert.Equal(t, "Beef", rows[6][2])
}
