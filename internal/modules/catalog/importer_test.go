package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx with the given rows on the first sheet.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseProducts(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Name", "Description", "Price", "Categories", "Images", "In_Stock", "Rating"},
		{"Handwoven Cotton Throw", "Chunky weave.", "$49.00", "home decor", "https://example.com/throw.jpg", "false", "4.6"},
		{"Cork Yoga Block (2pc)", "", "23", "health and wellness|yoga", "", "", ""},
	})

	reqs, problems, err := ParseProducts(buf)
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, reqs, 2)

	assert.Equal(t, "Handwoven Cotton Throw", reqs[0].Name)
	assert.Equal(t, 49.0, reqs[0].Price)
	assert.Equal(t, []string{"home decor"}, reqs[0].Categories)
	assert.Equal(t, []string{"https://example.com/throw.jpg"}, reqs[0].Images)
	require.NotNil(t, reqs[0].InStock)
	assert.False(t, *reqs[0].InStock)
	require.NotNil(t, reqs[0].Rating)
	assert.Equal(t, 4.6, *reqs[0].Rating)

	assert.Equal(t, 23.0, reqs[1].Price)
	assert.Equal(t, []string{"health and wellness", "yoga"}, reqs[1].Categories)
	assert.Nil(t, reqs[1].InStock)
	assert.Nil(t, reqs[1].Rating)
}

func TestParseProductsReportsBadRows(t *testing.T) {
	buf := workbook(t, [][]any{
		{"name", "price"},
		{"Pearl Drop Necklace", "22"},
		{"", "10"},
		{"Gold-Tone Huggie Hoops", "n/a"},
		{"", ""},
		{"Wireless Charging Pad", "28"},
	})

	reqs, problems, err := ParseProducts(buf)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Pearl Drop Necklace", reqs[0].Name)
	assert.Equal(t, "Wireless Charging Pad", reqs[1].Name)

	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "row 3")
	assert.Contains(t, problems[0], "name is empty")
	assert.Contains(t, problems[1], "row 4")
	assert.Contains(t, problems[1], "price")
}

func TestParseProductsRequiresNameColumn(t *testing.T) {
	buf := workbook(t, [][]any{
		{"title", "price"},
		{"Ceramic Vase", "39"},
	})

	_, _, err := ParseProducts(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestParseProductsRejectsNonWorkbook(t *testing.T) {
	_, _, err := ParseProducts(strings.NewReader("not a workbook"))
	assert.Error(t, err)
}

func TestImportProducts(t *testing.T) {
	svc := newTestService(t)

	buf := workbook(t, [][]any{
		{"name", "price", "rating"},
		{"Stainless Steel Water Bottle (750ml)", "27", "4.8"},
		{"X", "5", ""},
	})

	result, err := svc.ImportProducts(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Stainless Steel Water Bottle (750ml)", result.Products[0].Name)

	// The one-letter name fails create validation and is reported.
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "X")
}
