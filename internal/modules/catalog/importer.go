package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseProducts reads product rows from the first sheet of an xlsx
// workbook. The header row names the columns (case-insensitive): name
// and price are required, description, categories, images, in_stock and
// rating are optional. Categories and images split on comma or pipe.
// Blank rows are skipped; rows that fail to parse are reported with
// their row number and skipped.
func ParseProducts(r io.Reader) ([]CreateProductRequest, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	cols := mapColumns(rows[0])
	if _, ok := cols["name"]; !ok {
		return nil, nil, fmt.Errorf("sheet %q is missing a name column", sheets[0])
	}
	if _, ok := cols["price"]; !ok {
		return nil, nil, fmt.Errorf("sheet %q is missing a price column", sheets[0])
	}

	var (
		reqs     []CreateProductRequest
		problems []string
	)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		req, err := parseRow(row, cols)
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		reqs = append(reqs, req)
	}
	return reqs, problems, nil
}

// ImportProducts runs every parsed row through the normal create path,
// so imported products get the same validation and defaults.
func (s *service) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reqs, problems, err := ParseProducts(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: problems}
	for _, req := range reqs {
		p, err := s.CreateProduct(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", req.Name, err))
			continue
		}
		result.Products = append(result.Products, p)
	}
	result.Imported = len(result.Products)
	return result, nil
}

func mapColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, cols map[string]int) (CreateProductRequest, error) {
	req := CreateProductRequest{
		Name:        cell(row, cols, "name"),
		Description: cell(row, cols, "description"),
	}
	if req.Name == "" {
		return req, fmt.Errorf("name is empty")
	}

	priceText := cell(row, cols, "price")
	if priceText == "" {
		return req, fmt.Errorf("price is empty")
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return req, err
	}
	req.Price = price

	req.Categories = splitCells(cell(row, cols, "categories"))
	req.Images = splitCells(cell(row, cols, "images"))

	if v := cell(row, cols, "in_stock"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("in_stock %q: %w", v, err)
		}
		req.InStock = &b
	}
	if v := cell(row, cols, "rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("rating %q: %w", v, err)
		}
		req.Rating = &f
	}
	return req, nil
}

// parsePrice tolerates currency symbols and thousands separators.
func parsePrice(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return price, nil
}

// splitCells splits a multi-value cell on comma or pipe.
func splitCells(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
