// Package importer reads BOQ workbooks into item batches. It handles
// header detection and numeric parsing; row roles and categories are the
// engine's job.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/stavsoft/boqflow/internal/model"
	"github.com/stavsoft/boqflow/internal/normalize"
)

// columnMap holds the detected column index for each field, -1 if absent.
type columnMap struct {
	code        int
	description int
	unit        int
	quantity    int
	unitPrice   int
	totalPrice  int
}

// Header aliases seen in KROS/ÚRS style exports, pre-normalized.
var headerAliases = map[string][]string{
	"code":        {"kod", "kod polozky", "cislo polozky", "code"},
	"description": {"popis", "nazev", "popis polozky", "description"},
	"unit":        {"mj", "merna jednotka", "jednotka", "unit"},
	"quantity":    {"mnozstvi", "vymera", "pocet", "quantity"},
	"unitPrice":   {"j.cena", "jednotkova cena", "cena/mj", "unit price"},
	"totalPrice":  {"cena celkem", "celkem", "celkova cena", "total"},
}

// maxHeaderScanRows limits how deep the header search goes; real BOQ
// exports put the header within the first few rows.
const maxHeaderScanRows = 10

// ReadWorkbook reads one sheet of a BOQ workbook into items. An empty
// sheetName selects the workbook's first sheet. Row positions follow the
// original worksheet row numbers, which keeps cascade adjacency intact.
func ReadWorkbook(path, project, sheetName string) ([]model.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	cols, headerRow := detectHeader(rows)

	var items []model.Item
	for i := headerRow + 1; i < len(rows); i++ {
		item, ok := parseRow(rows[i], cols)
		if !ok {
			continue
		}
		item.ID = uuid.NewString()
		item.Project = project
		item.Sheet = sheetName
		item.RowPosition = i + 1 // 1-based worksheet row number
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("sheet %q contains no data rows", sheetName)
	}

	return items, nil
}

// detectHeader finds the header row and maps columns to fields. When no
// header is recognized it falls back to the conventional column order
// code, description, unit, quantity, unit price, total price.
func detectHeader(rows [][]string) (columnMap, int) {
	limit := len(rows)
	if limit > maxHeaderScanRows {
		limit = maxHeaderScanRows
	}

	for i := 0; i < limit; i++ {
		cols := columnMap{code: -1, description: -1, unit: -1, quantity: -1, unitPrice: -1, totalPrice: -1}
		hits := 0

		for j, cell := range rows[i] {
			switch {
			case matchesAlias(cell, "code") && cols.code < 0:
				cols.code = j
				hits++
			case matchesAlias(cell, "description") && cols.description < 0:
				cols.description = j
				hits++
			case matchesAlias(cell, "unit") && cols.unit < 0:
				cols.unit = j
				hits++
			case matchesAlias(cell, "quantity") && cols.quantity < 0:
				cols.quantity = j
				hits++
			case matchesAlias(cell, "unitPrice") && cols.unitPrice < 0:
				cols.unitPrice = j
				hits++
			case matchesAlias(cell, "totalPrice") && cols.totalPrice < 0:
				cols.totalPrice = j
				hits++
			}
		}

		// Code and description plus one more recognized column is
		// enough to trust the row as a header.
		if cols.code >= 0 && cols.description >= 0 && hits >= 3 {
			return cols, i
		}
	}

	return columnMap{code: 0, description: 1, unit: 2, quantity: 3, unitPrice: 4, totalPrice: 5}, -1
}

func matchesAlias(cell, field string) bool {
	cell = normalize.Text(cell)
	if cell == "" {
		return false
	}
	for _, alias := range headerAliases[field] {
		if cell == alias {
			return true
		}
	}
	return false
}

// parseRow converts one worksheet row into an item. Rows with no content
// in any mapped column are dropped; rows with only some fields are kept,
// the engine classifies them as subordinate or unknown.
func parseRow(row []string, cols columnMap) (model.Item, bool) {
	item := model.Item{
		Code:        cellAt(row, cols.code),
		Description: cellAt(row, cols.description),
		Unit:        cellAt(row, cols.unit),
	}
	item.Quantity = parseNumber(cellAt(row, cols.quantity))
	item.UnitPrice = parseNumber(cellAt(row, cols.unitPrice))
	item.TotalPrice = parseNumber(cellAt(row, cols.totalPrice))

	if item.IsEmpty() && item.Quantity == nil && item.UnitPrice == nil && item.TotalPrice == nil {
		return model.Item{}, false
	}

	return item, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber parses Czech-formatted numbers: comma decimal separator,
// spaces or non-breaking spaces as thousands separators.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
