// Package exporter writes classified item batches back out as workbooks,
// one sheet with the items and one with a per-category summary.
package exporter

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/stavsoft/boqflow/internal/model"
)

const (
	itemsSheet   = "Položky"
	summarySheet = "Souhrn"
)

var itemHeader = []any{
	"Kód", "Popis", "MJ", "Množství", "J.cena", "Cena celkem",
	"Role", "Kategorie", "Zdroj", "Jistota",
}

// WriteWorkbook writes items and a category summary to path. Items are
// written in sheet order so the file reads like the source BOQ.
func WriteWorkbook(path string, items []model.Item) error {
	if len(items) == 0 {
		return fmt.Errorf("no items to export")
	}

	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Sheet != sorted[j].Sheet {
			return sorted[i].Sheet < sorted[j].Sheet
		}
		return sorted[i].RowPosition < sorted[j].RowPosition
	})

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := writeItemsSheet(f, sorted); err != nil {
		return err
	}
	if err := writeSummarySheet(f, sorted); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeItemsSheet(f *excelize.File, items []model.Item) error {
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, itemsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(itemsSheet, "A1", &itemHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetRowStyle(itemsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := range items {
		it := &items[i]
		row := []any{
			it.Code, it.Description, it.Unit,
			floatCell(it.Quantity), floatCell(it.UnitPrice), floatCell(it.TotalPrice),
			string(it.Role), it.Category, string(it.CategorySource),
			fmt.Sprintf("%.0f%%", it.Confidence),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return nil
}

// categoryTotals aggregates item counts and total prices per category.
// Uncategorized items land under a dedicated bucket.
func categoryTotals(items []model.Item) ([]string, map[string]int, map[string]float64) {
	const uncategorized = "(nezařazeno)"

	counts := make(map[string]int)
	totals := make(map[string]float64)
	for i := range items {
		cat := items[i].Category
		if cat == "" {
			cat = uncategorized
		}
		counts[cat]++
		if items[i].TotalPrice != nil {
			totals[cat] += *items[i].TotalPrice
		}
	}

	categories := make([]string, 0, len(counts))
	for cat := range counts {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	return categories, counts, totals
}

func writeSummarySheet(f *excelize.File, items []model.Item) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := []any{"Kategorie", "Počet položek", "Cena celkem"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	categories, counts, totals := categoryTotals(items)
	for i, cat := range categories {
		row := []any{cat, counts[cat], totals[cat]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	return nil
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
