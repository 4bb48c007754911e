package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gastos/models"
)

// reportFileName preserves the original naming convention,
// reporte_{mes}_{anio}.csv.
func reportFileName(year, month int) string {
	return fmt.Sprintf("reporte_%d_%d.csv", month, year)
}

// writeCSVReport serializes the transactions as CSV: a fixed header then one
// row per transaction in input order, dates as DD/MM/YYYY. Field quoting is
// whatever encoding/csv does for embedded delimiters.
func writeCSVReport(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Type", "Category", "Description", "Amount"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.Date.Format("02/01/2006"),
			string(t.Type),
			t.Category,
			t.Description,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
