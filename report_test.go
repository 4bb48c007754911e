package main

import (
	"bytes"
	"testing"
	"time"

	"gastos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "reporte_5_2024.csv", reportFileName(2024, 5))
	assert.Equal(t, "reporte_12_2023.csv", reportFileName(2023, 12))
}

func TestWriteCSVReport(t *testing.T) {
	// rows come pre-sorted newest first, as ListTransactions returns them
	txs := []models.Transaction{
		{Date: date(2024, time.May, 10), Type: models.TypeExpense, Category: "food", Description: "Supermercado", Amount: 300},
		{Date: date(2024, time.May, 2), Type: models.TypeIncome, Category: "salary", Description: "Sueldo", Amount: 1000},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSVReport(&buf, txs))

	want := "Date,Type,Category,Description,Amount\n" +
		"10/05/2024,expense,food,Supermercado,300.00\n" +
		"02/05/2024,income,salary,Sueldo,1000.00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVReportQuotesEmbeddedDelimiters(t *testing.T) {
	txs := []models.Transaction{
		{Date: date(2024, time.May, 1), Type: models.TypeExpense, Category: "food", Description: `Cena "tapas", con amigos`, Amount: 45.5},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSVReport(&buf, txs))

	assert.Contains(t, buf.String(), `"Cena ""tapas"", con amigos"`)
}

func TestWriteCSVReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVReport(&buf, nil))

	assert.Equal(t, "Date,Type,Category,Description,Amount\n", buf.String())
}
