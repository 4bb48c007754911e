package main

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gastos/models"
)

// TransactionForm is the validated result of a /agregar submission.
type TransactionForm struct {
	Description string
	Amount      float64
	Category    string
	Type        models.TransactionType
	Date        time.Time
}

// parseTransactionForm validates the raw form fields before any domain
// logic runs. Field names match the original form (descripcion, monto,
// categoria, tipo, fecha).
func parseTransactionForm(v url.Values, now time.Time) (TransactionForm, error) {
	var f TransactionForm

	f.Description = strings.TrimSpace(v.Get("descripcion"))
	if f.Description == "" {
		return f, fmt.Errorf("%w: descripcion required", ErrValidation)
	}

	montoRaw := strings.TrimSpace(v.Get("monto"))
	if montoRaw == "" {
		return f, fmt.Errorf("%w: monto required", ErrValidation)
	}
	monto, err := strconv.ParseFloat(montoRaw, 64)
	if err != nil {
		return f, fmt.Errorf("%w: monto must be numeric", ErrValidation)
	}
	// ParseFloat accepts NaN and infinities, and `<= 0` holds neither back
	if monto <= 0 || math.IsNaN(monto) || math.IsInf(monto, 0) {
		return f, fmt.Errorf("%w: monto must be a positive number", ErrValidation)
	}
	f.Amount = monto

	f.Category = strings.TrimSpace(v.Get("categoria"))
	if f.Category == "" {
		return f, fmt.Errorf("%w: categoria required", ErrValidation)
	}

	tipo, ok := models.ParseTransactionType(strings.TrimSpace(v.Get("tipo")))
	if !ok {
		return f, fmt.Errorf("%w: tipo must be income or expense", ErrValidation)
	}
	f.Type = tipo

	// Optional date; defaults to submission time like the original schema.
	if fecha := strings.TrimSpace(v.Get("fecha")); fecha != "" {
		d, err := time.Parse("2006-01-02", fecha)
		if err != nil {
			return f, fmt.Errorf("%w: fecha must be YYYY-MM-DD", ErrValidation)
		}
		f.Date = d
	} else {
		f.Date = now
	}

	return f, nil
}

// parsePeriod resolves the anio/mes query parameters, falling back to the
// current calendar date when absent or malformed.
func parsePeriod(anio, mes string, now time.Time) (year, month int) {
	year = now.Year()
	month = int(now.Month())
	if y, err := strconv.Atoi(anio); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(mes); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	return year, month
}
