package main

import (
	"fmt"
	"time"

	"gastos/models"

	"gorm.io/gorm"
)

// Summary is the monthly roll-up shown on the dashboard.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Balance      float64
}

// CategoryTotal is one row of the expense-by-category breakdown.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Period is a (year, month) pair with at least one transaction.
type Period struct {
	Year  int
	Month int
}

// ListTransactions returns the user's transactions for the given period,
// newest first. The id tiebreak keeps same-day rows in a stable order.
func ListTransactions(db *gorm.DB, userID uint, year, month int) ([]models.Transaction, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var txs []models.Transaction
	err := db.Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Summarize sums the given transactions by type. Empty input yields zeros.
func Summarize(txs []models.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case models.TypeIncome:
			s.TotalIncome += t.Amount
		case models.TypeExpense:
			s.TotalExpense += t.Amount
		}
	}
	s.Balance = s.TotalIncome - s.TotalExpense
	return s
}

// GroupExpensesByCategory sums expense amounts per category, in
// first-seen order. Income rows are ignored.
func GroupExpensesByCategory(txs []models.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txs {
		if t.Type != models.TypeExpense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category})
		}
		out[i].Total += t.Amount
	}
	return out
}

// DistinctPeriods returns every (year, month) the user has data for,
// newest first, duplicates collapsed. Drives the period selector.
// Extraction happens on the UTC calendar so a boundary transaction lands in
// the same period ListTransactions filters by, whatever the session TZ.
func DistinctPeriods(db *gorm.DB, userID uint) ([]Period, error) {
	rows, err := db.Model(&models.Transaction{}).
		Select("DISTINCT EXTRACT(YEAR FROM date AT TIME ZONE 'UTC')::int AS year, EXTRACT(MONTH FROM date AT TIME ZONE 'UTC')::int AS month").
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("distinct periods: %w", err)
	}
	defer rows.Close()
	var periods []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// AddTransaction persists a validated transaction for the user.
func AddTransaction(db *gorm.DB, userID uint, f TransactionForm) (models.Transaction, error) {
	tx := models.Transaction{
		Date:        f.Date,
		Description: f.Description,
		Amount:      f.Amount,
		Category:    f.Category,
		Type:        f.Type,
		UserID:      userID,
	}
	if err := db.Create(&tx).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return tx, nil
}

// DeleteTransaction removes a transaction by id. Unknown ids yield
// ErrNotFound; a transaction owned by another user yields ErrForbidden
// instead of silently doing nothing.
func DeleteTransaction(db *gorm.DB, id, requestingUserID uint) error {
	var tx models.Transaction
	if err := db.First(&tx, id).Error; err != nil {
		return fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	if tx.UserID != requestingUserID {
		return fmt.Errorf("%w: transaction %d belongs to another user", ErrForbidden, id)
	}
	if err := db.Delete(&tx).Error; err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
