package models

import "time"

// TransactionType is the direction of a transaction. Only the two values
// below are valid; anything else is rejected at parse time.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType maps a form value to a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	}
	return "", false
}

// Transaction represents a single income or expense event belonging to a user.
// Amount is the positive magnitude; direction comes from Type.
type Transaction struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Date        time.Time       `gorm:"index;not null"`
	Description string          `gorm:"size:255;not null"`
	Amount      float64         `gorm:"not null"`
	Category    string          `gorm:"size:100;not null"`
	Type        TransactionType `gorm:"size:16;not null"`
	UserID      uint            `gorm:"index;not null"`
}
