package models

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether the type is one of the supported enum values.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction represents a financial transaction in the system.
// Amounts are stored in integer cents. Transactions are immutable once
// created; there are no update or delete operations.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null;index" json:"type"`
	Description string          `gorm:"size:500" json:"description"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
}
