package services

import (
	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// sortColumns whitelists the API sort vocabulary against real columns.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"amount":      "amount",
	"type":        "type",
	"description": "description",
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction persists a new transaction owned by the given user.
func (s *transactionService) CreateTransaction(userID uint, transactionType models.TransactionType, description string, amount int64) (*models.Transaction, error) {
	if !transactionType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        transactionType,
		Description: description,
		Amount:      amount,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// GetUserTransactions retrieves a filtered, sorted, paginated list of the
// user's transactions along with page metadata.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter, sort TransactionSort) ([]models.Transaction, pagination.PageMeta, error) {
	page.Defaults()

	order, err := buildOrder(sort)
	if err != nil {
		return nil, pagination.PageMeta{}, err
	}

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pagination.PageMeta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order(order).
		Find(&transactions).Error; err != nil {
		return nil, pagination.PageMeta{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return transactions, pagination.NewPageMeta(page.Page, page.Limit, total), nil
}

// GetSummary aggregates the user's transactions per type and derives the
// balance. Types with no rows report zero total and count.
func (s *transactionService) GetSummary(userID uint) (*Summary, error) {
	var rows []struct {
		Type  models.TransactionType
		Total int64
		Count int64
	}
	if err := s.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &Summary{}
	for _, row := range rows {
		switch row.Type {
		case models.TransactionTypeIncome:
			summary.Income = TypeSummary{Total: row.Total, Count: row.Count}
		case models.TransactionTypeExpense:
			summary.Expense = TypeSummary{Total: row.Total, Count: row.Count}
		}
	}
	summary.Balance = summary.Income.Total - summary.Expense.Total
	return summary, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// buildOrder maps the requested sort onto a whitelisted ORDER BY clause.
// The field defaults to creation time; the direction always comes from the
// request, so sortOrder applies even without an explicit sortBy.
func buildOrder(sort TransactionSort) (string, error) {
	field := sort.Field
	if field == "" {
		field = "createdAt"
	}
	column, ok := sortColumns[field]
	if !ok {
		return "", apperrors.ErrInvalidSortField
	}
	if sort.Desc {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}
