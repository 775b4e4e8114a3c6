package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction creates a new transaction owned by the requesting user.
// Ownership is taken from userID, never from the payload.
func (s *transactionService) CreateTransaction(
	userID uint,
	transactionType models.TransactionType,
	amount int64,
	description string,
	category string,
	date time.Time,
) (*models.Transaction, error) {
	switch transactionType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	// Default date to now if not provided
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Category:    category,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves the user's transactions matching the filter,
// most recent first. Results are always scoped to the requesting user; no
// filter combination can widen that scope.
func (s *transactionService) GetUserTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	var transactions []models.Transaction
	if err := q.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// applyTransactionFilters translates a TransactionFilter into conjunctive
// query predicates. Date bounds are inclusive and independently optional.
func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
// A record owned by another user is reported as not found so reads never
// reveal the existence of someone else's data.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// getOwnedTransaction resolves a transaction for a mutating operation.
// Existence is checked before ownership so both update and delete report
// 404 for unknown ids and 403 for records owned by someone else, in that
// order.
func (s *transactionService) getOwnedTransaction(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if transaction.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	return &transaction, nil
}

// UpdateTransaction applies a partial update to a transaction the user owns.
// Omitted fields keep their stored values; the owner is never reassignable.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if fields.Type != nil {
		switch *fields.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
		transaction.Type = *fields.Type
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		transaction.Amount = *fields.Amount
	}
	if fields.Description != nil {
		transaction.Description = *fields.Description
	}
	if fields.Category != nil {
		if *fields.Category == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be empty")
		}
		transaction.Category = *fields.Category
	}
	if fields.Date != nil {
		transaction.Date = *fields.Date
	}

	if err := s.db.Save(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// DeleteTransaction permanently removes a transaction the user owns.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.getOwnedTransaction(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

// GetSummary aggregates the user's transactions within the filter scope.
// The type filter is ignored: totals for both types are always reported.
func (s *transactionService) GetSummary(userID uint, filter TransactionFilter) (*TransactionSummary, error) {
	filter.Type = nil

	scope := func() *gorm.DB {
		q := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
		return applyTransactionFilters(q, filter)
	}

	summary := &TransactionSummary{ByCategory: map[string]int64{}}

	if err := scope().
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", models.TransactionTypeIncome).
		Scan(&summary.TotalIncome).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := scope().
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", models.TransactionTypeExpense).
		Scan(&summary.TotalExpense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpense

	var rows []struct {
		Category string
		Total    int64
	}
	if err := scope().
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("type = ?", models.TransactionTypeExpense).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, row := range rows {
		summary.ByCategory[row.Category] = row.Total
	}

	return summary, nil
}
