package services

import (
	"time"

	"spendwise/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// TransactionFilter holds optional filter parameters for listing transactions.
// Nil fields leave the corresponding predicate out of the query; date bounds
// are inclusive and may be supplied independently.
type TransactionFilter struct {
	Type     *models.TransactionType
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// TransactionUpdateFields holds the optional fields of a partial update.
// Nil fields are left unchanged on the stored record.
type TransactionUpdateFields struct {
	Type        *models.TransactionType
	Amount      *int64
	Description *string
	Category    *string
	Date        *time.Time
}

// TransactionSummary aggregates a user's transactions within a filter scope.
// Amounts are in cents.
type TransactionSummary struct {
	TotalIncome  int64            `json:"total_income"`
	TotalExpense int64            `json:"total_expense"`
	Balance      int64            `json:"balance"`
	ByCategory   map[string]int64 `json:"expense_by_category"`
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, transactionType models.TransactionType, amount int64, description, category string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetSummary(userID uint, filter TransactionFilter) (*TransactionSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
