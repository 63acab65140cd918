package dto

import (
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/money"
)

// NameRequest is the body for creating or renaming an account or category.
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTransactionRequest is the body of POST /transactions. Amount is
// checked by the handler since it needs range validation after parsing.
type CreateTransactionRequest struct {
	Amount     *money.Amount `json:"amount"`
	Payee      string        `json:"payee" validate:"required"`
	Notes      *string       `json:"notes"`
	Date       string        `json:"date" validate:"required,datetime=2006-01-02"`
	AccountID  string        `json:"accountId" validate:"required"`
	CategoryID *string       `json:"categoryId"`
}

// UpdateTransactionRequest is the body of PUT /transactions/{id}. Omitted
// fields are left unchanged.
type UpdateTransactionRequest struct {
	Amount     *money.Amount `json:"amount"`
	Payee      *string       `json:"payee" validate:"omitnil,min=1"`
	Notes      *string       `json:"notes"`
	Date       *string       `json:"date" validate:"omitnil,datetime=2006-01-02"`
	AccountID  *string       `json:"accountId" validate:"omitnil,min=1"`
	CategoryID *string       `json:"categoryId"`
}

// Transaction is a stored transaction with its amount formatted for display.
type Transaction struct {
	ID         string  `json:"id"`
	Amount     string  `json:"amount"`
	Payee      string  `json:"payee"`
	Notes      *string `json:"notes"`
	Date       string  `json:"date"`
	AccountID  string  `json:"accountId"`
	CategoryID *string `json:"categoryId"`
}

// TransactionRow is one entry of the transaction listing.
type TransactionRow struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Category   *string `json:"category"`
	CategoryID *string `json:"categoryId"`
	Payee      string  `json:"payee"`
	Amount     string  `json:"amount"`
	Notes      *string `json:"notes"`
	Account    string  `json:"account"`
	AccountID  string  `json:"accountId"`
}

func NewTransaction(t models.Transaction) Transaction {
	return Transaction{
		ID:         t.ID,
		Amount:     money.FormatMiliunits(t.Amount),
		Payee:      t.Payee,
		Notes:      t.Notes,
		Date:       t.Date.Format(models.DateLayout),
		AccountID:  t.AccountID,
		CategoryID: t.CategoryID,
	}
}

func NewTransactionRows(views []models.TransactionView) []TransactionRow {
	rows := make([]TransactionRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, TransactionRow{
			ID:         v.ID,
			Date:       v.Date.Format(models.DateLayout),
			Category:   v.Category,
			CategoryID: v.CategoryID,
			Payee:      v.Payee,
			Amount:     money.FormatMiliunits(v.Amount),
			Notes:      v.Notes,
			Account:    v.Account,
			AccountID:  v.AccountID,
		})
	}
	return rows
}
