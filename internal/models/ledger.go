package models

import "time"

// DateLayout is the calendar-date format used for transaction dates on the wire.
const DateLayout = "2006-01-02"

// Account is a user-owned container of transactions.
type Account struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Category is a user-owned label for transactions.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Transaction is a single ledger entry. It has no owner of its own; it
// belongs to whoever owns AccountID.
type Transaction struct {
	ID         string
	Amount     int64 // miliunits
	Payee      string
	Notes      *string
	Date       time.Time
	AccountID  string
	CategoryID *string
}

// TransactionPatch holds the fields of a partial update. Nil fields are left
// unchanged.
type TransactionPatch struct {
	Amount     *int64
	Payee      *string
	Notes      *string
	Date       *time.Time
	AccountID  *string
	CategoryID *string
}

// Apply returns t with every non-nil field of p merged in.
func (t Transaction) Apply(p TransactionPatch) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Payee != nil {
		t.Payee = *p.Payee
	}
	if p.Notes != nil {
		t.Notes = p.Notes
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		t.CategoryID = p.CategoryID
	}
	return t
}

// TransactionView is the denormalized listing row with account and category
// names resolved.
type TransactionView struct {
	ID         string
	Date       time.Time
	Category   *string
	CategoryID *string
	Payee      string
	Amount     int64
	Notes      *string
	Account    string
	AccountID  string
}

// TransactionFilter narrows a transaction listing. Zero values mean "any";
// From and To are inclusive.
type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	AccountID  string
	CategoryID string
}
