package account

import "time"

// FinancialAccount is a ledger account postings move funds between.
// Incoming and refund bank accounts are stored with their IBAN as name;
// campaign target accounts are keyed by accounting code.
type FinancialAccount struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	AccountingCode  string    `json:"accounting_code"`
	AccountTypeCode string    `json:"account_type_code"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
