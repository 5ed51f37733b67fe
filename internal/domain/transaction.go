package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType enumerates the two sides of the wallet ledger.
type TransactionType string

const (
	TxDebit  TransactionType = "debit"
	TxCredit TransactionType = "credit"
)

// Transaction represents a transactions row (append-only ledger entry).
// Every wallet balance change is paired with exactly one Transaction row
// carrying the same amount, inserted in the same store transaction.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	WalletID     uuid.UUID       `json:"wallet_id"`
	Type         TransactionType `json:"type"`
	Amount       int64           `json:"amount"`
	BalanceAfter int64           `json:"balance_after"`
	Reference    string          `json:"reference,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
