package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet represents a wallets row. Balance is held in integer minor units
// (numeric(15,0) in the store) and may never go negative.
type Wallet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Balance      int64     `json:"balance"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PostLedgerEntryParams is the input to the atomic PostLedgerEntry operation.
// Amount is always positive; Type determines the sign of the balance delta.
type PostLedgerEntryParams struct {
	WalletID  uuid.UUID
	Type      TransactionType
	Amount    int64
	Reference string
}

// Delta returns the signed balance change for this entry.
func (p PostLedgerEntryParams) Delta() int64 {
	if p.Type == TxDebit {
		return -p.Amount
	}
	return p.Amount
}

// CommandResult is the return value from all ledger commands.
type CommandResult struct {
	Transaction *Transaction `json:"transaction"`
	Wallet      *Wallet      `json:"wallet"`
}

// DepositParams holds the input for ExecuteDeposit.
type DepositParams struct {
	UserID    uuid.UUID
	Amount    int64
	Reference string
}

// WithdrawParams holds the input for ExecuteWithdraw.
type WithdrawParams struct {
	UserID    uuid.UUID
	Amount    int64
	Reference string
}

// PurchaseDebitParams holds the input for ExecutePurchaseDebit.
type PurchaseDebitParams struct {
	UserID uuid.UUID
	Price  int64
	DrawID uuid.UUID
}

// PayoutCreditParams holds the input for ExecutePayoutCredit.
type PayoutCreditParams struct {
	UserID   uuid.UUID
	Amount   int64
	TicketID uuid.UUID
}
