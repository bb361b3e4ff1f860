package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TrxDeposit    = "deposit"
	TrxWithdrawal = "withdrawal"
	TrxWin        = "win"
	TrxStake      = "stake"
	TrxBonus      = "bonus"
	TrxReferral   = "referral"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is the append-only money ledger. Rows are immutable once
// completed; status moves pending -> completed or pending -> failed at most
// once, driven by gateway confirmations keyed on PaymentReference.
type Transaction struct {
	gorm.Model

	TxnID  string `gorm:"size:36;uniqueIndex;not null" json:"txn_id"`
	UserID string `gorm:"index;size:64" json:"user_id"`

	Type   string `gorm:"size:16;index" json:"type"`
	Amount int64  `json:"amount"`
	Status string `gorm:"size:16;index" json:"status"`

	BalanceBefore int64 `json:"balance_before"`
	BalanceAfter  int64 `json:"balance_after"`

	Method  string `gorm:"size:32" json:"method,omitempty"`
	Gateway string `gorm:"size:32" json:"gateway,omitempty"`

	// Unique per gateway payment; nil for spin/bonus legs. The unique index
	// is what makes confirmation replays no-ops.
	PaymentReference *string `gorm:"size:64;uniqueIndex" json:"payment_reference,omitempty"`

	BankCode      string `gorm:"size:8" json:"bank_code,omitempty"`
	AccountNumber string `gorm:"size:16" json:"account_number,omitempty"`
	AccountName   string `gorm:"size:64" json:"account_name,omitempty"`

	SessionID     string         `gorm:"size:36;index" json:"session_id,omitempty"`
	FailureReason string         `gorm:"size:255" json:"failure_reason,omitempty"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`
}
