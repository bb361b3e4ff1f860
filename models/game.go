package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameSession records one settled spin. The stake and win transactions carry
// the same SessionID so the whole settlement can be correlated for audit.
type GameSession struct {
	gorm.Model

	SessionID string `gorm:"size:36;uniqueIndex;not null" json:"session_id"`
	UserID    string `gorm:"index;size:64" json:"user_id"`

	StakeAmount int64           `json:"stake_amount"`
	WinAmount   int64           `json:"win_amount"`
	Multiplier  decimal.Decimal `gorm:"type:numeric(10,4)" json:"multiplier"`
	IsFreeSpin  bool            `json:"is_free_spin"`

	ClientSeed string `gorm:"size:64" json:"client_seed"`
	Nonce      int64  `json:"nonce"`
	RollHash   string `gorm:"size:64" json:"roll_hash"`

	SessionData datatypes.JSON `json:"session_data,omitempty"`
}

// WheelSegment is one configurable outcome slot, ordered by Position.
// Display fields never influence settlement.
type WheelSegment struct {
	gorm.Model

	Position    int             `gorm:"index" json:"position"`
	Multiplier  decimal.Decimal `gorm:"type:numeric(10,4)" json:"multiplier"`
	Probability decimal.Decimal `gorm:"type:numeric(10,6)" json:"probability"`
	Label       string          `gorm:"size:16" json:"label"`
	Color       string          `gorm:"size:16" json:"color"`
	Active      bool            `gorm:"default:true" json:"active"`
}

// DailyBonusClaim is one claimed day of the 7-day ladder. ClaimedOn is the
// calendar date, unique per user so a day can only be claimed once.
type DailyBonusClaim struct {
	gorm.Model

	UserID    string `gorm:"size:64;index:idx_bonus_user_day,unique" json:"user_id"`
	ClaimedOn string `gorm:"size:10;index:idx_bonus_user_day,unique" json:"claimed_on"`
	BonusDay  int    `json:"bonus_day"`
	Kind      string `gorm:"size:16" json:"kind"`
	Amount    int64  `json:"amount"`
}

const (
	BonusKindCoins    = "coins"
	BonusKindFreeSpin = "free_spin"
)

type Referral struct {
	gorm.Model

	ReferrerUserID string `gorm:"size:64;index" json:"referrer_user_id"`
	ReferredUserID string `gorm:"size:64;uniqueIndex" json:"referred_user_id"`
	ReferralCode   string `gorm:"size:16;index" json:"referral_code"`
	BonusAmount    int64  `json:"bonus_amount"`
	Status         string `gorm:"size:16" json:"status"`
}

// Rules is the single persisted row of admin-configurable game rules and
// withdrawal limits. It is loaded into an in-memory snapshot at startup and
// swapped atomically on admin writes.
type Rules struct {
	gorm.Model

	MinStake         int64 `json:"min_stake"`
	MaxStake         int64 `json:"max_stake"`
	FreeSpinStake    int64 `json:"free_spin_stake"`
	FreeSpinsPerUser int64 `json:"free_spins_per_user"`
	ReferralBonus    int64 `json:"referral_bonus"`

	MinWithdrawal      int64 `json:"min_withdrawal"`
	MaxWithdrawal      int64 `json:"max_withdrawal"`
	DailyLimit         int64 `json:"daily_limit"`
	MonthlyLimit       int64 `json:"monthly_limit"`
	WithdrawalsEnabled bool  `gorm:"default:true" json:"withdrawals_enabled"`

	DailyBonusEnabled bool `gorm:"default:true" json:"daily_bonus_enabled"`
}
