package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	UserID      string `gorm:"uniqueIndex;size:64" json:"user_id"`
	Email       string `gorm:"index;size:128" json:"email"`
	DisplayName string `gorm:"size:64" json:"display_name"`

	Balance       int64 `json:"balance"`
	TotalWinnings int64 `json:"total_winnings"`
	TotalSpins    int64 `json:"total_spins"`

	HasPlayedPaidGame bool  `json:"has_played_paid_game"`
	FreeGameCredits   int64 `gorm:"default:1" json:"free_game_credits"`
	FreeSpinsUsed     int64 `json:"free_spins_used"`

	ReferralCode string `gorm:"uniqueIndex;size:16" json:"referral_code"`

	// Provably-fair draw sequence. Nonce advances by one on every spin.
	ClientSeed string `gorm:"size:64" json:"client_seed"`
	Nonce      int64  `json:"nonce"`

	// Optimistic concurrency tag. Every settlement bumps it; writers
	// condition on the value they read.
	Version int64 `gorm:"default:0" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

type Session struct {
	gorm.Model
	SID       string    `gorm:"column:sid;size:36;uniqueIndex;not null"`
	UserID    string    `gorm:"index;size:64"`
	ExpiresAt time.Time `gorm:"index"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	s.SID = strings.ToLower(uuid.New().String())
	return nil
}

// NewReferralCode builds the short share code handed out at signup.
func NewReferralCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "CP" + raw[:6]
}
