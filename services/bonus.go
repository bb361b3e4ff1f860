package services

import (
	"context"
	"time"

	"luckyspin/config"
	"luckyspin/game"
	"luckyspin/logger"
	"luckyspin/models"

	"go.uber.org/zap"
)

// BonusLedger is the slice of the ledger the daily bonus needs.
type BonusLedger interface {
	LastBonusClaim(ctx context.Context, userID string) (*models.DailyBonusClaim, error)
	ApplyBonusClaim(ctx context.Context, claim models.DailyBonusClaim) (int64, error)
	BonusClaims(ctx context.Context, userID string, limit int) ([]models.DailyBonusClaim, error)
}

// bonusStep is one rung of the 7-day ladder. Day 4 grants a free spin credit
// instead of coins; the streak wraps back to day 1 after day 7.
type bonusStep struct {
	Kind   string
	Amount int64
}

var bonusLadder = [7]bonusStep{
	{models.BonusKindCoins, 50},
	{models.BonusKindCoins, 75},
	{models.BonusKindCoins, 100},
	{models.BonusKindFreeSpin, 1},
	{models.BonusKindCoins, 150},
	{models.BonusKindCoins, 200},
	{models.BonusKindCoins, 300},
}

const bonusDateLayout = "2006-01-02"

// BonusClaimResult is what the client needs to render after a claim.
type BonusClaimResult struct {
	BonusDay   int    `json:"bonus_day"`
	Kind       string `json:"kind"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"new_balance"`
}

// BonusStatus describes where the user sits on the ladder right now.
type BonusStatus struct {
	ClaimedToday bool   `json:"claimed_today"`
	NextDay      int    `json:"next_day"`
	NextKind     string `json:"next_kind"`
	NextAmount   int64  `json:"next_amount"`
	Streak       int    `json:"streak"`
}

type BonusService struct {
	ledger  BonusLedger
	runtime *config.Runtime
	now     func() time.Time
}

func NewBonusService(l BonusLedger, runtime *config.Runtime) *BonusService {
	return &BonusService{ledger: l, runtime: runtime, now: time.Now}
}

// nextStep works out today's ladder position from the last claim. A claim
// yesterday continues the streak; any gap resets it to day 1.
func (b *BonusService) nextStep(last *models.DailyBonusClaim, today string) (day int, claimedToday bool) {
	if last == nil {
		return 1, false
	}
	if last.ClaimedOn == today {
		return last.BonusDay, true
	}
	yesterday := b.now().UTC().AddDate(0, 0, -1).Format(bonusDateLayout)
	if last.ClaimedOn == yesterday {
		day = last.BonusDay + 1
		if day > len(bonusLadder) {
			day = 1
		}
		return day, false
	}
	return 1, false
}

func (b *BonusService) Claim(ctx context.Context, userID string) (*BonusClaimResult, error) {
	if !b.runtime.Settings().DailyBonusEnabled {
		return nil, game.Deny(game.ReasonBonusDisabled, "Daily bonuses are currently disabled")
	}

	today := b.now().UTC().Format(bonusDateLayout)
	last, err := b.ledger.LastBonusClaim(ctx, userID)
	if err != nil {
		return nil, err
	}
	day, claimedToday := b.nextStep(last, today)
	if claimedToday {
		return nil, game.Deny(game.ReasonBonusAlreadyClaimed, "Come back tomorrow for your next bonus")
	}

	step := bonusLadder[day-1]
	newBalance, err := b.ledger.ApplyBonusClaim(ctx, models.DailyBonusClaim{
		UserID:    userID,
		ClaimedOn: today,
		BonusDay:  day,
		Kind:      step.Kind,
		Amount:    step.Amount,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("daily bonus claimed",
		zap.String("user_id", userID),
		zap.Int("bonus_day", day),
		zap.String("kind", step.Kind),
		zap.Int64("amount", step.Amount),
	)
	return &BonusClaimResult{
		BonusDay:   day,
		Kind:       step.Kind,
		Amount:     step.Amount,
		NewBalance: newBalance,
	}, nil
}

func (b *BonusService) Status(ctx context.Context, userID string) (*BonusStatus, error) {
	today := b.now().UTC().Format(bonusDateLayout)
	last, err := b.ledger.LastBonusClaim(ctx, userID)
	if err != nil {
		return nil, err
	}
	day, claimedToday := b.nextStep(last, today)

	status := &BonusStatus{ClaimedToday: claimedToday}
	if claimedToday {
		next := day + 1
		if next > len(bonusLadder) {
			next = 1
		}
		status.NextDay = next
		status.Streak = day
	} else {
		status.NextDay = day
		if day > 1 {
			status.Streak = day - 1
		}
	}
	step := bonusLadder[status.NextDay-1]
	status.NextKind = step.Kind
	status.NextAmount = step.Amount
	return status, nil
}

func (b *BonusService) History(ctx context.Context, userID string, limit int) ([]models.DailyBonusClaim, error) {
	return b.ledger.BonusClaims(ctx, userID, limit)
}
