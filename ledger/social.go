package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"luckyspin/game"
	"luckyspin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBonusAlreadyClaimed reports a second claim on the same calendar day.
var ErrBonusAlreadyClaimed = errors.New("daily bonus already claimed")

func (s *Store) LastBonusClaim(ctx context.Context, userID string) (*models.DailyBonusClaim, error) {
	var claim models.DailyBonusClaim
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("claimed_on DESC").
		First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return &claim, nil
}

func (s *Store) BonusClaims(ctx context.Context, userID string, limit int) ([]models.DailyBonusClaim, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	var claims []models.DailyBonusClaim
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("claimed_on DESC").
		Limit(limit).
		Find(&claims).Error
	return claims, err
}

// ApplyBonusClaim records the claim and pays it out in one transaction. The
// unique (user, day) index is the idempotency barrier: a concurrent double
// claim loses the insert and gets ErrBonusAlreadyClaimed.
func (s *Store) ApplyBonusClaim(ctx context.Context, claim models.DailyBonusClaim) (int64, error) {
	var newBalance int64
	for attempt := 0; attempt < creditRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&claim).Error; err != nil {
				if isUniqueViolation(err) {
					return ErrBonusAlreadyClaimed
				}
				return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
			}

			var user models.User
			if err := tx.Where("user_id = ?", claim.UserID).First(&user).Error; err != nil {
				return fmt.Errorf("%w: %v", game.ErrValidation, err)
			}

			updates := map[string]any{"version": user.Version + 1}
			switch claim.Kind {
			case models.BonusKindFreeSpin:
				updates["free_game_credits"] = user.FreeGameCredits + claim.Amount
				newBalance = user.Balance
			default:
				updates["balance"] = user.Balance + claim.Amount
				newBalance = user.Balance + claim.Amount
			}

			result := tx.Model(&models.User{}).
				Where("user_id = ? AND version = ?", claim.UserID, user.Version).
				Updates(updates)
			if result.Error != nil {
				return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
			}
			if result.RowsAffected == 0 {
				return game.ErrConcurrencyConflict
			}

			if claim.Kind == models.BonusKindCoins {
				return tx.Create(&models.Transaction{
					TxnID:         uuid.New().String(),
					UserID:        claim.UserID,
					Type:          models.TrxBonus,
					Amount:        claim.Amount,
					Status:        models.StatusCompleted,
					BalanceBefore: user.Balance,
					BalanceAfter:  newBalance,
					Method:        fmt.Sprintf("Daily Bonus Day %d", claim.BonusDay),
				}).Error
			}
			return nil
		})
		if err == nil {
			return newBalance, nil
		}
		if !errors.Is(err, game.ErrConcurrencyConflict) {
			return 0, err
		}
		claim.ID = 0 // retry re-inserts
	}
	return 0, game.ErrUpstreamUnavailable
}

func (s *Store) UserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return &user, nil
}

// CreateReferral links a referred signup to its referrer. The unique index
// on referred_user_id makes a duplicate link a silent no-op.
func (s *Store) CreateReferral(ctx context.Context, referral models.Referral) error {
	err := s.db.WithContext(ctx).Create(&referral).Error
	if err != nil && isUniqueViolation(err) {
		return nil
	}
	return err
}

func (s *Store) PendingReferralFor(ctx context.Context, referredUserID string) (*models.Referral, error) {
	var referral models.Referral
	err := s.db.WithContext(ctx).
		Where("referred_user_id = ? AND status = ?", referredUserID, models.StatusPending).
		First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return &referral, nil
}

func (s *Store) Referrals(ctx context.Context, referrerUserID string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.db.WithContext(ctx).
		Where("referrer_user_id = ?", referrerUserID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

// CompleteReferral flips the referral to completed and pays the referrer.
// The conditional status update makes a racing second completion a no-op.
func (s *Store) CompleteReferral(ctx context.Context, referralID uint, bonus int64) error {
	result := s.db.WithContext(ctx).Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, models.StatusPending).
		Updates(map[string]any{"status": models.StatusCompleted, "bonus_amount": bonus})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil // already paid
	}

	var referral models.Referral
	if err := s.db.WithContext(ctx).First(&referral, referralID).Error; err != nil {
		return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	_, err := s.CreditWallet(ctx, referral.ReferrerUserID, bonus, models.TrxReferral, "Referral Bonus")
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
