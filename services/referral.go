package services

import (
	"context"

	"luckyspin/config"
	"luckyspin/logger"
	"luckyspin/models"

	"go.uber.org/zap"
)

// ReferralLedger is the slice of the ledger the referral flow needs.
type ReferralLedger interface {
	UserByReferralCode(ctx context.Context, code string) (*models.User, error)
	CreateReferral(ctx context.Context, referral models.Referral) error
	PendingReferralFor(ctx context.Context, referredUserID string) (*models.Referral, error)
	Referrals(ctx context.Context, referrerUserID string) ([]models.Referral, error)
	CompleteReferral(ctx context.Context, referralID uint, bonus int64) error
}

// ReferralService links signups to referrers and pays the bonus once the
// referred user settles their first paid spin.
type ReferralService struct {
	ledger  ReferralLedger
	runtime *config.Runtime
}

func NewReferralService(l ReferralLedger, runtime *config.Runtime) *ReferralService {
	return &ReferralService{ledger: l, runtime: runtime}
}

// RegisterReferral records a pending referral at signup. Unknown codes and
// self-referrals are ignored rather than failing the signup.
func (r *ReferralService) RegisterReferral(ctx context.Context, referredUserID, code string) {
	if code == "" {
		return
	}
	referrer, err := r.ledger.UserByReferralCode(ctx, code)
	if err != nil {
		logger.Log.Warn("referral code lookup failed", zap.String("code", code), zap.Error(err))
		return
	}
	if referrer == nil || referrer.UserID == referredUserID {
		return
	}
	if err := r.ledger.CreateReferral(ctx, models.Referral{
		ReferrerUserID: referrer.UserID,
		ReferredUserID: referredUserID,
		ReferralCode:   code,
		Status:         models.StatusPending,
	}); err != nil {
		logger.Log.Error("referral link failed",
			zap.String("referrer", referrer.UserID),
			zap.String("referred", referredUserID),
			zap.Error(err))
		return
	}
	logger.Log.Info("referral registered",
		zap.String("referrer", referrer.UserID),
		zap.String("referred", referredUserID))
}

// OnFirstPaidPlay completes the pending referral for this user, if any, and
// pays the referrer the configured bonus. Running it twice is harmless: the
// completion is a conditional status flip.
func (r *ReferralService) OnFirstPaidPlay(ctx context.Context, userID string) {
	referral, err := r.ledger.PendingReferralFor(ctx, userID)
	if err != nil {
		logger.Log.Warn("pending referral lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if referral == nil {
		return
	}
	bonus := r.runtime.Settings().ReferralBonus
	if err := r.ledger.CompleteReferral(ctx, referral.ID, bonus); err != nil {
		logger.Log.Error("referral payout failed",
			zap.String("referrer", referral.ReferrerUserID),
			zap.String("referred", userID),
			zap.Error(err))
		return
	}
	logger.Log.Info("referral bonus paid",
		zap.String("referrer", referral.ReferrerUserID),
		zap.String("referred", userID),
		zap.Int64("bonus", bonus))
}

// Stats summarizes a referrer's earnings for the profile screen.
type ReferralStats struct {
	TotalReferred int   `json:"total_referred"`
	Completed     int   `json:"completed"`
	TotalEarned   int64 `json:"total_earned"`
}

func (r *ReferralService) List(ctx context.Context, referrerUserID string) ([]models.Referral, *ReferralStats, error) {
	referrals, err := r.ledger.Referrals(ctx, referrerUserID)
	if err != nil {
		return nil, nil, err
	}
	stats := &ReferralStats{TotalReferred: len(referrals)}
	for _, ref := range referrals {
		if ref.Status == models.StatusCompleted {
			stats.Completed++
			stats.TotalEarned += ref.BonusAmount
		}
	}
	return referrals, stats, nil
}
