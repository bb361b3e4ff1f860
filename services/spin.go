package services

import (
	"context"
	"errors"
	"time"

	"luckyspin/config"
	"luckyspin/game"
	"luckyspin/logger"

	"go.uber.org/zap"
)

// SettlementLedger is the slice of the ledger the spin pipeline needs.
type SettlementLedger interface {
	GetState(ctx context.Context, userID string) (game.FinancialState, error)
	ApplySettlement(ctx context.Context, res game.SettlementResult) error
}

// RateLimiter gates request bursts per user and action.
type RateLimiter interface {
	Allow(ctx context.Context, userID, action string, limit int64, window time.Duration) (bool, error)
}

// ReferralNotifier hears about a user's first settled paid spin.
type ReferralNotifier interface {
	OnFirstPaidPlay(ctx context.Context, userID string)
}

const (
	settleAttempts = 3
	spinsPerMinute = 30
)

// SpinService drives the full pipeline for one spin: guard, draw, resolve,
// settle, commit. The commit is conditional on the financial state the
// attempt read; on a version conflict the whole attempt is redone against
// fresh state, a bounded number of times.
type SpinService struct {
	ledger    SettlementLedger
	runtime   *config.Runtime
	roller    *game.Roller
	limiter   RateLimiter
	referrals ReferralNotifier
}

func NewSpinService(l SettlementLedger, runtime *config.Runtime, roller *game.Roller, limiter RateLimiter, referrals ReferralNotifier) *SpinService {
	return &SpinService{
		ledger:    l,
		runtime:   runtime,
		roller:    roller,
		limiter:   limiter,
		referrals: referrals,
	}
}

func (s *SpinService) Spin(ctx context.Context, req game.SpinRequest) (game.SettlementResult, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, req.UserID, "spin", spinsPerMinute, time.Minute)
		if err != nil {
			logger.Log.Warn("spin rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return game.SettlementResult{}, game.Deny(game.ReasonSpinRateLimitExceeded, "Too many spins, slow down")
		}
	}

	var lastErr error
	for attempt := 0; attempt < settleAttempts; attempt++ {
		res, err := s.spinOnce(ctx, req)
		if err == nil {
			if res.FirstPaidPlay && s.referrals != nil {
				s.referrals.OnFirstPaidPlay(ctx, req.UserID)
			}
			logger.Log.Info("spin settled",
				zap.String("user_id", req.UserID),
				zap.String("session_id", res.Session.SessionID),
				zap.Int64("stake", req.Stake),
				zap.Int64("win", res.WinAmount),
				zap.Bool("free_spin", req.FreeSpin),
				zap.Int("attempt", attempt+1),
			)
			return res, nil
		}
		if !errors.Is(err, game.ErrConcurrencyConflict) {
			return game.SettlementResult{}, err
		}
		lastErr = err
		time.Sleep(time.Duration(attempt+1) * 20 * time.Millisecond)
	}

	logger.Log.Error("spin settlement conflicts exhausted",
		zap.String("user_id", req.UserID), zap.Error(lastErr))
	return game.SettlementResult{}, game.ErrUpstreamUnavailable
}

func (s *SpinService) spinOnce(ctx context.Context, req game.SpinRequest) (game.SettlementResult, error) {
	state, err := s.ledger.GetState(ctx, req.UserID)
	if err != nil {
		return game.SettlementResult{}, err
	}

	settings := s.runtime.Settings()
	if denial := game.CheckSpin(state, req, settings); denial != nil {
		return game.SettlementResult{}, denial
	}

	draw, rollHash := s.roller.Draw(state.ClientSeed, state.Nonce)
	outcome, err := game.Resolve(s.runtime.Segments(), draw)
	if err != nil {
		return game.SettlementResult{}, err
	}

	res, err := game.Settle(state, req, outcome, settings.FreeSpinStake, rollHash)
	if err != nil {
		return game.SettlementResult{}, err
	}
	if err := s.ledger.ApplySettlement(ctx, res); err != nil {
		return game.SettlementResult{}, err
	}
	return res, nil
}

// SeedHash exposes the server's current fairness commitment.
func (s *SpinService) SeedHash() string {
	return s.roller.SeedHash()
}
