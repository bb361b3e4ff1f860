package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"luckyspin/game"
	"luckyspin/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is the durable side of the settlement pipeline. All balance writes
// go through a conditional update on the user's version column: the write
// applies only if the row still carries the version the caller read, so two
// concurrent settlements for one user can never interleave. Callers retry on
// game.ErrConcurrencyConflict.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// creditRetries bounds the internal retry loop on unconditional credits
// (bonus, referral, deposit); settlements retry at the service layer instead.
const creditRetries = 3

func (s *Store) GetState(ctx context.Context, userID string) (game.FinancialState, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("user_id = ? AND is_active = true", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.FinancialState{}, fmt.Errorf("%w: unknown user %s", game.ErrValidation, userID)
		}
		return game.FinancialState{}, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return stateFromUser(&user), nil
}

func stateFromUser(u *models.User) game.FinancialState {
	return game.FinancialState{
		UserID:            u.UserID,
		Balance:           u.Balance,
		TotalWinnings:     u.TotalWinnings,
		TotalSpins:        u.TotalSpins,
		HasPlayedPaidGame: u.HasPlayedPaidGame,
		FreeGameCredits:   u.FreeGameCredits,
		FreeSpinsUsed:     u.FreeSpinsUsed,
		ClientSeed:        u.ClientSeed,
		Nonce:             u.Nonce,
		Version:           u.Version,
	}
}

// ApplySettlement commits one settlement atomically: the versioned user
// update, the game session, and the stake/win transaction rows either all
// land or none do. Returns game.ErrConcurrencyConflict when the user row
// moved since the state was read.
func (s *Store) ApplySettlement(ctx context.Context, res game.SettlementResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"balance":              res.State.Balance,
			"total_winnings":       res.State.TotalWinnings,
			"total_spins":          res.State.TotalSpins,
			"has_played_paid_game": res.State.HasPlayedPaidGame,
			"free_game_credits":    res.State.FreeGameCredits,
			"free_spins_used":      res.State.FreeSpinsUsed,
			"nonce":                res.State.Nonce,
			"version":              res.State.Version + 1,
		}
		result := tx.Model(&models.User{}).
			Where("user_id = ? AND version = ?", res.State.UserID, res.State.Version).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
		}
		if result.RowsAffected == 0 {
			return game.ErrConcurrencyConflict
		}

		meta, _ := json.Marshal(map[string]any{
			"multiplier": res.Outcome.Multiplier,
			"label":      res.Outcome.Label,
		})
		session := models.GameSession{
			SessionID:   res.Session.SessionID,
			UserID:      res.Session.UserID,
			StakeAmount: res.Session.Stake,
			WinAmount:   res.Session.WinAmount,
			Multiplier:  res.Session.Multiplier,
			IsFreeSpin:  res.Session.IsFreeSpin,
			ClientSeed:  res.Session.ClientSeed,
			Nonce:       res.Session.Nonce,
			RollHash:    res.Session.RollHash,
			SessionData: datatypes.JSON(meta),
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
		}

		for _, entry := range res.Entries {
			record := models.Transaction{
				TxnID:         uuid.New().String(),
				UserID:        res.State.UserID,
				Type:          entry.Type,
				Amount:        entry.Amount,
				Status:        models.StatusCompleted,
				BalanceBefore: entry.BalanceBefore,
				BalanceAfter:  entry.BalanceAfter,
				Method:        "Lucky Spin",
				SessionID:     res.Session.SessionID,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
			}
		}
		return nil
	})
}

// CreditWallet adds funds for bonus/referral payouts and records the
// transaction leg. Credits cannot break the non-negative invariant, so the
// version conflict is resolved internally with a short retry.
func (s *Store) CreditWallet(ctx context.Context, userID string, amount int64, trxType, method string) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", game.ErrValidation)
	}
	var newBalance int64
	for attempt := 0; attempt < creditRetries; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
				return fmt.Errorf("%w: %v", game.ErrValidation, err)
			}
			before := user.Balance
			after := before + amount
			result := tx.Model(&models.User{}).
				Where("user_id = ? AND version = ?", userID, user.Version).
				Updates(map[string]any{"balance": after, "version": user.Version + 1})
			if result.Error != nil {
				return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
			}
			if result.RowsAffected == 0 {
				return game.ErrConcurrencyConflict
			}
			newBalance = after
			return tx.Create(&models.Transaction{
				TxnID:         uuid.New().String(),
				UserID:        userID,
				Type:          trxType,
				Amount:        amount,
				Status:        models.StatusCompleted,
				BalanceBefore: before,
				BalanceAfter:  after,
				Method:        method,
			}).Error
		})
		if err == nil {
			return newBalance, nil
		}
		if !errors.Is(err, game.ErrConcurrencyConflict) {
			return 0, err
		}
	}
	return 0, game.ErrUpstreamUnavailable
}

// GrantFreeCredit awards one free game credit (day-4 bonus).
func (s *Store) GrantFreeCredit(ctx context.Context, userID string) error {
	for attempt := 0; attempt < creditRetries; attempt++ {
		var user models.User
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
			return fmt.Errorf("%w: %v", game.ErrValidation, err)
		}
		result := s.db.WithContext(ctx).Model(&models.User{}).
			Where("user_id = ? AND version = ?", userID, user.Version).
			Updates(map[string]any{
				"free_game_credits": user.FreeGameCredits + 1,
				"version":           user.Version + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
		}
		if result.RowsAffected == 1 {
			return nil
		}
	}
	return game.ErrUpstreamUnavailable
}

func (s *Store) Transactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var records []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (s *Store) GameSessions(ctx context.Context, userID string, limit int) ([]models.GameSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var sessions []models.GameSession
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// WithdrawalTotals aggregates completed withdrawals for the guard's daily
// and monthly caps. Pending withdrawals count too, otherwise a burst of
// in-flight requests could overshoot the cap before any completes.
func (s *Store) WithdrawalTotals(ctx context.Context, userID string) (daily int64, monthly int64, err error) {
	statuses := []string{models.StatusPending, models.StatusCompleted}
	sum := func(window string) (int64, error) {
		var total int64
		err := s.db.WithContext(ctx).Model(&models.Transaction{}).
			Where("user_id = ? AND type = ? AND status IN ?", userID, models.TrxWithdrawal, statuses).
			Where("created_at >= date_trunc(?, now())", window).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		return total, err
	}

	if daily, err = sum("day"); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	if monthly, err = sum("month"); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return daily, monthly, nil
}
