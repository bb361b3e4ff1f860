package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"luckyspin/game"
	"luckyspin/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PendingPayment captures an initiated gateway payment before confirmation.
type PendingPayment struct {
	UserID        string
	Amount        int64
	Gateway       string
	Method        string
	Reference     string
	BankCode      string
	AccountNumber string
	AccountName   string
}

func (s *Store) CreatePendingDeposit(ctx context.Context, p PendingPayment) (*models.Transaction, error) {
	return s.createPending(ctx, models.TrxDeposit, p)
}

func (s *Store) CreatePendingWithdrawal(ctx context.Context, p PendingPayment) (*models.Transaction, error) {
	return s.createPending(ctx, models.TrxWithdrawal, p)
}

func (s *Store) createPending(ctx context.Context, trxType string, p PendingPayment) (*models.Transaction, error) {
	ref := p.Reference
	record := models.Transaction{
		TxnID:            uuid.New().String(),
		UserID:           p.UserID,
		Type:             trxType,
		Amount:           p.Amount,
		Status:           models.StatusPending,
		Gateway:          p.Gateway,
		Method:           p.Method,
		PaymentReference: &ref,
		BankCode:         p.BankCode,
		AccountNumber:    p.AccountNumber,
		AccountName:      p.AccountName,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return &record, nil
}

func (s *Store) FindByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var record models.Transaction
	err := s.db.WithContext(ctx).Where("payment_reference = ?", reference).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: unknown payment reference %s", game.ErrValidation, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return &record, nil
}

// PendingTransactions lists payments still awaiting gateway confirmation,
// oldest first, for the reconciliation job.
func (s *Store) PendingTransactions(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	var records []models.Transaction
	cutoff := time.Now().Add(-olderThan)
	err := s.db.WithContext(ctx).
		Where("status = ? AND type IN ? AND created_at <= ?",
			models.StatusPending, []string{models.TrxDeposit, models.TrxWithdrawal}, cutoff).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
	}
	return records, nil
}

// ConfirmPayment applies one gateway confirmation event. Idempotent by
// payment reference: once a transaction has left pending, any further
// confirmation for the same reference is a no-op, so a replayed webhook or a
// reconciler racing a callback can never double-credit.
//
// Deposits credit the balance only on success. Withdrawals debit only on
// success, conditional on the balance still covering the amount; a failed
// withdrawal leaves the balance untouched.
func (s *Store) ConfirmPayment(ctx context.Context, reference string, success bool, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.Transaction
		err := tx.Where("payment_reference = ?", reference).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown payment reference %s", game.ErrValidation, reference)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
		}
		if record.Status != models.StatusPending {
			return nil // already settled, replay is a no-op
		}

		if !success {
			return tx.Model(&record).Updates(map[string]any{
				"status":         models.StatusFailed,
				"failure_reason": reason,
			}).Error
		}

		var user models.User
		if err := tx.Where("user_id = ?", record.UserID).First(&user).Error; err != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, err)
		}

		before := user.Balance
		var after int64
		switch record.Type {
		case models.TrxDeposit:
			after = before + record.Amount
		case models.TrxWithdrawal:
			if before < record.Amount {
				// Funds were spent between initiation and confirmation.
				// The payout must not go through against a short balance.
				return tx.Model(&record).Updates(map[string]any{
					"status":         models.StatusFailed,
					"failure_reason": "insufficient balance at settlement",
				}).Error
			}
			after = before - record.Amount
		default:
			return fmt.Errorf("%w: transaction %s is not a gateway payment", game.ErrValidation, record.TxnID)
		}

		result := tx.Model(&models.User{}).
			Where("user_id = ? AND version = ?", user.UserID, user.Version).
			Updates(map[string]any{"balance": after, "version": user.Version + 1})
		if result.Error != nil {
			return fmt.Errorf("%w: %v", game.ErrUpstreamUnavailable, result.Error)
		}
		if result.RowsAffected == 0 {
			return game.ErrConcurrencyConflict
		}

		return tx.Model(&record).Updates(map[string]any{
			"status":         models.StatusCompleted,
			"balance_before": before,
			"balance_after":  after,
		}).Error
	})
}

// ConfirmPaymentRetry wraps ConfirmPayment with the bounded conflict retry
// the reconciler and webhook handlers share.
func (s *Store) ConfirmPaymentRetry(ctx context.Context, reference string, success bool, reason string) error {
	var err error
	for attempt := 0; attempt < creditRetries; attempt++ {
		err = s.ConfirmPayment(ctx, reference, success, reason)
		if !errors.Is(err, game.ErrConcurrencyConflict) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 25 * time.Millisecond)
	}
	return game.ErrUpstreamUnavailable
}
