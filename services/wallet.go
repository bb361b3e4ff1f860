package services

import (
	"context"
	"fmt"
	"time"

	"luckyspin/config"
	"luckyspin/game"
	"luckyspin/ledger"
	"luckyspin/logger"
	"luckyspin/models"
	"luckyspin/payments"

	"go.uber.org/zap"
)

// Gateway limits for deposits, in whole Naira.
const (
	minDeposit = 50
	maxDeposit = 1000000

	withdrawalsPerMinute = 5
)

// PaymentLedger is the slice of the ledger the wallet flows need.
type PaymentLedger interface {
	GetState(ctx context.Context, userID string) (game.FinancialState, error)
	CreatePendingDeposit(ctx context.Context, p ledger.PendingPayment) (*models.Transaction, error)
	CreatePendingWithdrawal(ctx context.Context, p ledger.PendingPayment) (*models.Transaction, error)
	ConfirmPaymentRetry(ctx context.Context, reference string, success bool, reason string) error
	FindByReference(ctx context.Context, reference string) (*models.Transaction, error)
	WithdrawalTotals(ctx context.Context, userID string) (daily int64, monthly int64, err error)
	Transactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
}

// ConfirmLocker serializes confirmation processing per payment reference.
type ConfirmLocker interface {
	AcquireConfirmLock(ctx context.Context, reference string, ttl time.Duration) (bool, error)
	ReleaseConfirmLock(ctx context.Context, reference string)
}

// WalletService owns deposit and withdrawal initiation plus confirmation.
// Money only moves on confirmation: deposits credit when the gateway says
// paid, withdrawals debit when the payout succeeds.
type WalletService struct {
	ledger  PaymentLedger
	runtime *config.Runtime
	limiter RateLimiter
	locks   ConfirmLocker
}

func NewWalletService(l PaymentLedger, runtime *config.Runtime, limiter RateLimiter, locks ConfirmLocker) *WalletService {
	return &WalletService{ledger: l, runtime: runtime, limiter: limiter, locks: locks}
}

func (w *WalletService) Deposit(ctx context.Context, userID, email string, amount int64, gatewayName, method string) (*payments.DepositResponse, *models.Transaction, error) {
	if amount < minDeposit || amount > maxDeposit {
		return nil, nil, fmt.Errorf("%w: deposit must be between ₦%d and ₦%d", game.ErrValidation, minDeposit, maxDeposit)
	}
	gw, err := payments.Get(gatewayName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", game.ErrValidation, err)
	}

	resp, err := gw.InitiateDeposit(ctx, payments.DepositRequest{
		UserID: userID,
		Email:  email,
		Amount: amount,
		Method: method,
	})
	if err != nil {
		logger.Log.Error("deposit initiation failed",
			zap.String("user_id", userID), zap.String("gateway", gatewayName), zap.Error(err))
		return nil, nil, game.ErrUpstreamUnavailable
	}

	record, err := w.ledger.CreatePendingDeposit(ctx, ledger.PendingPayment{
		UserID:    userID,
		Amount:    amount,
		Gateway:   gw.Name(),
		Method:    method,
		Reference: resp.Reference,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("deposit initiated",
		zap.String("user_id", userID),
		zap.String("reference", resp.Reference),
		zap.Int64("amount", amount),
		zap.String("gateway", gw.Name()),
	)
	return resp, record, nil
}

func (w *WalletService) Withdraw(ctx context.Context, userID string, amount int64, gatewayName, bankCode, accountNumber string) (*payments.WithdrawalResponse, *models.Transaction, error) {
	if w.limiter != nil {
		allowed, err := w.limiter.Allow(ctx, userID, "withdraw", withdrawalsPerMinute, time.Minute)
		if err == nil && !allowed {
			return nil, nil, game.Deny(game.ReasonWithdrawRateLimited, "Too many withdrawal attempts, slow down")
		}
	}
	if !payments.ValidAccountNumber(accountNumber) {
		return nil, nil, fmt.Errorf("%w: account number must be 10 digits", game.ErrValidation)
	}
	bank, ok := payments.BankByCode(bankCode)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown bank code %s", game.ErrValidation, bankCode)
	}
	gw, err := payments.Get(gatewayName)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", game.ErrValidation, err)
	}

	state, err := w.ledger.GetState(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	dailyUsed, monthlyUsed, err := w.ledger.WithdrawalTotals(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if denial := game.CheckWithdrawal(state, amount, w.runtime.WithdrawalLimits(), dailyUsed, monthlyUsed); denial != nil {
		return nil, nil, denial
	}

	accountName, err := gw.ResolveBankAccount(ctx, accountNumber, bankCode)
	if err != nil {
		logger.Log.Warn("bank account resolution failed",
			zap.String("user_id", userID), zap.String("bank", bank.Name), zap.Error(err))
		return nil, nil, game.ErrUpstreamUnavailable
	}

	resp, err := gw.InitiateWithdrawal(ctx, payments.WithdrawalRequest{
		UserID:        userID,
		Amount:        amount,
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Narration:     "Lucky Spin withdrawal",
	})
	if err != nil {
		logger.Log.Error("withdrawal initiation failed",
			zap.String("user_id", userID), zap.String("gateway", gatewayName), zap.Error(err))
		return nil, nil, game.ErrUpstreamUnavailable
	}

	record, err := w.ledger.CreatePendingWithdrawal(ctx, ledger.PendingPayment{
		UserID:        userID,
		Amount:        amount,
		Gateway:       gw.Name(),
		Method:        "bank_transfer",
		Reference:     resp.Reference,
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		AccountName:   accountName,
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("withdrawal initiated",
		zap.String("user_id", userID),
		zap.String("reference", resp.Reference),
		zap.Int64("amount", amount),
		zap.String("bank", bank.Name),
	)
	return resp, record, nil
}

// Confirm applies a gateway confirmation event. Safe to call any number of
// times per reference.
func (w *WalletService) Confirm(ctx context.Context, reference string, success bool, reason string) error {
	if w.locks != nil {
		acquired, err := w.locks.AcquireConfirmLock(ctx, reference, 30*time.Second)
		if err == nil && !acquired {
			return nil // someone else is applying this confirmation right now
		}
		if err == nil {
			defer w.locks.ReleaseConfirmLock(ctx, reference)
		}
	}

	if err := w.ledger.ConfirmPaymentRetry(ctx, reference, success, reason); err != nil {
		return err
	}
	logger.Log.Info("payment confirmation applied",
		zap.String("reference", reference), zap.Bool("success", success))
	return nil
}

// Reconcile re-checks one pending transaction against its gateway and, on a
// terminal status, applies the confirmation. Shared by webhook handlers and
// the background reconciler; a still-pending verdict leaves the record alone.
func (w *WalletService) Reconcile(ctx context.Context, txn models.Transaction) error {
	if txn.PaymentReference == nil {
		return nil
	}
	gw, err := payments.Get(txn.Gateway)
	if err != nil {
		return err
	}

	reference := *txn.PaymentReference
	var status payments.Status
	switch txn.Type {
	case models.TrxDeposit:
		status, err = gw.VerifyDeposit(ctx, reference)
	case models.TrxWithdrawal:
		status, err = gw.VerifyWithdrawal(ctx, reference)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	switch status {
	case payments.StatusSuccess:
		return w.Confirm(ctx, reference, true, "")
	case payments.StatusFailed:
		return w.Confirm(ctx, reference, false, "gateway reported failure")
	default:
		return nil
	}
}

// ReconcileReference is the webhook entrypoint: the payload only identifies
// the payment, the verdict always comes from the gateway's verify API.
func (w *WalletService) ReconcileReference(ctx context.Context, reference string) error {
	txn, err := w.ledger.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	return w.Reconcile(ctx, *txn)
}

func (w *WalletService) ResolveAccount(ctx context.Context, gatewayName, accountNumber, bankCode string) (string, error) {
	if !payments.ValidAccountNumber(accountNumber) {
		return "", fmt.Errorf("%w: account number must be 10 digits", game.ErrValidation)
	}
	if _, ok := payments.BankByCode(bankCode); !ok {
		return "", fmt.Errorf("%w: unknown bank code %s", game.ErrValidation, bankCode)
	}
	gw, err := payments.Get(gatewayName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", game.ErrValidation, err)
	}
	name, err := gw.ResolveBankAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return "", game.ErrUpstreamUnavailable
	}
	return name, nil
}

func (w *WalletService) Transactions(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	return w.ledger.Transactions(ctx, userID, limit)
}
