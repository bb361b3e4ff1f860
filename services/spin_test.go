package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"luckyspin/config"
	"luckyspin/game"
	"luckyspin/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	m.Run()
}

// fakeLedger keeps a single user's state in memory and can be told to fail
// the next N commits with a version conflict.
type fakeLedger struct {
	state     game.FinancialState
	conflicts int
	getCalls  int
	applied   []game.SettlementResult
}

func (f *fakeLedger) GetState(ctx context.Context, userID string) (game.FinancialState, error) {
	f.getCalls++
	return f.state, nil
}

func (f *fakeLedger) ApplySettlement(ctx context.Context, res game.SettlementResult) error {
	if f.conflicts > 0 {
		f.conflicts--
		f.state.Version++ // someone else won the race
		return game.ErrConcurrencyConflict
	}
	f.state = res.State
	f.applied = append(f.applied, res)
	return nil
}

type fakeNotifier struct {
	calls []string
}

func (f *fakeNotifier) OnFirstPaidPlay(ctx context.Context, userID string) {
	f.calls = append(f.calls, userID)
}

type fakeLimiter struct {
	allowed bool
}

func (f *fakeLimiter) Allow(ctx context.Context, userID, action string, limit int64, window time.Duration) (bool, error) {
	return f.allowed, nil
}

// singleSegmentWheel makes the outcome deterministic regardless of the draw.
func singleSegmentWheel(multiplier float64) []game.Segment {
	return []game.Segment{{
		Position:    0,
		Multiplier:  decimal.NewFromFloat(multiplier),
		Probability: decimal.NewFromInt(1),
		Label:       "only",
		Active:      true,
	}}
}

func newTestRuntime(t *testing.T, segments []game.Segment) *config.Runtime {
	t.Helper()
	rt, err := config.NewRuntime(game.DefaultSettings(), game.DefaultWithdrawalLimits(), segments)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

func newTestRoller(t *testing.T) *game.Roller {
	t.Helper()
	return game.NewRollerFromSeed("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
}

func TestSpinPaidSettlesAndAdvancesNonce(t *testing.T) {
	ledger := &fakeLedger{state: game.FinancialState{
		UserID: "u1", Balance: 100, ClientSeed: "seed", Nonce: 7, Version: 3,
	}}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(2)), newTestRoller(t), nil, nil)

	res, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", Stake: 50})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if res.WinAmount != 100 {
		t.Errorf("win = %d, want 100", res.WinAmount)
	}
	if ledger.state.Balance != 150 {
		t.Errorf("balance = %d, want 150", ledger.state.Balance)
	}
	if ledger.state.Nonce != 8 {
		t.Errorf("nonce = %d, want 8", ledger.state.Nonce)
	}
	if res.Session.Nonce != 7 {
		t.Errorf("session nonce = %d, want 7", res.Session.Nonce)
	}
	if len(ledger.applied) != 1 {
		t.Fatalf("applied %d settlements, want 1", len(ledger.applied))
	}
}

func TestSpinRetriesOnConflictThenSucceeds(t *testing.T) {
	ledger := &fakeLedger{
		state:     game.FinancialState{UserID: "u1", Balance: 500, ClientSeed: "s", Version: 1},
		conflicts: 2,
	}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(0)), newTestRoller(t), nil, nil)

	if _, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", Stake: 50}); err != nil {
		t.Fatalf("Spin: %v", err)
	}
	if ledger.getCalls != 3 {
		t.Errorf("getCalls = %d, want 3 (fresh state per attempt)", ledger.getCalls)
	}
	if ledger.state.Balance != 450 {
		t.Errorf("balance = %d, want 450", ledger.state.Balance)
	}
}

func TestSpinConflictsExhausted(t *testing.T) {
	ledger := &fakeLedger{
		state:     game.FinancialState{UserID: "u1", Balance: 500, ClientSeed: "s"},
		conflicts: 100,
	}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(0)), newTestRoller(t), nil, nil)

	_, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", Stake: 50})
	if !errors.Is(err, game.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if len(ledger.applied) != 0 {
		t.Errorf("applied %d settlements, want 0", len(ledger.applied))
	}
}

func TestSpinRateLimited(t *testing.T) {
	ledger := &fakeLedger{state: game.FinancialState{UserID: "u1", Balance: 500}}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(0)), newTestRoller(t), &fakeLimiter{allowed: false}, nil)

	_, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", Stake: 50})
	denial, ok := game.AsDenial(err)
	if !ok {
		t.Fatalf("err = %v, want denial", err)
	}
	if denial.Reason != game.ReasonSpinRateLimitExceeded {
		t.Errorf("reason = %s, want SPIN_RATE_LIMIT_EXCEEDED", denial.Reason)
	}
	if ledger.getCalls != 0 {
		t.Errorf("ledger touched %d times before rate limit", ledger.getCalls)
	}
}

func TestSpinFirstPaidPlayNotifiesOnce(t *testing.T) {
	ledger := &fakeLedger{state: game.FinancialState{
		UserID: "u1", Balance: 500, ClientSeed: "s",
	}}
	notifier := &fakeNotifier{}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(0)), newTestRoller(t), nil, notifier)

	ctx := context.Background()
	if _, err := svc.Spin(ctx, game.SpinRequest{UserID: "u1", Stake: 50}); err != nil {
		t.Fatalf("first spin: %v", err)
	}
	if _, err := svc.Spin(ctx, game.SpinRequest{UserID: "u1", Stake: 50}); err != nil {
		t.Fatalf("second spin: %v", err)
	}
	if len(notifier.calls) != 1 || notifier.calls[0] != "u1" {
		t.Errorf("notifier calls = %v, want exactly one for u1", notifier.calls)
	}
}

func TestSpinFreeWithoutCreditsDenied(t *testing.T) {
	ledger := &fakeLedger{state: game.FinancialState{UserID: "u1", Balance: 500}}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(2)), newTestRoller(t), nil, nil)

	_, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", FreeSpin: true})
	denial, ok := game.AsDenial(err)
	if !ok {
		t.Fatalf("err = %v, want denial", err)
	}
	if denial.Reason != game.ReasonNoFreeGameCredits {
		t.Errorf("reason = %s, want NO_FREE_GAME_CREDITS", denial.Reason)
	}
}

func TestSpinFreeUsesNotionalStake(t *testing.T) {
	ledger := &fakeLedger{state: game.FinancialState{
		UserID: "u1", Balance: 0, FreeGameCredits: 1, ClientSeed: "s",
	}}
	svc := NewSpinService(ledger, newTestRuntime(t, singleSegmentWheel(2)), newTestRoller(t), nil, nil)

	res, err := svc.Spin(context.Background(), game.SpinRequest{UserID: "u1", FreeSpin: true})
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	// 2x on the ₦50 notional stake with no debit.
	if res.WinAmount != 100 {
		t.Errorf("win = %d, want 100", res.WinAmount)
	}
	if ledger.state.Balance != 100 {
		t.Errorf("balance = %d, want 100", ledger.state.Balance)
	}
	if ledger.state.FreeGameCredits != 0 {
		t.Errorf("free credits = %d, want 0", ledger.state.FreeGameCredits)
	}
}
