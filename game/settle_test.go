package game

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func seg(mult float64) Segment {
	return Segment{Multiplier: decimal.NewFromFloat(mult), Active: true}
}

func baseState() FinancialState {
	return FinancialState{
		UserID:          "u1",
		Balance:         100,
		FreeGameCredits: 1,
		ClientSeed:      "seed",
		Nonce:           7,
		Version:         3,
	}
}

func TestSettlePaidWin(t *testing.T) {
	// balance=100, stake=50, 2x -> win 100, new balance 150
	res, err := Settle(baseState(), SpinRequest{UserID: "u1", Stake: 50}, seg(2), 50, "hash")
	if err != nil {
		t.Fatal(err)
	}
	if res.WinAmount != 100 {
		t.Errorf("win = %d, want 100", res.WinAmount)
	}
	if res.State.Balance != 150 {
		t.Errorf("balance = %d, want 150", res.State.Balance)
	}
	if res.State.TotalSpins != 1 || res.State.TotalWinnings != 100 {
		t.Errorf("counters = (%d spins, %d winnings), want (1, 100)", res.State.TotalSpins, res.State.TotalWinnings)
	}
	if !res.State.HasPlayedPaidGame || !res.FirstPaidPlay {
		t.Error("first paid spin must flip has-played-paid-game")
	}
	if len(res.Entries) != 2 {
		t.Fatalf("want stake + win entries, got %d", len(res.Entries))
	}
	if res.Entries[0].Type != "stake" || res.Entries[0].BalanceBefore != 100 || res.Entries[0].BalanceAfter != 50 {
		t.Errorf("stake entry wrong: %+v", res.Entries[0])
	}
	if res.Entries[1].Type != "win" || res.Entries[1].BalanceBefore != 50 || res.Entries[1].BalanceAfter != 150 {
		t.Errorf("win entry wrong: %+v", res.Entries[1])
	}
	if res.Session.Nonce != 7 || res.State.Nonce != 8 {
		t.Errorf("nonce: session %d state %d, want 7 and 8", res.Session.Nonce, res.State.Nonce)
	}
}

func TestSettlePaidLoss(t *testing.T) {
	res, err := Settle(baseState(), SpinRequest{UserID: "u1", Stake: 50}, seg(0), 50, "h")
	if err != nil {
		t.Fatal(err)
	}
	if res.WinAmount != 0 || res.State.Balance != 50 {
		t.Errorf("loss: win=%d balance=%d, want 0 and 50", res.WinAmount, res.State.Balance)
	}
	if len(res.Entries) != 1 {
		t.Errorf("loss produces only the stake entry, got %d entries", len(res.Entries))
	}
	if res.State.TotalWinnings != 0 || res.State.TotalSpins != 1 {
		t.Errorf("counters wrong: %+v", res.State)
	}
}

func TestSettleWinAmountFloors(t *testing.T) {
	// 0.5x on 75 = 37.5 -> 37
	res, err := Settle(baseState(), SpinRequest{UserID: "u1", Stake: 75}, seg(0.5), 50, "h")
	if err != nil {
		t.Fatal(err)
	}
	if res.WinAmount != 37 {
		t.Errorf("win = %d, want floor(37.5) = 37", res.WinAmount)
	}
}

func TestSettleFreeSpin(t *testing.T) {
	// free spin at 0x: credits consumed, balance untouched, spins counted
	res, err := Settle(baseState(), SpinRequest{UserID: "u1", FreeSpin: true}, seg(0), 50, "h")
	if err != nil {
		t.Fatal(err)
	}
	if res.State.FreeGameCredits != 0 || res.State.FreeSpinsUsed != 1 {
		t.Errorf("credits=%d used=%d, want 0 and 1", res.State.FreeGameCredits, res.State.FreeSpinsUsed)
	}
	if res.State.Balance != 100 {
		t.Errorf("free spin loss must leave balance at 100, got %d", res.State.Balance)
	}
	if res.State.TotalSpins != 1 {
		t.Errorf("total spins = %d, want 1", res.State.TotalSpins)
	}
	if res.State.HasPlayedPaidGame || res.FirstPaidPlay {
		t.Error("free spin must not flip has-played-paid-game")
	}
	if len(res.Entries) != 0 {
		t.Errorf("free spin loss writes no ledger entries, got %d", len(res.Entries))
	}
}

func TestSettleFreeSpinPaysNotionalStake(t *testing.T) {
	res, err := Settle(baseState(), SpinRequest{UserID: "u1", FreeSpin: true}, seg(2), 50, "h")
	if err != nil {
		t.Fatal(err)
	}
	if res.WinAmount != 100 {
		t.Errorf("2x free spin on ₦50 notional = %d, want 100", res.WinAmount)
	}
	if res.State.Balance != 200 {
		t.Errorf("balance = %d, want 200", res.State.Balance)
	}
	if len(res.Entries) != 1 || res.Entries[0].Type != "win" {
		t.Errorf("free spin win writes exactly the win entry, got %+v", res.Entries)
	}
}

func TestSettleFreeSpinWithStakeRejected(t *testing.T) {
	_, err := Settle(baseState(), SpinRequest{UserID: "u1", Stake: 50, FreeSpin: true}, seg(1), 50, "h")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestSettleInsufficientFunds(t *testing.T) {
	state := baseState()
	state.Balance = 40
	_, err := Settle(state, SpinRequest{UserID: "u1", Stake: 50}, seg(2), 50, "h")
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestSettlePaidFlagMonotonic(t *testing.T) {
	state := baseState()
	state.HasPlayedPaidGame = true
	res, err := Settle(state, SpinRequest{UserID: "u1", Stake: 50}, seg(0), 50, "h")
	if err != nil {
		t.Fatal(err)
	}
	if !res.State.HasPlayedPaidGame {
		t.Error("has-played-paid-game must never revert")
	}
	if res.FirstPaidPlay {
		t.Error("second paid spin must not report first paid play")
	}
}

func TestSettleBalanceNeverNegative(t *testing.T) {
	for stake := int64(1); stake <= 200; stake += 7 {
		state := baseState()
		res, err := Settle(state, SpinRequest{UserID: "u1", Stake: stake}, seg(0), 50, "h")
		if stake > state.Balance {
			if !errors.Is(err, ErrInsufficientFunds) {
				t.Fatalf("stake %d: want ErrInsufficientFunds, got %v", stake, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("stake %d: %v", stake, err)
		}
		if res.State.Balance < 0 {
			t.Fatalf("stake %d drove balance negative: %d", stake, res.State.Balance)
		}
	}
}
