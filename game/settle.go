package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinancialState is the slice of a user the settlement pipeline reads and
// writes. Version tags the snapshot for the ledger's conditional update.
type FinancialState struct {
	UserID            string
	Balance           int64
	TotalWinnings     int64
	TotalSpins        int64
	HasPlayedPaidGame bool
	FreeGameCredits   int64
	FreeSpinsUsed     int64
	ClientSeed        string
	Nonce             int64
	Version           int64
}

// SpinRequest is the ephemeral input to one resolution. Stake must be 0 for
// a free spin and within the configured bounds otherwise.
type SpinRequest struct {
	UserID   string
	Stake    int64
	FreeSpin bool
}

// LedgerEntry is one money leg of a settlement: the stake debit on a paid
// spin, the win credit when the player wins anything.
type LedgerEntry struct {
	Type          string // "stake" or "win"
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
}

// SessionRecord is the audit record of one spin; its SessionID also appears
// on both ledger entries so the settlement can be replayed end to end.
type SessionRecord struct {
	SessionID  string
	UserID     string
	Stake      int64
	WinAmount  int64
	Multiplier decimal.Decimal
	IsFreeSpin bool
	ClientSeed string
	Nonce      int64
	RollHash   string
}

type SettlementResult struct {
	State         FinancialState // fully applied post-state
	Outcome       Segment
	WinAmount     int64
	Session       SessionRecord
	Entries       []LedgerEntry
	FirstPaidPlay bool
}

// Settle applies one resolved spin to a financial state. Order matters:
// stake debit (with a defensive affordability re-check), free-credit
// consumption, win computation, counters. The result must be committed
// atomically by the ledger; Settle itself touches nothing shared.
//
// Free spins pay the multiplier against notionalStake rather than the zero
// stake, so a 2x free spin on a ₦50 notional credits ₦100.
func Settle(state FinancialState, req SpinRequest, outcome Segment, notionalStake int64, rollHash string) (SettlementResult, error) {
	if req.UserID != state.UserID {
		return SettlementResult{}, fmt.Errorf("%w: request user %q does not match state user %q", ErrValidation, req.UserID, state.UserID)
	}

	var entries []LedgerEntry
	effectiveStake := req.Stake
	firstPaid := false

	switch {
	case req.FreeSpin:
		if req.Stake != 0 {
			return SettlementResult{}, fmt.Errorf("%w: free spin carries stake %d", ErrValidation, req.Stake)
		}
		if state.FreeGameCredits <= 0 {
			return SettlementResult{}, fmt.Errorf("%w: no free game credits", ErrValidation)
		}
		state.FreeGameCredits--
		state.FreeSpinsUsed++
		effectiveStake = notionalStake
	default:
		if req.Stake <= 0 {
			return SettlementResult{}, fmt.Errorf("%w: paid spin stake must be positive", ErrValidation)
		}
		if state.Balance < req.Stake {
			return SettlementResult{}, ErrInsufficientFunds
		}
		before := state.Balance
		state.Balance -= req.Stake
		entries = append(entries, LedgerEntry{
			Type:          "stake",
			Amount:        req.Stake,
			BalanceBefore: before,
			BalanceAfter:  state.Balance,
		})
		if !state.HasPlayedPaidGame {
			state.HasPlayedPaidGame = true
			firstPaid = true
		}
	}

	winAmount := outcome.Multiplier.
		Mul(decimal.NewFromInt(effectiveStake)).
		Floor().
		IntPart()

	if winAmount > 0 {
		before := state.Balance
		state.Balance += winAmount
		entries = append(entries, LedgerEntry{
			Type:          "win",
			Amount:        winAmount,
			BalanceBefore: before,
			BalanceAfter:  state.Balance,
		})
	}

	state.TotalSpins++
	state.TotalWinnings += winAmount

	session := SessionRecord{
		SessionID:  uuid.New().String(),
		UserID:     state.UserID,
		Stake:      req.Stake,
		WinAmount:  winAmount,
		Multiplier: outcome.Multiplier,
		IsFreeSpin: req.FreeSpin,
		ClientSeed: state.ClientSeed,
		Nonce:      state.Nonce,
		RollHash:   rollHash,
	}
	state.Nonce++

	return SettlementResult{
		State:         state,
		Outcome:       outcome,
		WinAmount:     winAmount,
		Session:       session,
		Entries:       entries,
		FirstPaidPlay: firstPaid,
	}, nil
}
