package game

import "fmt"

// Settings are the admin-configurable game rules, loaded once and swapped
// atomically on update. No per-call key lookups.
type Settings struct {
	MinStake          int64
	MaxStake          int64
	FreeSpinStake     int64 // notional stake a free spin pays against
	FreeSpinsPerUser  int64
	ReferralBonus     int64
	DailyBonusEnabled bool
}

// WithdrawalLimits mirror the admin withdrawal configuration. Hot-reloadable.
type WithdrawalLimits struct {
	MinWithdrawal int64
	MaxWithdrawal int64
	DailyLimit    int64
	MonthlyLimit  int64
	Enabled       bool
}

// Launch defaults, in whole Naira.
func DefaultSettings() Settings {
	return Settings{
		MinStake:          50,
		MaxStake:          500,
		FreeSpinStake:     50,
		FreeSpinsPerUser:  1,
		ReferralBonus:     25,
		DailyBonusEnabled: true,
	}
}

func DefaultWithdrawalLimits() WithdrawalLimits {
	return WithdrawalLimits{
		MinWithdrawal: 100,
		MaxWithdrawal: 50000,
		DailyLimit:    100000,
		MonthlyLimit:  1000000,
		Enabled:       true,
	}
}

// CheckSpin validates a spin request before any money moves. Checks run in a
// fixed order and stop at the first failure, so the denial a user sees is
// deterministic.
func CheckSpin(state FinancialState, req SpinRequest, settings Settings) *Denial {
	if req.FreeSpin {
		if req.Stake != 0 {
			return Deny(ReasonFreeSpinTakesStake, "Free spins take no stake")
		}
		if state.FreeGameCredits <= 0 {
			return Deny(ReasonNoFreeGameCredits, "No free game credits left")
		}
		return nil
	}
	if req.Stake < settings.MinStake {
		return Deny(ReasonStakeBelowMinimum, fmt.Sprintf("Minimum stake is ₦%d", settings.MinStake))
	}
	if req.Stake > settings.MaxStake {
		return Deny(ReasonStakeAboveMaximum, fmt.Sprintf("Maximum stake is ₦%d", settings.MaxStake))
	}
	if state.Balance < req.Stake {
		return Deny(ReasonInsufficientBalance, "Insufficient balance for this stake")
	}
	return nil
}

// CheckWithdrawal validates a withdrawal against the configured limits and
// the user's aggregated daily/monthly totals. Same ordering contract as
// CheckSpin: first failing check wins.
func CheckWithdrawal(state FinancialState, amount int64, limits WithdrawalLimits, dailyUsed, monthlyUsed int64) *Denial {
	if !limits.Enabled {
		return Deny(ReasonWithdrawalsDisabled, "Withdrawals are temporarily disabled")
	}
	if !state.HasPlayedPaidGame {
		return Deny(ReasonPaidPlayRequired, "Play a paid game before withdrawing")
	}
	if amount < limits.MinWithdrawal {
		return Deny(ReasonBelowMinWithdrawal, fmt.Sprintf("Minimum withdrawal is ₦%d", limits.MinWithdrawal))
	}
	if amount > limits.MaxWithdrawal {
		return Deny(ReasonAboveMaxWithdrawal, fmt.Sprintf("Maximum withdrawal is ₦%d", limits.MaxWithdrawal))
	}
	if amount > state.Balance {
		return Deny(ReasonInsufficientBalance, "Withdrawal exceeds your balance")
	}
	if dailyUsed+amount > limits.DailyLimit {
		remaining := limits.DailyLimit - dailyUsed
		if remaining < 0 {
			remaining = 0
		}
		return Deny(ReasonDailyLimitExceeded, fmt.Sprintf("Daily limit exceeded, ₦%d remaining today", remaining))
	}
	if monthlyUsed+amount > limits.MonthlyLimit {
		remaining := limits.MonthlyLimit - monthlyUsed
		if remaining < 0 {
			remaining = 0
		}
		return Deny(ReasonMonthlyLimitExceeded, fmt.Sprintf("Monthly limit exceeded, ₦%d remaining this month", remaining))
	}
	return nil
}
