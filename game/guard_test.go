package game

import "testing"

func TestCheckSpin(t *testing.T) {
	settings := DefaultSettings()

	tests := []struct {
		name  string
		state FinancialState
		req   SpinRequest
		want  Reason // "" means allowed
	}{
		{"valid paid spin", FinancialState{Balance: 100}, SpinRequest{Stake: 50}, ""},
		{"stake below minimum", FinancialState{Balance: 100}, SpinRequest{Stake: 49}, ReasonStakeBelowMinimum},
		{"stake at minimum", FinancialState{Balance: 100}, SpinRequest{Stake: 50}, ""},
		{"stake at maximum", FinancialState{Balance: 1000}, SpinRequest{Stake: 500}, ""},
		{"stake above maximum", FinancialState{Balance: 1000}, SpinRequest{Stake: 501}, ReasonStakeAboveMaximum},
		{"cannot afford stake", FinancialState{Balance: 49}, SpinRequest{Stake: 50}, ReasonInsufficientBalance},
		{"free spin with credits", FinancialState{FreeGameCredits: 1}, SpinRequest{FreeSpin: true}, ""},
		{"free spin without credits", FinancialState{}, SpinRequest{FreeSpin: true}, ReasonNoFreeGameCredits},
		{"free spin with stake", FinancialState{FreeGameCredits: 1}, SpinRequest{FreeSpin: true, Stake: 50}, ReasonFreeSpinTakesStake},
		{"free spin ignores stake bounds", FinancialState{FreeGameCredits: 1, Balance: 0}, SpinRequest{FreeSpin: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denial := CheckSpin(tt.state, tt.req, settings)
			if tt.want == "" {
				if denial != nil {
					t.Fatalf("expected allow, got %s: %s", denial.Reason, denial.Message)
				}
				return
			}
			if denial == nil {
				t.Fatalf("expected denial %s, got allow", tt.want)
			}
			if denial.Reason != tt.want {
				t.Errorf("reason = %s, want %s", denial.Reason, tt.want)
			}
			if denial.Message == "" {
				t.Error("denial must carry a user-presentable message")
			}
		})
	}
}

func TestCheckWithdrawal(t *testing.T) {
	limits := DefaultWithdrawalLimits() // min 100, max 50000, daily 100000, monthly 1000000
	eligible := FinancialState{Balance: 60000, HasPlayedPaidGame: true}

	tests := []struct {
		name        string
		state       FinancialState
		amount      int64
		limits      WithdrawalLimits
		dailyUsed   int64
		monthlyUsed int64
		want        Reason
	}{
		{"valid", eligible, 5000, limits, 0, 0, ""},
		{"disabled", eligible, 5000, WithdrawalLimits{MinWithdrawal: 100, MaxWithdrawal: 50000, DailyLimit: 100000, MonthlyLimit: 1000000}, 0, 0, ReasonWithdrawalsDisabled},
		{"no paid play yet", FinancialState{Balance: 60000}, 5000, limits, 0, 0, ReasonPaidPlayRequired},
		{"below minimum", eligible, 99, limits, 0, 0, ReasonBelowMinWithdrawal},
		{"at minimum", eligible, 100, limits, 0, 0, ""},
		{"at maximum", eligible, 50000, limits, 0, 0, ""},
		{"above maximum", eligible, 60000, limits, 0, 0, ReasonAboveMaxWithdrawal},
		{"exceeds balance", FinancialState{Balance: 4000, HasPlayedPaidGame: true}, 5000, limits, 0, 0, ReasonInsufficientBalance},
		{"daily cap boundary ok", eligible, 40000, limits, 60000, 60000, ""},
		{"daily cap exceeded", eligible, 40001, limits, 60000, 0, ReasonDailyLimitExceeded},
		{"monthly cap exceeded", eligible, 40000, limits, 0, 970000, ReasonMonthlyLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			denial := CheckWithdrawal(tt.state, tt.amount, tt.limits, tt.dailyUsed, tt.monthlyUsed)
			if tt.want == "" {
				if denial != nil {
					t.Fatalf("expected allow, got %s: %s", denial.Reason, denial.Message)
				}
				return
			}
			if denial == nil {
				t.Fatalf("expected denial %s, got allow", tt.want)
			}
			if denial.Reason != tt.want {
				t.Errorf("reason = %s, want %s", denial.Reason, tt.want)
			}
		})
	}
}

func TestCheckWithdrawalOrdering(t *testing.T) {
	// A request that fails several checks must report the earliest one:
	// disabled wins over everything, paid-play over amount shape.
	limits := DefaultWithdrawalLimits()
	limits.Enabled = false
	state := FinancialState{Balance: 0}

	denial := CheckWithdrawal(state, 1, limits, 0, 0)
	if denial == nil || denial.Reason != ReasonWithdrawalsDisabled {
		t.Fatalf("disabled must short-circuit first, got %+v", denial)
	}

	limits.Enabled = true
	denial = CheckWithdrawal(state, 1, limits, 0, 0)
	if denial == nil || denial.Reason != ReasonPaidPlayRequired {
		t.Fatalf("paid-play check must run before amount checks, got %+v", denial)
	}
}
