package game

import "errors"

var (
	// ErrValidation covers malformed stakes and amounts before any money moves.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientFunds is the settlement engine's own re-check. The guard
	// runs first, so seeing this surfaced means a caller skipped it.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConfigurationInvalid marks a wheel whose active probabilities do not
	// sum to one. Such a wheel is rejected, never renormalized.
	ErrConfigurationInvalid = errors.New("wheel configuration invalid")

	// ErrConcurrencyConflict means the user's version moved between read and
	// write. Retryable.
	ErrConcurrencyConflict = errors.New("concurrent balance update")

	// ErrUpstreamUnavailable is surfaced after conflict retries are exhausted
	// or the ledger/payment gateway is down. The user can simply try again.
	ErrUpstreamUnavailable = errors.New("service busy, please try again")
)

// Reason identifies which guard check denied a request. Stable values so
// clients can branch on them.
type Reason string

const (
	ReasonStakeBelowMinimum   Reason = "STAKE_BELOW_MINIMUM"
	ReasonStakeAboveMaximum   Reason = "STAKE_ABOVE_MAXIMUM"
	ReasonFreeSpinTakesStake  Reason = "FREE_SPIN_TAKES_NO_STAKE"
	ReasonNoFreeGameCredits   Reason = "NO_FREE_GAME_CREDITS"
	ReasonInsufficientBalance Reason = "INSUFFICIENT_BALANCE"

	ReasonWithdrawalsDisabled   Reason = "WITHDRAWALS_DISABLED"
	ReasonPaidPlayRequired      Reason = "PAID_PLAY_REQUIRED"
	ReasonBelowMinWithdrawal    Reason = "BELOW_MIN_WITHDRAWAL"
	ReasonAboveMaxWithdrawal    Reason = "MAX_WITHDRAWAL_EXCEEDED"
	ReasonDailyLimitExceeded    Reason = "DAILY_LIMIT_EXCEEDED"
	ReasonMonthlyLimitExceeded  Reason = "MONTHLY_LIMIT_EXCEEDED"
	ReasonBonusAlreadyClaimed   Reason = "BONUS_ALREADY_CLAIMED"
	ReasonBonusDisabled         Reason = "BONUS_DISABLED"
	ReasonSpinRateLimitExceeded Reason = "SPIN_RATE_LIMIT_EXCEEDED"
	ReasonWithdrawRateLimited   Reason = "WITHDRAWAL_RATE_LIMIT_EXCEEDED"
)

// Denial is a terminal, user-presentable guard verdict. It is an error so it
// can travel through the usual return paths, but it is never retried.
type Denial struct {
	Reason  Reason
	Message string
}

func (d *Denial) Error() string { return d.Message }

func Deny(reason Reason, message string) *Denial {
	return &Denial{Reason: reason, Message: message}
}

// AsDenial unwraps a guard denial from an error chain, if there is one.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
