package controllers

import (
	"luckyspin/game"
	"luckyspin/helpers"
	"luckyspin/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminGetWheel returns the full segment configuration, inactive slots and
// the computed house edge included.
func AdminGetWheel(c *fiber.Ctx) error {
	segments := runtime.Segments()
	return helpers.JSONSuccess(c, "Wheel configuration retrieved", fiber.Map{
		"segments":   segments,
		"house_edge": game.HouseEdge(segments),
	})
}

type adminSegment struct {
	Position    int             `json:"position"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Probability decimal.Decimal `json:"probability"`
	Label       string          `json:"label"`
	Color       string          `json:"color"`
	Active      bool            `json:"active"`
}

// AdminUpdateWheel validates, persists, and hot-swaps a new wheel. An
// invalid configuration is rejected whole; spins keep running on the old
// wheel throughout.
func AdminUpdateWheel(c *fiber.Ctx) error {
	var req struct {
		Segments []adminSegment `json:"segments"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	segments := make([]game.Segment, len(req.Segments))
	for i, s := range req.Segments {
		segments[i] = game.Segment{
			Position:    s.Position,
			Multiplier:  s.Multiplier,
			Probability: s.Probability,
			Label:       s.Label,
			Color:       s.Color,
			Active:      s.Active,
		}
	}

	if err := store.SaveSegments(c.Context(), segments); err != nil {
		return helpers.JSONFromError(c, err)
	}
	if err := runtime.UpdateSegments(segments); err != nil {
		return helpers.JSONFromError(c, err)
	}

	logger.Log.Info("wheel configuration updated",
		zap.Int("segments", len(segments)),
		zap.String("house_edge", game.HouseEdge(segments).String()),
	)
	return helpers.JSONSuccess(c, "Wheel updated", fiber.Map{
		"house_edge": game.HouseEdge(segments),
	})
}

// AdminGetRules returns the live game rules and withdrawal limits.
func AdminGetRules(c *fiber.Ctx) error {
	return helpers.JSONSuccess(c, "Rules retrieved", fiber.Map{
		"settings":          runtime.Settings(),
		"withdrawal_limits": runtime.WithdrawalLimits(),
	})
}

type adminRulesRequest struct {
	MinStake          *int64 `json:"min_stake"`
	MaxStake          *int64 `json:"max_stake"`
	FreeSpinStake     *int64 `json:"free_spin_stake"`
	FreeSpinsPerUser  *int64 `json:"free_spins_per_user"`
	ReferralBonus     *int64 `json:"referral_bonus"`
	DailyBonusEnabled *bool  `json:"daily_bonus_enabled"`

	MinWithdrawal      *int64 `json:"min_withdrawal"`
	MaxWithdrawal      *int64 `json:"max_withdrawal"`
	DailyLimit         *int64 `json:"daily_limit"`
	MonthlyLimit       *int64 `json:"monthly_limit"`
	WithdrawalsEnabled *bool  `json:"withdrawals_enabled"`
}

// AdminUpdateRules applies a partial rules update: only the fields present in
// the request change. Persisted first, then hot-swapped.
func AdminUpdateRules(c *fiber.Ctx) error {
	var req adminRulesRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	settings := runtime.Settings()
	limits := runtime.WithdrawalLimits()

	applyInt := func(dst *int64, src *int64) {
		if src != nil {
			*dst = *src
		}
	}
	applyInt(&settings.MinStake, req.MinStake)
	applyInt(&settings.MaxStake, req.MaxStake)
	applyInt(&settings.FreeSpinStake, req.FreeSpinStake)
	applyInt(&settings.FreeSpinsPerUser, req.FreeSpinsPerUser)
	applyInt(&settings.ReferralBonus, req.ReferralBonus)
	if req.DailyBonusEnabled != nil {
		settings.DailyBonusEnabled = *req.DailyBonusEnabled
	}
	applyInt(&limits.MinWithdrawal, req.MinWithdrawal)
	applyInt(&limits.MaxWithdrawal, req.MaxWithdrawal)
	applyInt(&limits.DailyLimit, req.DailyLimit)
	applyInt(&limits.MonthlyLimit, req.MonthlyLimit)
	if req.WithdrawalsEnabled != nil {
		limits.Enabled = *req.WithdrawalsEnabled
	}

	if settings.MinStake <= 0 || settings.MaxStake < settings.MinStake {
		return helpers.JSONError(c, "STAKE_BOUNDS_INVALID")
	}
	if limits.MinWithdrawal <= 0 || limits.MaxWithdrawal < limits.MinWithdrawal {
		return helpers.JSONError(c, "WITHDRAWAL_BOUNDS_INVALID")
	}
	if limits.DailyLimit < limits.MaxWithdrawal || limits.MonthlyLimit < limits.DailyLimit {
		return helpers.JSONError(c, "WITHDRAWAL_LIMITS_INVALID")
	}

	if err := store.SaveRules(c.Context(), settings, limits); err != nil {
		return helpers.JSONFromError(c, err)
	}
	runtime.UpdateSettings(settings)
	runtime.UpdateWithdrawalLimits(limits)

	logger.Log.Info("game rules updated")
	return helpers.JSONSuccess(c, "Rules updated", fiber.Map{
		"settings":          settings,
		"withdrawal_limits": limits,
	})
}
