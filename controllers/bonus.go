package controllers

import (
	"luckyspin/helpers"
	"luckyspin/models"

	"github.com/gofiber/fiber/v2"
)

// ClaimBonus claims today's rung of the 7-day bonus ladder.
func ClaimBonus(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	res, err := bonusSvc.Claim(c.Context(), user.UserID)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Bonus claimed", res)
}

// BonusStatus reports the caller's streak and what tomorrow pays.
func BonusStatus(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	status, err := bonusSvc.Status(c.Context(), user.UserID)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Bonus status retrieved", status)
}

// BonusHistory lists the caller's past claims.
func BonusHistory(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	claims, err := bonusSvc.History(c.Context(), user.UserID, c.QueryInt("limit", 30))
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Bonus history retrieved", claims)
}

// Referrals lists the caller's referred users and earnings.
func Referrals(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	referrals, stats, err := referralSvc.List(c.Context(), user.UserID)
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Referrals retrieved", fiber.Map{
		"referral_code": user.ReferralCode,
		"stats":         stats,
		"referrals":     referrals,
	})
}
