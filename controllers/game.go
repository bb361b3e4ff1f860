package controllers

import (
	"luckyspin/game"
	"luckyspin/helpers"
	"luckyspin/models"

	"github.com/gofiber/fiber/v2"
)

type SpinPlayRequest struct {
	Stake    int64 `json:"stake"`
	FreeSpin bool  `json:"free_spin"`
}

// Spin runs the full pipeline for one wheel spin and returns the settled
// result: outcome, win, and the player's post-spin wallet.
func Spin(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	var req SpinPlayRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Stake < 0 {
		return helpers.JSONError(c, "STAKE_MUST_NOT_BE_NEGATIVE")
	}

	res, err := spinSvc.Spin(c.Context(), game.SpinRequest{
		UserID:   user.UserID,
		Stake:    req.Stake,
		FreeSpin: req.FreeSpin,
	})
	if err != nil {
		return helpers.JSONFromError(c, err)
	}

	return helpers.JSONSuccess(c, "Spin settled", fiber.Map{
		"session_id": res.Session.SessionID,
		"outcome": fiber.Map{
			"position":   res.Outcome.Position,
			"multiplier": res.Outcome.Multiplier,
			"label":      res.Outcome.Label,
			"color":      res.Outcome.Color,
		},
		"stake":             res.Session.Stake,
		"win_amount":        res.WinAmount,
		"is_free_spin":      res.Session.IsFreeSpin,
		"balance":           res.State.Balance,
		"free_game_credits": res.State.FreeGameCredits,
		"nonce":             res.Session.Nonce,
		"roll_hash":         res.Session.RollHash,
	})
}

// Wheel exposes the active segment layout for the client to render.
func Wheel(c *fiber.Ctx) error {
	segments := runtime.Segments()
	out := make([]fiber.Map, 0, len(segments))
	for _, seg := range segments {
		if !seg.Active {
			continue
		}
		out = append(out, fiber.Map{
			"position":   seg.Position,
			"multiplier": seg.Multiplier,
			"label":      seg.Label,
			"color":      seg.Color,
		})
	}
	settings := runtime.Settings()
	return helpers.JSONSuccess(c, "Wheel retrieved", fiber.Map{
		"segments":  out,
		"min_stake": settings.MinStake,
		"max_stake": settings.MaxStake,
	})
}

// Fairness publishes the current seed-hash commitment plus the caller's own
// draw position.
func Fairness(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	return helpers.JSONSuccess(c, "Fairness state retrieved", fiber.Map{
		"server_seed_hash": spinSvc.SeedHash(),
		"client_seed":      user.ClientSeed,
		"next_nonce":       user.Nonce,
	})
}

type VerifySpinRequest struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      int64  `json:"nonce"`
}

// VerifySpin recomputes a past draw from a revealed server seed so anyone can
// audit an outcome. Public; needs no session.
func VerifySpin(c *fiber.Ctx) error {
	var req VerifySpinRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.ServerSeed == "" {
		return helpers.JSONError(c, "SERVER_SEED_REQUIRED")
	}

	draw, rollHash := game.VerifyDraw(req.ServerSeed, req.ClientSeed, req.Nonce)
	return helpers.JSONSuccess(c, "Draw recomputed", fiber.Map{
		"draw":      draw,
		"roll_hash": rollHash,
	})
}

// Sessions lists the caller's recent spins, newest first.
func Sessions(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	sessions, err := store.GameSessions(c.Context(), user.UserID, c.QueryInt("limit", 50))
	if err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Game history retrieved", sessions)
}
