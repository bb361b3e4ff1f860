package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"luckyspin/database"
	"luckyspin/helpers"
	"luckyspin/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

type LoginRequest struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	ClientSeed   string `json:"client_seed"`
	ReferralCode string `json:"referral_code"`
}

// Login signs a user in, creating the account on first contact. New accounts
// start with one free game credit and a share code; a valid referral code
// links the signup to its referrer.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return helpers.JSONError(c, "VALID_EMAIL_REQUIRED")
	}

	var user models.User
	err := database.DB.Where("email = ?", email).First(&user).Error
	created := false
	switch {
	case err == nil:
		if !user.IsActive {
			return helpers.JSONError(c, "ACCOUNT_DISABLED")
		}
	case err == gorm.ErrRecordNotFound:
		clientSeed := strings.TrimSpace(req.ClientSeed)
		if clientSeed == "" {
			clientSeed = randomSeed()
		}
		if len(clientSeed) > 64 {
			clientSeed = clientSeed[:64]
		}
		user = models.User{
			UserID:       strings.ToLower(uuid.New().String()),
			Email:        email,
			DisplayName:  strings.TrimSpace(req.DisplayName),
			ReferralCode: models.NewReferralCode(),
			ClientSeed:   clientSeed,
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return helpers.JSONError(c, "FAILED_TO_CREATE_ACCOUNT")
		}
		created = true
	default:
		return helpers.JSONFromError(c, err)
	}

	if created && req.ReferralCode != "" {
		referralSvc.RegisterReferral(c.Context(), user.UserID, strings.ToUpper(strings.TrimSpace(req.ReferralCode)))
	}

	session := models.Session{
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_CREATE_SESSION")
	}

	return helpers.JSONSuccess(c, "Signed in", fiber.Map{
		"session_token": session.SID,
		"expires_at":    session.ExpiresAt,
		"new_account":   created,
		"user":          profileView(&user),
	})
}

// Profile returns the authenticated user's wallet and game state.
func Profile(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)
	return helpers.JSONSuccess(c, "Profile retrieved", profileView(&user))
}

// UpdateClientSeed lets the player rotate their half of the fairness inputs.
func UpdateClientSeed(c *fiber.Ctx) error {
	user := c.Locals("user").(models.User)

	var req struct {
		ClientSeed string `json:"client_seed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	seed := strings.TrimSpace(req.ClientSeed)
	if seed == "" || len(seed) > 64 {
		return helpers.JSONError(c, "CLIENT_SEED_MUST_BE_1_TO_64_CHARS")
	}

	if err := database.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Update("client_seed", seed).Error; err != nil {
		return helpers.JSONFromError(c, err)
	}
	return helpers.JSONSuccess(c, "Client seed updated", fiber.Map{"client_seed": seed})
}

func profileView(u *models.User) fiber.Map {
	return fiber.Map{
		"user_id":              u.UserID,
		"email":                u.Email,
		"display_name":         u.DisplayName,
		"balance":              u.Balance,
		"total_winnings":       u.TotalWinnings,
		"total_spins":          u.TotalSpins,
		"has_played_paid_game": u.HasPlayedPaidGame,
		"free_game_credits":    u.FreeGameCredits,
		"referral_code":        u.ReferralCode,
		"client_seed":          u.ClientSeed,
		"nonce":                u.Nonce,
	}
}

func randomSeed() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strings.ReplaceAll(uuid.New().String(), "-", "")
	}
	return hex.EncodeToString(buf)
}
