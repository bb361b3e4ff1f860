package routes

import (
	"luckyspin/controllers"
	"luckyspin/middlewares"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, adminToken string) {
	app.Post("/auth/login", controllers.Login)
	app.Post("/game/verify", controllers.VerifySpin)
	app.Post("/webhooks/:gateway", controllers.PaymentWebhook)

	game := app.Group("/game", middlewares.UserAuthMiddleware)
	game.Post("/spin", controllers.Spin)
	game.Get("/wheel", controllers.Wheel)
	game.Get("/fairness", controllers.Fairness)
	game.Get("/sessions", controllers.Sessions)

	user := app.Group("/user", middlewares.UserAuthMiddleware)
	user.Get("/profile", controllers.Profile)
	user.Post("/client-seed", controllers.UpdateClientSeed)

	wallet := app.Group("/wallet", middlewares.UserAuthMiddleware)
	wallet.Get("/banks", controllers.Banks)
	wallet.Post("/resolve-account", controllers.ResolveAccount)
	wallet.Post("/deposit", controllers.Deposit)
	wallet.Post("/withdraw", controllers.Withdraw)
	wallet.Get("/transactions", controllers.Transactions)

	bonus := app.Group("/bonus", middlewares.UserAuthMiddleware)
	bonus.Post("/claim", controllers.ClaimBonus)
	bonus.Get("/status", controllers.BonusStatus)
	bonus.Get("/history", controllers.BonusHistory)

	referral := app.Group("/referrals", middlewares.UserAuthMiddleware)
	referral.Get("/", controllers.Referrals)

	admin := app.Group("/admin", middlewares.AdminAuth(adminToken))
	admin.Get("/wheel", controllers.AdminGetWheel)
	admin.Put("/wheel", controllers.AdminUpdateWheel)
	admin.Get("/rules", controllers.AdminGetRules)
	admin.Put("/rules", controllers.AdminUpdateRules)
}
