package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"luckyspin/config"
	"luckyspin/controllers"
	"luckyspin/database"
	"luckyspin/game"
	"luckyspin/jobs"
	"luckyspin/ledger"
	"luckyspin/logger"
	"luckyspin/routes"
	"luckyspin/services"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger.Init()
	defer logger.Log.Sync()

	cfg := config.Load()
	database.Connect()
	store := ledger.NewStore(database.DB)

	ctx := context.Background()
	settings, limits, err := store.LoadRules(ctx)
	if err != nil {
		logger.Log.Fatal("loading game rules failed", zap.Error(err))
	}
	segments, err := store.LoadSegments(ctx)
	if err != nil {
		logger.Log.Fatal("loading wheel configuration failed", zap.Error(err))
	}
	runtime, err := config.NewRuntime(settings, limits, segments)
	if err != nil {
		logger.Log.Fatal("runtime configuration invalid", zap.Error(err))
	}

	var roller *game.Roller
	if cfg.ServerSeed != "" {
		roller = game.NewRollerFromSeed(cfg.ServerSeed)
	} else {
		roller = game.NewRoller()
	}
	logger.Log.Info("fairness commitment published", zap.String("seed_hash", roller.SeedHash()))

	cache, err := services.NewCache(cfg)
	if err != nil {
		logger.Log.Fatal("redis unavailable", zap.Error(err))
	}

	referrals := services.NewReferralService(store, runtime)
	spin := services.NewSpinService(store, runtime, roller, cache, referrals)
	wallet := services.NewWalletService(store, runtime, cache, cache)
	bonus := services.NewBonusService(store, runtime)

	controllers.Init(spin, wallet, bonus, referrals, store, runtime)

	app := fiber.New(fiber.Config{AppName: "luckyspin"})
	routes.Setup(app, cfg.AdminToken)
	jobs.StartReconciler(store, wallet)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	go func() {
		logger.Log.Info("server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Log.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Log.Info("server exited cleanly")
}
