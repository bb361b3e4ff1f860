package database

import (
	"fmt"
	"os"
	"strconv"

	"luckyspin/logger"
	"luckyspin/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	DB = db
	logger.Log.Info("connected to database")

	autoMigrate, _ := strconv.ParseBool(os.Getenv("DB_AUTO_MIGRATE"))
	if autoMigrate {
		if err := DB.AutoMigrate(
			&models.User{},
			&models.Session{},
			&models.Transaction{},
			&models.GameSession{},
			&models.WheelSegment{},
			&models.DailyBonusClaim{},
			&models.Referral{},
			&models.Rules{},
		); err != nil {
			logger.Log.Fatal("auto-migration failed", zap.Error(err))
		}
		logger.Log.Info("auto migration completed")
	}
}
