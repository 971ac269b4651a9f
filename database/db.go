package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/config"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) {
	host := config.GetEnv("DB_HOST", cfg.PostgresConfig.Host)
	user := config.GetEnv("DB_USER", cfg.PostgresConfig.User)
	password := config.GetEnv("DB_PASSWORD", cfg.PostgresConfig.Password)
	dbname := config.GetEnv("DB_NAME", cfg.PostgresConfig.DBName)
	port := config.GetEnv("DB_PORT", cfg.PostgresConfig.Port)
	sslmode := config.GetEnv("DB_SSLMODE", cfg.PostgresConfig.SSLMode)

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connection established")

	logger.Info("Running migrations...")
	if err := Migrate(DB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Migrations completed")
}

// Migrate runs AutoMigrate for every model. Split out so tests can migrate
// their own connection.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.FoodEntry{},
		&models.FastingSession{},
		&models.WeightEntry{},
		&models.NutritionGoal{},
		&models.CoachLink{},
		&models.PermissionRequest{},
		&models.Invitation{},
		&models.Conversation{},
		&models.Message{},
		&models.CheckinTemplate{},
		&models.CheckinSubmission{},
		&models.Subscription{},
		&models.UsageRecord{},
	)
}
