package db

import (
	"log"
	"os"

	"gamecritic/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres dbname=gamecritic sslmode=disable"
	}

	var openErr error
	DB, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if openErr != nil {
		log.Fatal("failed to connect to the database:", openErr)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate:", err)
	}

	log.Println("Database connected and migrated")
}

// Migrate runs AutoMigrate for every model. Exposed separately so the
// populate/backfill commands and tests can migrate their own handles.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Genre{},
		&models.Review{},
		&models.UserComment{},
		&models.UserReview{},
	)
}
