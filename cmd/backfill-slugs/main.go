package main

import (
	"fmt"
	"log"

	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/utils"

	"github.com/joho/godotenv"
)

// Backfills missing slugs on reviews and companies. Rows created before
// slugs existed, or through raw inserts, get one derived from their
// title or name.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	utils.InitLogger()
	db.InitDB()

	var reviews []models.Review
	db.DB.Where("slug = '' OR slug IS NULL").Find(&reviews)
	for _, r := range reviews {
		slug := utils.Slugify(r.Title)
		if slug == "" {
			slug = fmt.Sprintf("review-%d", r.ID)
		}
		if err := db.DB.Model(&r).Update("slug", uniqueSlug("reviews", slug, r.ID)).Error; err != nil {
			log.Printf("review %d: %v", r.ID, err)
		}
	}

	var companies []models.Company
	db.DB.Where("slug = '' OR slug IS NULL").Find(&companies)
	for _, co := range companies {
		slug := utils.Slugify(co.Name)
		if slug == "" {
			slug = fmt.Sprintf("company-%d", co.ID)
		}
		if err := db.DB.Model(&co).Update("slug", uniqueSlug("companies", slug, co.ID)).Error; err != nil {
			log.Printf("company %d: %v", co.ID, err)
		}
	}

	fmt.Printf("Backfilled %d review slug(s), %d company slug(s)\n", len(reviews), len(companies))
}

// uniqueSlug appends the row ID when the derived slug is already taken
// by another row.
func uniqueSlug(table, slug string, id uint) string {
	var n int64
	db.DB.Table(table).Where("slug = ? AND id != ?", slug, id).Count(&n)
	if n == 0 {
		return slug
	}
	return fmt.Sprintf("%s-%d", slug, id)
}
