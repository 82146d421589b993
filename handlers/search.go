package handlers

import (
	"net/http"
	"strings"
	"time"

	"gamecritic/db"
	"gamecritic/models"

	"github.com/gin-gonic/gin"
)

// SearchReviews matches free text against review titles, genre names,
// developer names and publisher names (case-insensitive substring).
func SearchReviews(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	start := time.Now()
	pattern := "%" + strings.ToLower(query) + "%"

	// Resolve matching IDs first so the preloads below stay simple.
	var ids []uint
	db.DB.Table("reviews").
		Joins("JOIN companies dev ON dev.id = reviews.developer_id").
		Joins("JOIN companies pub ON pub.id = reviews.publisher_id").
		Joins("LEFT JOIN review_genres rg ON rg.review_id = reviews.id").
		Joins("LEFT JOIN genres g ON g.id = rg.genre_id").
		Where("reviews.is_published = ?", true).
		Where("LOWER(reviews.title) LIKE ? OR LOWER(g.name) LIKE ? OR LOWER(dev.name) LIKE ? OR LOWER(pub.name) LIKE ?",
			pattern, pattern, pattern, pattern).
		Distinct().
		Pluck("reviews.id", &ids)

	var reviews []models.Review
	if len(ids) > 0 {
		db.DB.Where("id IN ?", ids).
			Preload("Publisher").
			Preload("Developer").
			Preload("Genres").
			Limit(50).
			Find(&reviews)
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       query,
		"results":     reviews,
		"total_found": len(reviews),
		"search_time": time.Since(start).String(),
	})
}
