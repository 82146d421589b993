package handlers

import (
	"net/http"

	"gamecritic/cache"
	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/monitoring"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns aggregate counts for the admin dashboard
// and refreshes the catalog gauges.
func GetDashboardStats(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	if cache.IsRedisAvailable() {
		if cached, err := cache.GetDashboardStats(); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var (
		totalReviews       int64
		publishedReviews   int64
		totalCompanies     int64
		totalGenres        int64
		totalUsers         int64
		pendingComments    int64
		pendingUserReviews int64
		totalViews         int64
	)

	db.DB.Model(&models.Review{}).Count(&totalReviews)
	db.DB.Model(&models.Review{}).Where("is_published = ?", true).Count(&publishedReviews)
	db.DB.Model(&models.Company{}).Count(&totalCompanies)
	db.DB.Model(&models.Genre{}).Count(&totalGenres)
	db.DB.Model(&models.User{}).Count(&totalUsers)
	db.DB.Model(&models.UserComment{}).Where("approved = ?", false).Count(&pendingComments)
	db.DB.Model(&models.UserReview{}).Where("approved = ?", false).Count(&pendingUserReviews)
	db.DB.Model(&models.Review{}).Select("COALESCE(SUM(views), 0)").Scan(&totalViews)

	monitoring.TotalReviews.Set(float64(totalReviews))
	monitoring.TotalCompanies.Set(float64(totalCompanies))

	var topViewed []models.Review
	db.DB.Where("is_published = ?", true).
		Order("views DESC").
		Limit(5).
		Find(&topViewed)

	stats := gin.H{
		"total_reviews":        totalReviews,
		"published_reviews":    publishedReviews,
		"total_companies":      totalCompanies,
		"total_genres":         totalGenres,
		"total_users":          totalUsers,
		"pending_comments":     pendingComments,
		"pending_user_reviews": pendingUserReviews,
		"total_views":          totalViews,
		"top_viewed":           topViewed,
	}

	if cache.IsRedisAvailable() {
		cache.SetDashboardStats(stats)
	}
	c.JSON(http.StatusOK, stats)
}
