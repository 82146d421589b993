package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gamecritic/cache"
	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultPageSize = 16

// parsePage extracts pagination parameters with sane bounds
func parsePage(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// orderForSort maps the supported sort keys to SQL ordering. Unknown
// values fall back to the default.
func orderForSort(sort, nameColumn, defaultOrder string) string {
	switch sort {
	case "az":
		return nameColumn + " ASC"
	case "za":
		return nameColumn + " DESC"
	case "newest":
		return "created_at DESC"
	case "oldest":
		return "created_at ASC"
	default:
		return defaultOrder
	}
}

// optionalUser loads the requester when a valid bearer token is present.
// Public routes use it so signed-in readers still see their own pending
// content.
func optionalUser(c *gin.Context) *models.User {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return nil
	}
	claims, err := parseToken(strings.TrimSpace(header[len("Bearer "):]))
	if err != nil {
		return nil
	}
	var user models.User
	if err := db.DB.First(&user, claims.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// GetReviews lists published reviews with pagination, sorting and an
// optional recency filter (?days=7 keeps reviews from the last week).
func GetReviews(c *gin.Context) {
	page, pageSize := parsePage(c)
	sort := c.DefaultQuery("sort", "newest")
	days, _ := strconv.Atoi(c.Query("days"))

	// Plain listings are cacheable; recency-filtered ones are not.
	cacheable := days == 0 && pageSize == defaultPageSize
	if cacheable && cache.IsRedisAvailable() {
		if cached, err := cache.GetReviewList(sort, page); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	query := db.DB.Model(&models.Review{}).
		Where("is_published = ?", true).
		Preload("Publisher").
		Preload("Developer").
		Preload("Genres")

	if days > 0 {
		query = query.Where("review_date >= ?", time.Now().AddDate(0, 0, -days))
	}

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Order(orderForSort(sort, "title", "created_at DESC")).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	response := gin.H{
		"reviews":   reviews,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	}

	if cacheable && cache.IsRedisAvailable() {
		cache.SetReviewList(sort, page, response)
	}

	c.JSON(http.StatusOK, response)
}

// GetFeaturedReviews lists featured, published reviews
func GetFeaturedReviews(c *gin.Context) {
	if cache.IsRedisAvailable() {
		var cached interface{}
		if err := cache.Get(cache.FeaturedKey, &cached); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var reviews []models.Review
	if err := db.DB.Where("is_featured = ? AND is_published = ?", true, true).
		Preload("Publisher").
		Preload("Developer").
		Preload("Genres").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch featured reviews"})
		return
	}

	response := gin.H{"reviews": reviews}
	if cache.IsRedisAvailable() {
		cache.Set(cache.FeaturedKey, response, 10*time.Minute)
	}
	c.JSON(http.StatusOK, response)
}

// GetReviewBySlug returns one review with its approved comments and user
// reviews. A signed-in reader additionally sees their own pending user
// review. Each hit increments the view counter.
func GetReviewBySlug(c *gin.Context) {
	slug := c.Param("slug")
	requester := optionalUser(c)

	// The anonymous payload carries no per-user fields, so it caches by
	// slug alone. Signed-in readers always hit the database.
	if requester == nil && cache.IsRedisAvailable() {
		if cached, err := cache.GetReviewDetail(slug); err == nil && cached != nil {
			db.DB.Model(&models.Review{}).
				Where("slug = ? AND is_published = ?", slug, true).
				UpdateColumn("views", gorm.Expr("views + ?", 1))
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var review models.Review
	if err := db.DB.Where("slug = ? AND is_published = ?", slug, true).
		Preload("Publisher").
		Preload("Developer").
		Preload("Genres").
		First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	db.DB.Model(&review).UpdateColumn("views", gorm.Expr("views + ?", 1))
	review.Views++

	var comments []models.UserComment
	db.DB.Where("review_id = ? AND approved = ?", review.ID, true).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments)

	userReviewQuery := db.DB.Where("review_id = ? AND approved = ?", review.ID, true)
	if requester != nil {
		// own pending review stays visible to its author
		userReviewQuery = db.DB.Where(
			"review_id = ? AND (approved = ? OR author_id = ?)",
			review.ID, true, requester.ID)
	}
	var userReviews []models.UserReview
	userReviewQuery.Preload("Author").Order("created_at DESC").Find(&userReviews)

	var likeCount int64
	db.DB.Table("review_likes").Where("review_id = ?", review.ID).Count(&likeCount)

	liked := false
	if requester != nil {
		var n int64
		db.DB.Table("review_likes").
			Where("review_id = ? AND user_id = ?", review.ID, requester.ID).
			Count(&n)
		liked = n > 0
	}

	response := gin.H{
		"review":       review,
		"comments":     comments,
		"user_reviews": userReviews,
		"likes":        likeCount,
		"liked":        liked,
	}

	if requester == nil && cache.IsRedisAvailable() {
		cache.SetReviewDetail(slug, response)
	}

	c.JSON(http.StatusOK, response)
}

// LikeReview toggles the requester's like on a review
func LikeReview(c *gin.Context) {
	slug := c.Param("slug")
	user := c.MustGet("user").(models.User)

	var review models.Review
	if err := db.DB.Where("slug = ? AND is_published = ?", slug, true).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var n int64
	db.DB.Table("review_likes").
		Where("review_id = ? AND user_id = ?", review.ID, user.ID).
		Count(&n)

	if n > 0 {
		if err := db.DB.Model(&review).Association("Likes").Delete(&user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove like"})
			return
		}
		cache.InvalidateReviewDetail(review.Slug)
		c.JSON(http.StatusOK, gin.H{"liked": false})
		return
	}

	if err := db.DB.Model(&review).Association("Likes").Append(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like review"})
		return
	}
	cache.InvalidateReviewDetail(review.Slug)
	c.JSON(http.StatusOK, gin.H{"liked": true})
}

// BulkDeleteInput - admin bulk review deletion
type BulkDeleteInput struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gte=1"`
}

// DeleteReviews removes catalog entries in bulk (admins only)
func DeleteReviews(c *gin.Context) {
	user := c.MustGet("user").(models.User)
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins only"})
		return
	}

	var input BulkDeleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	// Dependent rows go first; the schema carries foreign keys from
	// comments, user reviews and the join tables back to reviews.
	var deleted int64
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id IN ?", input.IDs).Delete(&models.UserComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id IN ?", input.IDs).Delete(&models.UserReview{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM review_genres WHERE review_id IN ?", input.IDs).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM review_likes WHERE review_id IN ?", input.IDs).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Review{}, input.IDs)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reviews"})
		return
	}

	if cache.IsRedisAvailable() {
		cache.InvalidateReviews()
		cache.InvalidateDashboardStats()
	}

	utils.LogInfo("reviews deleted", map[string]interface{}{
		"count": deleted,
		"by":    user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted %d review(s)", deleted)})
}
