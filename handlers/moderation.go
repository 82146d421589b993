package handlers

import (
	"fmt"
	"net/http"

	"gamecritic/cache"
	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/monitoring"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
)

// requireAdmin enforces the elevated-privilege gate on moderation routes
func requireAdmin(c *gin.Context) (models.User, bool) {
	user := c.MustGet("user").(models.User)
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admins only"})
		return user, false
	}
	return user, true
}

// GetPendingComments lists unapproved comments plus the ten most
// recently approved ones for reference.
func GetPendingComments(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var pending []models.UserComment
	db.DB.Where("approved = ?", false).
		Preload("Author").
		Order("created_at DESC").
		Find(&pending)

	var recentApproved []models.UserComment
	db.DB.Where("approved = ?", true).
		Preload("Author").
		Order("created_at DESC").
		Limit(10).
		Find(&recentApproved)

	c.JSON(http.StatusOK, gin.H{
		"pending":          pending,
		"recent_approved":  recentApproved,
		"total_unapproved": len(pending),
	})
}

// ModerateComments applies a batch approve or reject over comment IDs.
// Approve flips approved=true on exactly the given rows; reject deletes
// them. Those are the only transitions out of pending.
func ModerateComments(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	var input models.ModerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var result int64
	switch input.Action {
	case "approve":
		res := db.DB.Model(&models.UserComment{}).
			Where("id IN ?", input.IDs).
			Update("approved", true)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve comments"})
			return
		}
		result = res.RowsAffected
	case "reject":
		res := db.DB.Delete(&models.UserComment{}, input.IDs)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comments"})
			return
		}
		result = res.RowsAffected
	}

	monitoring.ModerationActions.WithLabelValues("comment", input.Action).Add(float64(result))
	if cache.IsRedisAvailable() {
		cache.InvalidateReviews()
		cache.InvalidateDashboardStats()
	}

	utils.LogInfo("comments moderated", map[string]interface{}{
		"action": input.Action,
		"count":  result,
		"by":     user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%sed %d comment(s)", input.Action, result)})
}

// GetPendingUserReviews lists unapproved user reviews plus recent
// approvals.
func GetPendingUserReviews(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var pending []models.UserReview
	db.DB.Where("approved = ?", false).
		Preload("Author").
		Order("created_at DESC").
		Find(&pending)

	var recentApproved []models.UserReview
	db.DB.Where("approved = ?", true).
		Preload("Author").
		Order("created_at DESC").
		Limit(10).
		Find(&recentApproved)

	c.JSON(http.StatusOK, gin.H{
		"pending":          pending,
		"recent_approved":  recentApproved,
		"total_unapproved": len(pending),
	})
}

// ModerateUserReviews applies a batch approve or reject over user
// review IDs.
func ModerateUserReviews(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	var input models.ModerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var result int64
	switch input.Action {
	case "approve":
		res := db.DB.Model(&models.UserReview{}).
			Where("id IN ?", input.IDs).
			Update("approved", true)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve reviews"})
			return
		}
		result = res.RowsAffected
	case "reject":
		res := db.DB.Delete(&models.UserReview{}, input.IDs)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reviews"})
			return
		}
		result = res.RowsAffected
	}

	monitoring.ModerationActions.WithLabelValues("user_review", input.Action).Add(float64(result))
	if cache.IsRedisAvailable() {
		cache.InvalidateReviews()
		cache.InvalidateDashboardStats()
	}

	utils.LogInfo("user reviews moderated", map[string]interface{}{
		"action": input.Action,
		"count":  result,
		"by":     user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%sed %d review(s)", input.Action, result)})
}
