package handlers

import (
	"net/http"

	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
)

// CreateComment submits a comment on a review. New comments enter the
// moderation queue unapproved.
func CreateComment(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var review models.Review
	if err := db.DB.Where("slug = ? AND is_published = ?", c.Param("slug"), true).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	comment := models.UserComment{
		ReviewID: review.ID,
		AuthorID: user.ID,
		Body:     input.Body,
		Approved: false,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
		"message": "Comment submitted and awaiting approval",
	})
}

// UpdateComment edits the requester's own comment. An edit resets the
// comment to unapproved so it re-enters the moderation queue.
func UpdateComment(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var comment models.UserComment
	if err := db.DB.First(&comment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the comment author can edit"})
		return
	}

	var input models.CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	comment.Body = input.Body
	comment.Approved = false
	if err := db.DB.Save(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comment": comment,
		"message": "Comment updated and awaiting approval",
	})
}

// DeleteComment removes the requester's own comment; admins can remove
// any comment.
func DeleteComment(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var comment models.UserComment
	if err := db.DB.First(&comment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.AuthorID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the comment author can delete"})
		return
	}

	if err := db.DB.Delete(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// CreateUserReview submits a reader rating for a game. A second review
// from the same user for the same game is rejected; the pair is checked
// here rather than enforced with a unique constraint.
func CreateUserReview(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var input models.UserReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	var review models.Review
	if err := db.DB.Where("slug = ? AND is_published = ?", c.Param("slug"), true).First(&review).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var existing models.UserReview
	if err := db.DB.Where("review_id = ? AND author_id = ?", review.ID, user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this game"})
		return
	}

	userReview := models.UserReview{
		ReviewID:   review.ID,
		AuthorID:   user.ID,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
		Approved:   false,
	}
	if err := db.DB.Create(&userReview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_review": userReview,
		"message":     "Review submitted and awaiting approval",
	})
}

// UpdateUserReview edits the requester's own rating, resetting it to
// unapproved.
func UpdateUserReview(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var userReview models.UserReview
	if err := db.DB.First(&userReview, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if userReview.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the review author can edit"})
		return
	}

	var input models.UserReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	userReview.Rating = input.Rating
	userReview.ReviewText = input.ReviewText
	userReview.Approved = false
	if err := db.DB.Save(&userReview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_review": userReview,
		"message":     "Review updated and awaiting approval",
	})
}

// DeleteUserReview removes the requester's own rating; admins can
// remove any.
func DeleteUserReview(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var userReview models.UserReview
	if err := db.DB.First(&userReview, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if userReview.AuthorID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the review author can delete"})
		return
	}

	if err := db.DB.Delete(&userReview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// GetProfile returns the requester's own comments and ratings, pending
// ones included.
func GetProfile(c *gin.Context) {
	user := c.MustGet("user").(models.User)

	var comments []models.UserComment
	db.DB.Where("author_id = ?", user.ID).Order("created_at DESC").Find(&comments)

	var userReviews []models.UserReview
	db.DB.Where("author_id = ?", user.ID).Order("created_at DESC").Find(&userReviews)

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"comments":     comments,
		"user_reviews": userReviews,
	})
}
