package handlers

import (
	"net/http"

	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUsers lists all accounts (admins only)
func GetUsers(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}

	var users []models.User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// BanUser toggles the banned flag on an account. Banned users cannot
// sign in; their existing content stays in place.
func BanUser(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	var target models.User
	if err := db.DB.First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == admin.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot ban yourself"})
		return
	}

	target.IsBanned = !target.IsBanned
	if err := db.DB.Save(&target).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	utils.LogInfo("user ban toggled", map[string]interface{}{
		"user":   target.ID,
		"banned": target.IsBanned,
		"by":     admin.ID,
	})
	c.JSON(http.StatusOK, gin.H{"user": target})
}

// DeleteUser removes an account along with its comments and ratings
func DeleteUser(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	var target models.User
	if err := db.DB.First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == admin.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete yourself"})
		return
	}

	// Everything referencing the user goes in one transaction: authored
	// content, like rows, and reviewer attribution on catalog entries.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", target.ID).Delete(&models.UserComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", target.ID).Delete(&models.UserReview{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM review_likes WHERE user_id = ?", target.ID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).
			Where("reviewed_by_id = ?", target.ID).
			Update("reviewed_by_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	utils.LogInfo("user deleted", map[string]interface{}{
		"user": target.ID,
		"by":   admin.ID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
