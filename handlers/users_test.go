package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gamecritic/db"
	"gamecritic/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserClearsLikesAndAttribution(t *testing.T) {
	r := setupTest(t)
	target, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")

	require.NoError(t, db.DB.Model(&review).Association("Likes").Append(&target))
	require.NoError(t, db.DB.Model(&review).Update("reviewed_by_id", target.ID).Error)
	require.NoError(t, db.DB.Create(&models.UserComment{
		ReviewID: review.ID, AuthorID: target.ID, Body: "a comment",
	}).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", target.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users int64
	db.DB.Model(&models.User{}).Where("id = ?", target.ID).Count(&users)
	assert.Equal(t, int64(0), users)

	var likes, comments int64
	db.DB.Table("review_likes").Count(&likes)
	db.DB.Model(&models.UserComment{}).Count(&comments)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), comments)

	// the catalog entry survives with its attribution cleared
	var got models.Review
	require.NoError(t, db.DB.First(&got, review.ID).Error)
	assert.Nil(t, got.ReviewedByID)
}

func TestDeleteUserCannotTargetSelf(t *testing.T) {
	r := setupTest(t)
	admin, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", admin.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
