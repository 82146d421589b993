package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"gamecritic/db"
	"gamecritic/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentStartsUnapproved(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "reader@example.com", "user")
	review := createReview(t, "Doom Eternal")

	w := doJSON(r, http.MethodPost, "/reviews/"+review.Slug+"/comments", token, gin.H{
		"body": "Great review!",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.UserComment
	require.NoError(t, db.DB.First(&comment).Error)
	assert.False(t, comment.Approved)
}

func TestUpdateCommentResetsApproval(t *testing.T) {
	r := setupTest(t)
	author, token := createUser(t, "reader@example.com", "user")
	review := createReview(t, "Doom Eternal")

	comment := models.UserComment{
		ReviewID: review.ID,
		AuthorID: author.ID,
		Body:     "original",
		Approved: true,
	}
	require.NoError(t, db.DB.Create(&comment).Error)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/comments/%d", comment.ID), token, gin.H{
		"body": "edited",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.UserComment
	require.NoError(t, db.DB.First(&got, comment.ID).Error)
	assert.Equal(t, "edited", got.Body)
	assert.False(t, got.Approved)
}

func TestUpdateCommentIsAuthorOnly(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, otherToken := createUser(t, "other@example.com", "user")
	review := createReview(t, "Doom Eternal")

	comment := models.UserComment{ReviewID: review.ID, AuthorID: author.ID, Body: "mine"}
	require.NoError(t, db.DB.Create(&comment).Error)

	w := doJSON(r, http.MethodPut, fmt.Sprintf("/comments/%d", comment.ID), otherToken, gin.H{
		"body": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCanDeleteAnyComment(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")

	comment := models.UserComment{ReviewID: review.ID, AuthorID: author.ID, Body: "spam"}
	require.NoError(t, db.DB.Create(&comment).Error)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.DB.Model(&models.UserComment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUserReviewOnePerGame(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "reader@example.com", "user")
	review := createReview(t, "Doom Eternal")

	w := doJSON(r, http.MethodPost, "/reviews/"+review.Slug+"/user-reviews", token, gin.H{
		"rating":     5,
		"reviewText": "Rip and tear.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/reviews/"+review.Slug+"/user-reviews", token, gin.H{
		"rating": 3,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.DB.Model(&models.UserReview{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserReviewRatingBounds(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "reader@example.com", "user")
	review := createReview(t, "Doom Eternal")

	w := doJSON(r, http.MethodPost, "/reviews/"+review.Slug+"/user-reviews", token, gin.H{
		"rating": 6,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/reviews/"+review.Slug+"/user-reviews", token, gin.H{
		"rating": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfileIncludesPendingContent(t *testing.T) {
	r := setupTest(t)
	author, token := createUser(t, "reader@example.com", "user")
	review := createReview(t, "Doom Eternal")

	require.NoError(t, db.DB.Create(&models.UserComment{
		ReviewID: review.ID, AuthorID: author.ID, Body: "pending comment",
	}).Error)
	require.NoError(t, db.DB.Create(&models.UserReview{
		ReviewID: review.ID, AuthorID: author.ID, Rating: 4,
	}).Error)

	w := doJSON(r, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, body["comments"], 1)
	assert.Len(t, body["user_reviews"], 1)
}
