package handlers

import (
	"net/http"
	"testing"

	"gamecritic/db"
	"gamecritic/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedComments(t *testing.T, review models.Review, author models.User, n int) []models.UserComment {
	t.Helper()
	comments := make([]models.UserComment, 0, n)
	for i := 0; i < n; i++ {
		c := models.UserComment{
			ReviewID: review.ID,
			AuthorID: author.ID,
			Body:     "a comment",
		}
		require.NoError(t, db.DB.Create(&c).Error)
		comments = append(comments, c)
	}
	return comments
}

func TestModerationRequiresAdmin(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "reader@example.com", "user")

	w := doJSON(r, http.MethodGet, "/admin/moderation/comments", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodPost, "/admin/moderation/comments", token, gin.H{
		"action": "approve", "ids": []uint{1},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApproveSetsOnlyListedComments(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")
	comments := seedComments(t, review, author, 3)

	w := doJSON(r, http.MethodPost, "/admin/moderation/comments", adminToken, gin.H{
		"action": "approve",
		"ids":    []uint{comments[0].ID, comments[2].ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var approved []models.UserComment
	db.DB.Where("approved = ?", true).Order("id").Find(&approved)
	require.Len(t, approved, 2)
	assert.Equal(t, comments[0].ID, approved[0].ID)
	assert.Equal(t, comments[2].ID, approved[1].ID)
}

func TestRejectDeletesComments(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")
	comments := seedComments(t, review, author, 2)

	w := doJSON(r, http.MethodPost, "/admin/moderation/comments", adminToken, gin.H{
		"action": "reject",
		"ids":    []uint{comments[0].ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var remaining []models.UserComment
	db.DB.Find(&remaining)
	require.Len(t, remaining, 1)
	assert.Equal(t, comments[1].ID, remaining[0].ID)
}

func TestModerationRejectsUnknownAction(t *testing.T) {
	r := setupTest(t)
	_, adminToken := createUser(t, "admin@example.com", "admin")

	w := doJSON(r, http.MethodPost, "/admin/moderation/comments", adminToken, gin.H{
		"action": "purge", "ids": []uint{1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPendingListingSplitsByApproval(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")
	comments := seedComments(t, review, author, 3)
	db.DB.Model(&comments[0]).Update("approved", true)

	w := doJSON(r, http.MethodGet, "/admin/moderation/comments", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total_unapproved"])
	assert.Len(t, body["pending"], 2)
	assert.Len(t, body["recent_approved"], 1)
}

func TestModerateUserReviews(t *testing.T) {
	r := setupTest(t)
	author, _ := createUser(t, "reader@example.com", "user")
	_, adminToken := createUser(t, "admin@example.com", "admin")
	review := createReview(t, "Doom Eternal")

	ur := models.UserReview{ReviewID: review.ID, AuthorID: author.ID, Rating: 4}
	require.NoError(t, db.DB.Create(&ur).Error)

	w := doJSON(r, http.MethodPost, "/admin/moderation/user-reviews", adminToken, gin.H{
		"action": "approve",
		"ids":    []uint{ur.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.UserReview
	require.NoError(t, db.DB.First(&got, ur.ID).Error)
	assert.True(t, got.Approved)
}
