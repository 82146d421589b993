package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if utils.Log == nil {
		utils.InitLogger()
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb

	r := gin.New()
	r.POST("/login", Login)
	r.POST("/users", Register)
	r.GET("/reviews", GetReviews)
	r.GET("/reviews/:slug", GetReviewBySlug)
	r.GET("/search", SearchReviews)

	protected := r.Group("/").Use(AuthMiddleware())
	{
		protected.GET("/profile", GetProfile)
		protected.POST("/reviews/:slug/like", LikeReview)
		protected.POST("/reviews/:slug/comments", CreateComment)
		protected.PUT("/comments/:id", UpdateComment)
		protected.DELETE("/comments/:id", DeleteComment)
		protected.POST("/reviews/:slug/user-reviews", CreateUserReview)
		protected.PUT("/user-reviews/:id", UpdateUserReview)
	}

	admin := r.Group("/admin").Use(AuthMiddleware())
	{
		admin.GET("/moderation/comments", GetPendingComments)
		admin.POST("/moderation/comments", ModerateComments)
		admin.GET("/moderation/user-reviews", GetPendingUserReviews)
		admin.POST("/moderation/user-reviews", ModerateUserReviews)
		admin.POST("/users/:id/ban", BanUser)
		admin.DELETE("/users/:id", DeleteUser)
		admin.DELETE("/reviews", DeleteReviews)
		admin.POST("/populate/search", PopulateSearch)
		admin.POST("/populate/create", PopulateCreate)
		admin.POST("/populate/companies", PopulateCompanies)
	}

	return r
}

func createUser(t *testing.T, email, role string) (models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := models.User{
		Email:    email,
		Password: string(hashed),
		Name:     "Test User",
		Role:     role,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := signToken(user)
	require.NoError(t, err)
	return user, token
}

func createReview(t *testing.T, title string) models.Review {
	t.Helper()
	dev := models.Company{Name: title + " Dev", Slug: utils.Slugify(title + " Dev")}
	pub := models.Company{Name: title + " Pub", Slug: utils.Slugify(title + " Pub")}
	require.NoError(t, db.DB.Create(&dev).Error)
	require.NoError(t, db.DB.Create(&pub).Error)

	review := models.Review{
		Title:       title,
		Slug:        utils.Slugify(title),
		DeveloperID: dev.ID,
		PublisherID: pub.ID,
		IsPublished: true,
	}
	require.NoError(t, db.DB.Create(&review).Error)
	return review
}

func doJSON(r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestLoginRejectsBannedUser(t *testing.T) {
	r := setupTest(t)
	user, _ := createUser(t, "banned@example.com", "user")
	db.DB.Model(&user).Update("is_banned", true)

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "banned@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	r := setupTest(t)
	createUser(t, "reader@example.com", "user")

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "reader@example.com",
		"password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginReturnsToken(t *testing.T) {
	r := setupTest(t)
	createUser(t, "reader@example.com", "user")

	w := doJSON(r, http.MethodPost, "/login", "", gin.H{
		"email":    "reader@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])
}
