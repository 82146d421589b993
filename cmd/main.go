package main

import (
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"time"

	"gamecritic/cache"
	"gamecritic/db"
	"gamecritic/handlers"
	"gamecritic/igdb"
	"gamecritic/ingest"
	"gamecritic/media"
	"gamecritic/middleware"
	"gamecritic/monitoring"
	"gamecritic/textgen"
	"gamecritic/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	utils.InitLogger()
	db.InitDB()

	if err := cache.InitRedis(); err != nil {
		utils.LogError("redis unavailable, caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}

	monitoring.InitMetrics()
	wireIngestion()

	// Set to release mode in production
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(monitoring.PrometheusMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/health", handlers.Health)

	// Public routes
	r.POST("/login", handlers.Login)
	r.POST("/users", handlers.Register)
	r.GET("/reviews", handlers.GetReviews)
	r.GET("/reviews/featured", handlers.GetFeaturedReviews)
	r.GET("/search", handlers.SearchReviews)
	r.GET("/reviews/:slug", handlers.GetReviewBySlug)
	r.GET("/companies", handlers.GetCompanies)
	r.GET("/companies/:slug/games", handlers.GetCompanyGames)
	r.GET("/genres", handlers.GetGenres)

	protected := r.Group("/").Use(handlers.AuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.POST("/reviews/:slug/like", handlers.LikeReview)
		protected.POST("/reviews/:slug/comments", middleware.RateLimit(10, time.Minute), handlers.CreateComment)
		protected.PUT("/comments/:id", handlers.UpdateComment)
		protected.DELETE("/comments/:id", handlers.DeleteComment)
		protected.POST("/reviews/:slug/user-reviews", middleware.RateLimit(5, time.Minute), handlers.CreateUserReview)
		protected.PUT("/user-reviews/:id", handlers.UpdateUserReview)
		protected.DELETE("/user-reviews/:id", handlers.DeleteUserReview)
	}

	admin := r.Group("/admin").Use(handlers.AuthMiddleware())
	{
		admin.GET("/stats", handlers.GetDashboardStats)
		admin.GET("/users", handlers.GetUsers)
		admin.POST("/users/:id/ban", handlers.BanUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)
		admin.DELETE("/reviews", handlers.DeleteReviews)
		admin.GET("/moderation/comments", handlers.GetPendingComments)
		admin.POST("/moderation/comments", handlers.ModerateComments)
		admin.GET("/moderation/user-reviews", handlers.GetPendingUserReviews)
		admin.POST("/moderation/user-reviews", handlers.ModerateUserReviews)
		admin.POST("/populate/search", handlers.PopulateSearch)
		admin.POST("/populate/create", handlers.PopulateCreate)
		admin.POST("/populate/companies", handlers.PopulateCompanies)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Check if HTTPS should be enabled
	useHTTPS := os.Getenv("USE_HTTPS") == "true"
	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")

	if useHTTPS && certFile != "" && keyFile != "" {
		log.Println("🔒 Starting server with HTTPS on port", port)

		tlsConfig := &tls.Config{
			MinVersion:               tls.VersionTLS12,
			CurvePreferences:         []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
			PreferServerCipherSuites: true,
		}

		server := &http.Server{
			Addr:      ":" + port,
			Handler:   r,
			TLSConfig: tlsConfig,
		}

		if err := server.ListenAndServeTLS(certFile, keyFile); err != nil {
			log.Fatal("❌ Failed to start HTTPS server:", err)
		}
	} else {
		log.Println("🌐 Starting server with HTTP on port", port)
		log.Println("⚠️  WARNING: Running without HTTPS. Set USE_HTTPS=true for production")

		if err := r.Run(":" + port); err != nil {
			log.Fatal("❌ Failed to start server:", err)
		}
	}
}

// wireIngestion builds the catalog clients from the environment. Missing
// credentials leave the populate routes disabled rather than failing
// startup.
func wireIngestion() {
	clientID := os.Getenv("IGDB_CLIENT_ID")
	clientSecret := os.Getenv("IGDB_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		handlers.IGDBClient = igdb.NewClient(igdb.NewTokenProvider(clientID, clientSecret))
	} else {
		utils.LogInfo("catalog API credentials missing, populate disabled", nil)
	}

	var uploader media.Uploader
	if url := os.Getenv("MEDIA_UPLOAD_URL"); url != "" {
		uploader = media.NewClient(url, os.Getenv("MEDIA_API_KEY"))
	}

	var generator textgen.Generator
	if endpoint := os.Getenv("TEXTGEN_ENDPOINT"); endpoint != "" {
		generator = textgen.NewClient(endpoint, os.Getenv("TEXTGEN_MODEL"), os.Getenv("TEXTGEN_TOKEN"))
	}

	handlers.Pipeline = ingest.NewPipeline(db.DB, uploader, generator)
}
