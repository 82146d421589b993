package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	ctx         = context.Background()
)

// InitRedis initializes the Redis connection. Every caller treats the
// cache as optional: when Redis is down the API serves from the database.
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// IsRedisAvailable checks if Redis is connected
func IsRedisAvailable() bool {
	if RedisClient == nil {
		return false
	}
	_, err := RedisClient.Ping(ctx).Result()
	return err == nil
}

// ==================== CACHE KEYS ====================

const (
	ReviewListPrefix   = "reviews:list:"    // reviews:list:<sort>:<page>
	ReviewDetailPrefix = "reviews:detail:"  // reviews:detail:<slug>
	FeaturedKey        = "reviews:featured" // featured, published reviews
	CompanyListPrefix  = "companies:list:"  // companies:list:<role>:<sort>:<page>
	GenresKey          = "genres:all"
	StatsKey           = "stats:dashboard"
	RateLimitPrefix    = "ratelimit:user:" // ratelimit:user:<id>
)

// ==================== GENERIC CACHE OPERATIONS ====================

// Set stores any value in cache with TTL
func Set(key string, value interface{}, ttl time.Duration) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return RedisClient.Set(ctx, key, data, ttl).Err()
}

// Get retrieves value from cache into dest
func Get(key string, dest interface{}) error {
	if !IsRedisAvailable() {
		return fmt.Errorf("redis not available")
	}

	val, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return fmt.Errorf("cache miss")
	}
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

// Delete removes key from cache
func Delete(key string) error {
	if !IsRedisAvailable() {
		return nil
	}
	return RedisClient.Del(ctx, key).Err()
}

// DeletePattern removes all keys matching pattern
func DeletePattern(pattern string) error {
	if !IsRedisAvailable() {
		return nil
	}

	iter := RedisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// ==================== REVIEW CACHING ====================

// GetReviewList returns a cached review listing page
func GetReviewList(sort string, page int) (interface{}, error) {
	key := fmt.Sprintf("%s%s:%d", ReviewListPrefix, sort, page)
	var reviews interface{}
	err := Get(key, &reviews)
	return reviews, err
}

// SetReviewList caches a review listing page for 5 minutes
func SetReviewList(sort string, page int, reviews interface{}) error {
	key := fmt.Sprintf("%s%s:%d", ReviewListPrefix, sort, page)
	return Set(key, reviews, 5*time.Minute)
}

// GetReviewDetail returns a cached review detail by slug
func GetReviewDetail(slug string) (interface{}, error) {
	var review interface{}
	err := Get(ReviewDetailPrefix+slug, &review)
	return review, err
}

// SetReviewDetail caches a review detail for 10 minutes
func SetReviewDetail(slug string, review interface{}) error {
	return Set(ReviewDetailPrefix+slug, review, 10*time.Minute)
}

// InvalidateReviews drops every cached review listing and detail.
// Called after ingestion, moderation, and bulk deletes.
func InvalidateReviews() error {
	if err := DeletePattern(ReviewListPrefix + "*"); err != nil {
		return err
	}
	if err := DeletePattern(ReviewDetailPrefix + "*"); err != nil {
		return err
	}
	return Delete(FeaturedKey)
}

// InvalidateReviewDetail drops one cached detail page
func InvalidateReviewDetail(slug string) error {
	return Delete(ReviewDetailPrefix + slug)
}

// ==================== COMPANY CACHING ====================

// GetCompanyList returns a cached company listing page
func GetCompanyList(role, sort string, page int) (interface{}, error) {
	key := fmt.Sprintf("%s%s:%s:%d", CompanyListPrefix, role, sort, page)
	var companies interface{}
	err := Get(key, &companies)
	return companies, err
}

// SetCompanyList caches a company listing page for 10 minutes
func SetCompanyList(role, sort string, page int, companies interface{}) error {
	key := fmt.Sprintf("%s%s:%s:%d", CompanyListPrefix, role, sort, page)
	return Set(key, companies, 10*time.Minute)
}

// InvalidateCompanies drops every cached company listing
func InvalidateCompanies() error {
	return DeletePattern(CompanyListPrefix + "*")
}

// ==================== GENRE CACHING ====================

// GetGenres returns cached genres
func GetGenres() (interface{}, error) {
	var genres interface{}
	err := Get(GenresKey, &genres)
	return genres, err
}

// SetGenres caches genres for 1 hour
func SetGenres(genres interface{}) error {
	return Set(GenresKey, genres, time.Hour)
}

// InvalidateGenres removes the genres cache
func InvalidateGenres() error {
	return Delete(GenresKey)
}

// ==================== STATS CACHING ====================

// GetDashboardStats returns cached dashboard statistics
func GetDashboardStats() (interface{}, error) {
	var stats interface{}
	err := Get(StatsKey, &stats)
	return stats, err
}

// SetDashboardStats caches dashboard statistics for 5 minutes
func SetDashboardStats(stats interface{}) error {
	return Set(StatsKey, stats, 5*time.Minute)
}

// InvalidateDashboardStats removes the dashboard statistics cache
func InvalidateDashboardStats() error {
	return Delete(StatsKey)
}

// ==================== RATE LIMITING ====================

// CheckRateLimit implements fixed-window rate limiting per user
func CheckRateLimit(userID uint, maxRequests int, window time.Duration) (bool, int, error) {
	if !IsRedisAvailable() {
		return true, maxRequests, nil // allow when Redis is unavailable
	}

	key := fmt.Sprintf("%s%d", RateLimitPrefix, userID)

	count, err := RedisClient.Get(ctx, key).Int()
	if err == redis.Nil {
		if err := RedisClient.Set(ctx, key, 1, window).Err(); err != nil {
			return false, 0, err
		}
		return true, maxRequests - 1, nil
	}
	if err != nil {
		return false, 0, err
	}

	if count >= maxRequests {
		return false, 0, nil
	}

	newCount, err := RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	return true, maxRequests - int(newCount), nil
}
