package handlers

import (
	"net/http"

	"gamecritic/cache"
	"gamecritic/db"
	"gamecritic/models"

	"github.com/gin-gonic/gin"
)

// GetCompanies lists developer/publisher records with sorting and
// pagination. ?role=developer|publisher narrows to companies filling
// that role on at least one review; companies carry no role column.
func GetCompanies(c *gin.Context) {
	page, pageSize := parsePage(c)
	sort := c.DefaultQuery("sort", "az")
	role := c.Query("role")

	cacheable := pageSize == defaultPageSize
	if cacheable && cache.IsRedisAvailable() {
		if cached, err := cache.GetCompanyList(role, sort, page); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	query := db.DB.Model(&models.Company{})
	switch role {
	case "developer":
		query = query.Where("id IN (?)", db.DB.Model(&models.Review{}).Select("developer_id"))
	case "publisher":
		query = query.Where("id IN (?)", db.DB.Model(&models.Review{}).Select("publisher_id"))
	}

	var total int64
	query.Count(&total)

	var companies []models.Company
	if err := query.Order(orderForSort(sort, "name", "name ASC")).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
		return
	}

	response := gin.H{
		"companies": companies,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	}

	if cacheable && cache.IsRedisAvailable() {
		cache.SetCompanyList(role, sort, page, response)
	}

	c.JSON(http.StatusOK, response)
}

// GetCompanyGames lists the published reviews a company developed or
// published.
func GetCompanyGames(c *gin.Context) {
	slug := c.Param("slug")

	var company models.Company
	if err := db.DB.Where("slug = ?", slug).First(&company).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
		return
	}

	var reviews []models.Review
	if err := db.DB.Where("is_published = ? AND (developer_id = ? OR publisher_id = ?)",
		true, company.ID, company.ID).
		Preload("Publisher").
		Preload("Developer").
		Preload("Genres").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company": company,
		"games":   reviews,
	})
}

// GetGenres lists all genres
func GetGenres(c *gin.Context) {
	if cache.IsRedisAvailable() {
		if cached, err := cache.GetGenres(); err == nil && cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var genres []models.Genre
	if err := db.DB.Order("name ASC").Find(&genres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch genres"})
		return
	}

	response := gin.H{"genres": genres}
	if cache.IsRedisAvailable() {
		cache.SetGenres(response)
	}
	c.JSON(http.StatusOK, response)
}
