package handlers

import (
	"net/http"

	"gamecritic/cache"
	"gamecritic/igdb"
	"gamecritic/ingest"
	"gamecritic/monitoring"
	"gamecritic/utils"

	"github.com/gin-gonic/gin"
)

// IGDBClient and Pipeline are wired up in main before the router starts.
// Populate routes return 503 while either is unset, which happens when
// the external API credentials are not configured.
var (
	IGDBClient *igdb.Client
	Pipeline   *ingest.Pipeline
)

// SearchInput - external catalog query
type SearchInput struct {
	Query string `json:"q"`
	Limit int    `json:"limit" validate:"omitempty,gte=1,lte=50"`
}

// PopulateSearch queries the external catalog and returns normalized
// candidates for review before anything is written. An empty search
// falls back to the top rated games.
func PopulateSearch(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if IGDBClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog API is not configured"})
		return
	}

	var input SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	search := input.Query
	limit := input.Limit
	if limit < 1 {
		limit = 10
	}

	var (
		games []igdb.Game
		err   error
	)
	if search == "" {
		games, err = IGDBClient.TopRatedGames(c.Request.Context(), limit)
	} else {
		games, err = IGDBClient.SearchGames(c.Request.Context(), search, limit)
	}
	if err != nil {
		utils.LogError("catalog search failed", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog API request failed"})
		return
	}

	candidates := make([]ingest.NormalizedGame, 0, len(games))
	for _, g := range games {
		candidates = append(candidates, ingest.Normalize(g))
	}

	c.JSON(http.StatusOK, gin.H{
		"games": candidates,
		"count": len(candidates),
	})
}

// PopulateInput carries the admin's selection back from a search
// preview. Scores are optional and positional; mode defaults to
// create_only.
type PopulateInput struct {
	Games  []ingest.NormalizedGame `json:"games" validate:"required,min=1"`
	Scores []float64               `json:"scores" validate:"omitempty,dive,gte=0,lte=10"`
	Mode   string                  `json:"mode" validate:"omitempty,oneof=create_only update_existing"`
}

// PopulateCreate runs the ingestion pipeline over the selected games and
// returns the per-game report.
func PopulateCreate(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}
	if Pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingestion is not configured"})
		return
	}

	var input PopulateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	mode := ingest.CreateOnly
	if input.Mode == string(ingest.UpdateExisting) {
		mode = ingest.UpdateExisting
	}

	report := Pipeline.Ingest(c.Request.Context(), input.Games, input.Scores, mode)
	monitoring.RecordIngestReport(report)

	if report.Created > 0 && cache.IsRedisAvailable() {
		cache.InvalidateReviews()
		cache.InvalidateCompanies()
		cache.InvalidateGenres()
		cache.InvalidateDashboardStats()
	}

	utils.LogInfo("catalog populate finished", map[string]interface{}{
		"created":  report.Created,
		"existing": report.Existing,
		"skipped":  report.Skipped,
		"by":       user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// PopulateCompanies ingests the company candidates of the selected games
// without creating reviews.
func PopulateCompanies(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}
	if Pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ingestion is not configured"})
		return
	}

	var input PopulateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	mode := ingest.CreateOnly
	if input.Mode == string(ingest.UpdateExisting) {
		mode = ingest.UpdateExisting
	}

	var candidates []ingest.CompanyCandidate
	for _, g := range input.Games {
		candidates = append(candidates, g.Developers...)
		candidates = append(candidates, g.Publishers...)
	}

	created, updated, err := Pipeline.IngestCompanies(c.Request.Context(), candidates, mode)
	if err != nil {
		// partial failure: report what did land
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"created": created,
			"updated": updated,
		})
		return
	}

	if created > 0 && cache.IsRedisAvailable() {
		cache.InvalidateCompanies()
		cache.InvalidateDashboardStats()
	}

	utils.LogInfo("company populate finished", map[string]interface{}{
		"created": created,
		"updated": updated,
		"by":      user.ID,
	})
	c.JSON(http.StatusOK, gin.H{"created": created, "updated": updated})
}
