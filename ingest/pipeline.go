package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gamecritic/media"
	"gamecritic/models"
	"gamecritic/textgen"
	"gamecritic/utils"

	"gorm.io/gorm"
)

// Mode controls what happens when ingestion meets a company it has seen
// before.
type Mode string

const (
	// CreateOnly leaves existing companies untouched.
	CreateOnly Mode = "create_only"
	// UpdateExisting fills fields that are currently empty; populated
	// fields are never overwritten.
	UpdateExisting Mode = "update_existing"
)

const defaultScore = 5.0

// Pipeline turns normalized game records into Company, Genre and Review
// rows. Media and TextGen are optional; when nil (or failing) the
// pipeline degrades to fallback values instead of aborting records.
type Pipeline struct {
	DB      *gorm.DB
	Media   media.Uploader
	TextGen textgen.Generator
}

func NewPipeline(db *gorm.DB, uploader media.Uploader, generator textgen.Generator) *Pipeline {
	return &Pipeline{DB: db, Media: uploader, TextGen: generator}
}

// Ingest processes the batch in input order. Each game runs in its own
// transaction: a statement failure rolls back that game alone and the
// batch continues, so a skip or error never undoes sibling games.
func (p *Pipeline) Ingest(ctx context.Context, batch []NormalizedGame, scores []float64, mode Mode) *Report {
	report := &Report{}

	for i, game := range batch {
		score := defaultScore
		if i < len(scores) {
			score = clampScore(scores[i])
		}

		result := GameResult{Title: game.Title, Outcome: OutcomeSkipped}
		err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return p.ingestOne(ctx, tx, game, score, mode, &result)
		})
		if err != nil {
			if utils.Log != nil {
				utils.LogError("ingest: game failed", map[string]interface{}{
					"title": game.Title,
					"error": err.Error(),
				})
			}
			result.Outcome = OutcomeSkipped
			result.SkipReason = fmt.Sprintf("error: %v", err)
		}
		report.add(result)
	}

	return report
}

func (p *Pipeline) ingestOne(ctx context.Context, tx *gorm.DB, game NormalizedGame, score float64, mode Mode, result *GameResult) error {
	developer, err := p.resolveCompany(ctx, tx, firstCandidate(game.Developers), mode, result)
	if err != nil {
		return err
	}
	publisher, err := p.resolveCompany(ctx, tx, firstCandidate(game.Publishers), mode, result)
	if err != nil {
		return err
	}

	// Gate: a review needs both ends of the (developer, publisher) pair.
	if developer == nil {
		result.SkipReason = SkipMissingDeveloper
		return nil
	}
	if publisher == nil {
		result.SkipReason = SkipMissingPublisher
		return nil
	}

	title := strings.TrimSpace(game.Title)
	if title == "" {
		result.SkipReason = "empty title"
		return nil
	}
	slug := utils.Slugify(title)

	// Duplicate detection is case-insensitive on title and exact on slug,
	// so re-ingesting "GOD OF WAR" cannot create a second "God of War".
	var existing models.Review
	err = tx.Where("LOWER(title) = LOWER(?) OR slug = ?", title, slug).First(&existing).Error
	if err == nil {
		result.Outcome = OutcomeExists
		result.ReviewID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	review := models.Review{
		Title:       title,
		Slug:        slug,
		DeveloperID: developer.ID,
		PublisherID: publisher.ID,
		Description: game.Summary,
		ReleaseDate: releaseDateOrToday(game.ReleaseDates),
		ReviewScore: &score,
		IsPublished: true,
		IsFeatured:  false,
	}

	review.ReviewText = p.reviewText(ctx, title, result)
	now := time.Now()
	review.ReviewDate = &now

	if reviewer := randomUser(tx); reviewer != nil {
		review.ReviewedByID = &reviewer.ID
	}

	review.FeaturedImage = p.coverReference(ctx, game.CoverURL, slug, result)

	if err := tx.Create(&review).Error; err != nil {
		return err
	}

	genres, err := attachGenres(tx, &review, game.Genres)
	if err != nil {
		return err
	}
	review.Genres = genres

	result.Outcome = OutcomeCreated
	result.ReviewID = review.ID
	return nil
}

// resolveCompany looks a candidate up by its case-insensitive name key,
// creating it on first sighting. In UpdateExisting mode a hit gets only
// its empty fields filled.
func (p *Pipeline) resolveCompany(ctx context.Context, tx *gorm.DB, cand *CompanyCandidate, mode Mode, result *GameResult) (*models.Company, error) {
	if cand == nil {
		return nil, nil
	}
	name := strings.TrimSpace(cand.Name)
	if name == "" {
		return nil, nil
	}

	var company models.Company
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&company).Error
	if err == nil {
		if mode == UpdateExisting {
			if err := p.fillEmptyFields(ctx, tx, &company, cand, result); err != nil {
				return nil, err
			}
		}
		return &company, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	company = models.Company{
		Name:        name,
		Slug:        utils.Slugify(name),
		Description: cand.Description,
		Website:     cand.Website,
		FoundedYear: cand.FoundedYear,
		Logo:        p.logoReference(ctx, cand.LogoURL, name, result),
	}
	if err := tx.Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// fillEmptyFields updates only fields that have no value yet. Populated
// fields keep what they have, whatever the new source offers.
func (p *Pipeline) fillEmptyFields(ctx context.Context, tx *gorm.DB, company *models.Company, cand *CompanyCandidate, result *GameResult) error {
	changed := false
	if company.Description == "" && cand.Description != "" {
		company.Description = cand.Description
		changed = true
	}
	if company.Website == "" && cand.Website != "" {
		company.Website = cand.Website
		changed = true
	}
	if company.FoundedYear == 0 && cand.FoundedYear != 0 {
		company.FoundedYear = cand.FoundedYear
		changed = true
	}
	if (company.Logo == "" || company.Logo == media.Placeholder) && cand.LogoURL != "" {
		company.Logo = p.logoReference(ctx, cand.LogoURL, company.Name, result)
		changed = true
	}
	if !changed {
		return nil
	}
	return tx.Save(company).Error
}

// logoReference uploads a company logo best-effort. Upload failure falls
// back to storing the source URL; a missing URL yields the placeholder.
func (p *Pipeline) logoReference(ctx context.Context, logoURL, name string, result *GameResult) string {
	if logoURL == "" {
		return media.Placeholder
	}
	if p.Media == nil {
		return logoURL
	}
	ref, err := p.Media.UploadFromURL(ctx, logoURL, "company_logos", utils.Slugify(name))
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("logo upload failed for %s, stored source URL", name))
		if utils.Log != nil {
			utils.LogWarn("ingest: logo upload failed", map[string]interface{}{
				"company": name,
				"error":   err.Error(),
			})
		}
		return logoURL
	}
	return ref
}

// coverReference uploads the game cover best-effort, degrading to the
// placeholder reference.
func (p *Pipeline) coverReference(ctx context.Context, coverURL, slug string, result *GameResult) string {
	if coverURL == "" || p.Media == nil {
		if coverURL == "" {
			return media.Placeholder
		}
		return coverURL
	}
	ref, err := p.Media.UploadFromURL(ctx, coverURL, "game_covers", slug)
	if err != nil {
		result.CoverFallback = true
		if utils.Log != nil {
			utils.LogWarn("ingest: cover upload failed", map[string]interface{}{
				"slug":  slug,
				"error": err.Error(),
			})
		}
		return media.Placeholder
	}
	return ref
}

func (p *Pipeline) reviewText(ctx context.Context, title string, result *GameResult) string {
	if p.TextGen != nil {
		text, err := p.TextGen.Generate(ctx, title)
		if err == nil && text != "" {
			return text
		}
		result.TextFallback = true
		if utils.Log != nil {
			utils.LogWarn("ingest: review generation failed, using placeholder", map[string]interface{}{
				"title": title,
			})
		}
	} else {
		result.TextFallback = true
	}
	return textgen.PlaceholderReview(title)
}

// attachGenres get-or-creates each genre by exact name and associates it
// with the review. Duplicate names within one game collapse to a single
// association.
func attachGenres(tx *gorm.DB, review *models.Review, names []string) ([]models.Genre, error) {
	seen := make(map[string]bool, len(names))
	var genres []models.Genre
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var genre models.Genre
		if err := tx.Where(models.Genre{Name: name}).FirstOrCreate(&genre).Error; err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	if len(genres) == 0 {
		return nil, nil
	}
	if err := tx.Model(review).Association("Genres").Append(&genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// IngestCompanies upserts company candidates on their own, without game
// records. Used by the populate command to harvest developers and
// publishers in bulk. Candidates deduplicate within the batch on the
// normalized name key. Per-candidate failures do not stop the batch;
// they surface as one aggregate error alongside the counts.
func (p *Pipeline) IngestCompanies(ctx context.Context, candidates []CompanyCandidate, mode Mode) (created, updated int, err error) {
	seen := make(map[string]bool, len(candidates))
	failed := 0

	for i := range candidates {
		cand := candidates[i]
		key := strings.ToLower(strings.TrimSpace(cand.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		txErr := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.Company
			lookupErr := tx.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(cand.Name)).First(&existing).Error
			if lookupErr == gorm.ErrRecordNotFound {
				result := GameResult{}
				if _, createErr := p.resolveCompany(ctx, tx, &cand, CreateOnly, &result); createErr != nil {
					return createErr
				}
				created++
				return nil
			}
			if lookupErr != nil {
				return lookupErr
			}
			if mode == UpdateExisting {
				before := existing
				result := GameResult{}
				if fillErr := p.fillEmptyFields(ctx, tx, &existing, &cand, &result); fillErr != nil {
					return fillErr
				}
				if existing != before {
					updated++
				}
			}
			return nil
		})
		if txErr != nil {
			failed++
			if utils.Log != nil {
				utils.LogError("ingest: company failed", map[string]interface{}{
					"company": cand.Name,
					"error":   txErr.Error(),
				})
			}
		}
	}
	if failed > 0 {
		err = fmt.Errorf("%d of %d companies failed", failed, len(seen))
	}
	return created, updated, err
}

func firstCandidate(cands []CompanyCandidate) *CompanyCandidate {
	if len(cands) == 0 {
		return nil
	}
	return &cands[0]
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 10 {
		return 10
	}
	return s
}

func releaseDateOrToday(dates []ReleaseDate) time.Time {
	if len(dates) > 0 {
		return time.Unix(dates[0].Timestamp, 0).UTC()
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func randomUser(tx *gorm.DB) *models.User {
	var user models.User
	if err := tx.Order("RANDOM()").First(&user).Error; err != nil {
		return nil
	}
	return &user
}
