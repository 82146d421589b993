package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gamecritic/db"
	"gamecritic/models"
	"gamecritic/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

type fakeUploader struct {
	fail  bool
	calls []string
}

func (f *fakeUploader) Upload(ctx context.Context, localPath, folder, publicID string) (string, error) {
	return f.UploadFromURL(ctx, localPath, folder, publicID)
}

func (f *fakeUploader) UploadFromURL(ctx context.Context, srcURL, folder, publicID string) (string, error) {
	f.calls = append(f.calls, folder+"/"+publicID)
	if f.fail {
		return "", errors.New("store unreachable")
	}
	return folder + "/" + publicID, nil
}

type fakeGenerator struct {
	fail bool
}

func (f *fakeGenerator) Generate(ctx context.Context, title string) (string, error) {
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "<p>A thorough look at " + title + ".</p>", nil
}

func sampleGame(title string) NormalizedGame {
	return NormalizedGame{
		Title:      title,
		Summary:    "A fast-paced shooter.",
		CoverURL:   "https://images.example.com/t_cover_big/co1.jpg",
		Genres:     []string{"Shooter", "Action"},
		Developers: []CompanyCandidate{{Name: "id Software", Website: "https://idsoftware.com", FoundedYear: 1991}},
		Publishers: []CompanyCandidate{{Name: "Bethesda Softworks"}},
	}
}

func TestIngestCreatesReviewWithCompaniesAndGenres(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, &fakeUploader{}, &fakeGenerator{})

	report := p.Ingest(context.Background(), []NormalizedGame{sampleGame("Doom Eternal")}, []float64{9.0}, CreateOnly)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Existing)
	assert.Equal(t, 0, report.Skipped)

	var review models.Review
	require.NoError(t, gdb.Preload("Developer").Preload("Publisher").Preload("Genres").
		Where("slug = ?", "doom-eternal").First(&review).Error)

	assert.Equal(t, "Doom Eternal", review.Title)
	assert.Equal(t, "id Software", review.Developer.Name)
	assert.Equal(t, "Bethesda Softworks", review.Publisher.Name)
	assert.Len(t, review.Genres, 2)
	require.NotNil(t, review.ReviewScore)
	assert.Equal(t, 9.0, *review.ReviewScore)
	assert.True(t, review.IsPublished)
	assert.Equal(t, "game_covers/doom-eternal", review.FeaturedImage)
	assert.Equal(t, "<p>A thorough look at Doom Eternal.</p>", review.ReviewText)
}

func TestIngestDuplicateDetectionIgnoresCase(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	first := p.Ingest(context.Background(), []NormalizedGame{sampleGame("God of War")}, nil, CreateOnly)
	require.Equal(t, 1, first.Created)

	second := p.Ingest(context.Background(), []NormalizedGame{sampleGame("GOD OF WAR")}, nil, CreateOnly)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 1, second.Existing)
	assert.Equal(t, OutcomeExists, second.Results[0].Outcome)

	var count int64
	gdb.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIngestIsIdempotent(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	batch := []NormalizedGame{sampleGame("Hades"), sampleGame("Celeste")}
	p.Ingest(context.Background(), batch, nil, CreateOnly)
	report := p.Ingest(context.Background(), batch, nil, CreateOnly)

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Existing)

	var reviews, companies, genres int64
	gdb.Model(&models.Review{}).Count(&reviews)
	gdb.Model(&models.Company{}).Count(&companies)
	gdb.Model(&models.Genre{}).Count(&genres)
	assert.Equal(t, int64(2), reviews)
	assert.Equal(t, int64(2), companies)
	assert.Equal(t, int64(2), genres)
}

func TestIngestSkipsNamesMissingRole(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	noDev := sampleGame("Orphan Game")
	noDev.Developers = nil
	noPub := sampleGame("Unpublished Game")
	noPub.Publishers = nil

	report := p.Ingest(context.Background(), []NormalizedGame{noDev, noPub}, nil, CreateOnly)

	require.Equal(t, 2, report.Skipped)
	assert.Equal(t, SkipMissingDeveloper, report.Results[0].SkipReason)
	assert.Equal(t, SkipMissingPublisher, report.Results[1].SkipReason)

	var count int64
	gdb.Model(&models.Review{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestIngestSkippedGameDoesNotUndoSiblings(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	bad := sampleGame("")
	good := sampleGame("Stardew Valley")

	report := p.Ingest(context.Background(), []NormalizedGame{bad, good}, nil, CreateOnly)

	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Created)

	var count int64
	gdb.Model(&models.Review{}).Where("slug = ?", "stardew-valley").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestResolveCompanyTrimsAndIgnoresCase(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	g1 := sampleGame("Quake")
	g1.Developers = []CompanyCandidate{{Name: "id Software"}}
	g2 := sampleGame("Quake II")
	g2.Developers = []CompanyCandidate{{Name: "  ID SOFTWARE  "}}

	p.Ingest(context.Background(), []NormalizedGame{g1, g2}, nil, CreateOnly)

	var count int64
	gdb.Model(&models.Company{}).Count(&count)
	// one developer row plus the shared publisher
	assert.Equal(t, int64(2), count)
}

func TestUpdateExistingFillsOnlyEmptyFields(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	require.NoError(t, gdb.Create(&models.Company{
		Name:        "id Software",
		Slug:        "id-software",
		Description: "Original description",
	}).Error)

	g := sampleGame("Doom")
	g.Developers = []CompanyCandidate{{
		Name:        "id Software",
		Description: "Should not replace",
		Website:     "https://idsoftware.com",
		FoundedYear: 1991,
	}}

	p.Ingest(context.Background(), []NormalizedGame{g}, nil, UpdateExisting)

	var company models.Company
	require.NoError(t, gdb.Where("slug = ?", "id-software").First(&company).Error)
	assert.Equal(t, "Original description", company.Description)
	assert.Equal(t, "https://idsoftware.com", company.Website)
	assert.Equal(t, 1991, company.FoundedYear)
}

func TestCreateOnlyNeverTouchesExistingCompanies(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	require.NoError(t, gdb.Create(&models.Company{
		Name: "id Software",
		Slug: "id-software",
	}).Error)

	g := sampleGame("Doom")
	g.Developers = []CompanyCandidate{{Name: "id Software", Website: "https://idsoftware.com"}}

	p.Ingest(context.Background(), []NormalizedGame{g}, nil, CreateOnly)

	var company models.Company
	require.NoError(t, gdb.Where("slug = ?", "id-software").First(&company).Error)
	assert.Equal(t, "", company.Website)
}

func TestIngestFallbacksAreRecorded(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, &fakeUploader{fail: true}, &fakeGenerator{fail: true})

	g := sampleGame("Doom Eternal")
	g.Developers[0].LogoURL = "https://images.example.com/t_logo_med/logo.png"

	report := p.Ingest(context.Background(), []NormalizedGame{g}, nil, CreateOnly)

	require.Equal(t, 1, report.Created)
	res := report.Results[0]
	assert.True(t, res.CoverFallback)
	assert.True(t, res.TextFallback)
	assert.NotEmpty(t, res.Warnings)

	var review models.Review
	require.NoError(t, gdb.Where("slug = ?", "doom-eternal").First(&review).Error)
	assert.Equal(t, "placeholder", review.FeaturedImage)
	assert.Equal(t, textgen.PlaceholderReview("Doom Eternal"), review.ReviewText)

	// logo failure stores the source URL rather than the placeholder
	var developer models.Company
	require.NoError(t, gdb.Where("slug = ?", "id-software").First(&developer).Error)
	assert.Equal(t, "https://images.example.com/t_logo_med/logo.png", developer.Logo)
}

func TestIngestWithoutMediaStoresSourceCoverURL(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	p.Ingest(context.Background(), []NormalizedGame{sampleGame("Doom Eternal")}, nil, CreateOnly)

	var review models.Review
	require.NoError(t, gdb.Where("slug = ?", "doom-eternal").First(&review).Error)
	assert.Equal(t, "https://images.example.com/t_cover_big/co1.jpg", review.FeaturedImage)
}

func TestIngestAssignsRandomReviewer(t *testing.T) {
	gdb := testDB(t)
	require.NoError(t, gdb.Create(&models.User{
		Email:    "editor@example.com",
		Password: "hashed",
		Name:     "Editor",
		Role:     "admin",
	}).Error)

	p := NewPipeline(gdb, nil, nil)
	p.Ingest(context.Background(), []NormalizedGame{sampleGame("Doom Eternal")}, nil, CreateOnly)

	var review models.Review
	require.NoError(t, gdb.Where("slug = ?", "doom-eternal").First(&review).Error)
	require.NotNil(t, review.ReviewedByID)
}

func TestIngestScoreClampingAndDefault(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	batch := []NormalizedGame{sampleGame("Game A"), sampleGame("Game B"), sampleGame("Game C")}
	p.Ingest(context.Background(), batch, []float64{42, -3}, CreateOnly)

	scores := map[string]float64{}
	var reviews []models.Review
	gdb.Find(&reviews)
	for _, r := range reviews {
		require.NotNil(t, r.ReviewScore)
		scores[r.Title] = *r.ReviewScore
	}
	assert.Equal(t, 10.0, scores["Game A"])
	assert.Equal(t, 0.0, scores["Game B"])
	assert.Equal(t, 5.0, scores["Game C"])
}

func TestIngestCompaniesDeduplicatesBatch(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	candidates := []CompanyCandidate{
		{Name: "Capcom"},
		{Name: "capcom "},
		{Name: "Nintendo"},
	}

	created, updated, err := p.IngestCompanies(context.Background(), candidates, CreateOnly)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, updated)

	var count int64
	gdb.Model(&models.Company{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestIngestCompaniesReportsFailures(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	// a different company already owns the slug the candidate derives,
	// so its insert violates the unique index
	require.NoError(t, gdb.Create(&models.Company{Name: "Capcom Ltd", Slug: "capcom"}).Error)

	created, updated, err := p.IngestCompanies(context.Background(), []CompanyCandidate{
		{Name: "Capcom"},
		{Name: "Nintendo"},
	}, CreateOnly)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 companies failed")
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, updated)
}

func TestIngestCompaniesUpdateExistingCountsChanges(t *testing.T) {
	gdb := testDB(t)
	p := NewPipeline(gdb, nil, nil)

	require.NoError(t, gdb.Create(&models.Company{Name: "Capcom", Slug: "capcom"}).Error)

	created, updated, err := p.IngestCompanies(context.Background(), []CompanyCandidate{
		{Name: "Capcom", Website: "https://capcom.com"},
	}, UpdateExisting)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, updated)

	var company models.Company
	require.NoError(t, gdb.Where("slug = ?", "capcom").First(&company).Error)
	assert.Equal(t, "https://capcom.com", company.Website)
}
