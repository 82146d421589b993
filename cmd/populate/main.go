package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gamecritic/db"
	"gamecritic/igdb"
	"gamecritic/ingest"
	"gamecritic/media"
	"gamecritic/textgen"
	"gamecritic/utils"

	"github.com/joho/godotenv"
)

// Offline catalog ingestion. Searches the external API, normalizes the
// results and runs them through the same pipeline the admin routes use.
func main() {
	search := flag.String("search", "", "search term (empty fetches top rated games)")
	limit := flag.Int("limit", 10, "maximum games to fetch")
	mode := flag.String("mode", "create_only", "create_only or update_existing")
	score := flag.Float64("score", 0, "editorial score applied to every created review (0 uses the default)")
	companiesOnly := flag.Bool("companies-only", false, "ingest companies without creating reviews")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	utils.InitLogger()

	clientID := os.Getenv("IGDB_CLIENT_ID")
	clientSecret := os.Getenv("IGDB_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("IGDB_CLIENT_ID and IGDB_CLIENT_SECRET must be set")
	}

	ingestMode := ingest.CreateOnly
	switch *mode {
	case "create_only":
	case "update_existing":
		ingestMode = ingest.UpdateExisting
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	db.InitDB()

	client := igdb.NewClient(igdb.NewTokenProvider(clientID, clientSecret))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var (
		games []igdb.Game
		err   error
	)
	if *search == "" {
		games, err = client.TopRatedGames(ctx, *limit)
	} else {
		games, err = client.SearchGames(ctx, *search, *limit)
	}
	if err != nil {
		log.Fatal("catalog fetch failed: ", err)
	}
	if len(games) == 0 {
		fmt.Println("No games found")
		return
	}

	batch := make([]ingest.NormalizedGame, 0, len(games))
	for _, g := range games {
		batch = append(batch, ingest.Normalize(g))
	}

	var uploader media.Uploader
	if url := os.Getenv("MEDIA_UPLOAD_URL"); url != "" {
		uploader = media.NewClient(url, os.Getenv("MEDIA_API_KEY"))
	}
	var generator textgen.Generator
	if endpoint := os.Getenv("TEXTGEN_ENDPOINT"); endpoint != "" {
		generator = textgen.NewClient(endpoint, os.Getenv("TEXTGEN_MODEL"), os.Getenv("TEXTGEN_TOKEN"))
	}

	pipeline := ingest.NewPipeline(db.DB, uploader, generator)

	if *companiesOnly {
		var candidates []ingest.CompanyCandidate
		for _, g := range batch {
			candidates = append(candidates, g.Developers...)
			candidates = append(candidates, g.Publishers...)
		}
		created, updated, err := pipeline.IngestCompanies(ctx, candidates, ingestMode)
		if err != nil {
			log.Println("warning:", err)
		}
		fmt.Printf("Companies: %d created, %d updated\n", created, updated)
		return
	}

	var scores []float64
	if *score > 0 {
		scores = make([]float64, len(batch))
		for i := range scores {
			scores[i] = *score
		}
	}

	report := pipeline.Ingest(ctx, batch, scores, ingestMode)

	fmt.Printf("Done: %d created, %d existing, %d skipped\n",
		report.Created, report.Existing, report.Skipped)
	for _, res := range report.Results {
		line := fmt.Sprintf("  %-40s %s", res.Title, res.Outcome)
		if res.SkipReason != "" {
			line += " (" + res.SkipReason + ")"
		}
		if res.CoverFallback {
			line += " [cover fallback]"
		}
		if res.TextFallback {
			line += " [text fallback]"
		}
		fmt.Println(line)
		for _, w := range res.Warnings {
			fmt.Println("      warning:", w)
		}
	}
}
