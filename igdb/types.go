package igdb

// Raw response shapes for the games endpoint. Fields mirror the JSON the
// API returns for the projection in gamesQuery; everything is optional.

type Game struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Summary           string            `json:"summary"`
	Cover             *Image            `json:"cover"`
	Platforms         []Platform        `json:"platforms"`
	Genres            []Genre           `json:"genres"`
	InvolvedCompanies []InvolvedCompany `json:"involved_companies"`
	ReleaseDates      []ReleaseDate     `json:"release_dates"`
}

type Image struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type Platform struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InvolvedCompany links a game to a company. Developer and Publisher are
// independent flags: one entry can carry both roles, or neither.
type InvolvedCompany struct {
	ID        int64    `json:"id"`
	Developer bool     `json:"developer"`
	Publisher bool     `json:"publisher"`
	Company   *Company `json:"company"`
}

type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   int64     `json:"start_date"`
	Websites    []Website `json:"websites"`
	Logo        *Image    `json:"logo"`
}

// WebsiteCategoryOfficial marks a company's official website entry.
const WebsiteCategoryOfficial = 1

type Website struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Category int    `json:"category"`
}

type ReleaseDate struct {
	ID       int64     `json:"id"`
	Date     int64     `json:"date"`
	Platform *Platform `json:"platform"`
}
