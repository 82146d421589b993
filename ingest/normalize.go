package ingest

import (
	"sort"
	"strings"
	"time"

	"gamecritic/igdb"
)

// NormalizedGame is the flat shape the ingestion pipeline consumes: one
// raw API game record with every ambiguous sub-field already resolved.
type NormalizedGame struct {
	Title        string
	Summary      string
	CoverURL     string
	Platforms    []string
	Genres       []string
	Developers   []CompanyCandidate
	Publishers   []CompanyCandidate
	ReleaseDates []ReleaseDate
}

// CompanyCandidate is a developer or publisher extracted from a game's
// involved-company entries.
type CompanyCandidate struct {
	Name        string
	Description string
	Website     string
	FoundedYear int
	LogoURL     string
}

// ReleaseDate is the earliest release for one platform.
type ReleaseDate struct {
	Platform  string
	Timestamp int64
	Display   string
}

// Normalize flattens one raw game record. It never fails: malformed
// sub-fields are dropped or defaulted.
func Normalize(g igdb.Game) NormalizedGame {
	n := NormalizedGame{
		Title:    g.Name,
		Summary:  g.Summary,
		CoverURL: normalizeCoverURL(g.Cover),
	}

	for _, p := range g.Platforms {
		if p.Name != "" {
			n.Platforms = append(n.Platforms, p.Name)
		}
	}

	for _, genre := range g.Genres {
		if genre.Name != "" {
			n.Genres = append(n.Genres, genre.Name)
		}
	}

	// One involved-company entry can be developer, publisher, both, or
	// neither; the two flags are independent.
	for _, ic := range g.InvolvedCompanies {
		if ic.Company == nil || strings.TrimSpace(ic.Company.Name) == "" {
			continue
		}
		cand := normalizeCompany(*ic.Company)
		if ic.Developer {
			n.Developers = append(n.Developers, cand)
		}
		if ic.Publisher {
			n.Publishers = append(n.Publishers, cand)
		}
	}

	n.ReleaseDates = normalizeReleaseDates(g.ReleaseDates)
	return n
}

func normalizeCompany(c igdb.Company) CompanyCandidate {
	cand := CompanyCandidate{
		Name:        strings.TrimSpace(c.Name),
		Description: c.Description,
		Website:     pickWebsite(c.Websites),
		FoundedYear: foundedYear(c.StartDate),
	}
	if c.Logo != nil {
		cand.LogoURL = normalizeImageURL(c.Logo.URL, "t_logo_med")
	}
	return cand
}

// pickWebsite prefers the entry tagged official, then the first listed.
func pickWebsite(sites []igdb.Website) string {
	for _, w := range sites {
		if w.Category == igdb.WebsiteCategoryOfficial && w.URL != "" {
			return w.URL
		}
	}
	if len(sites) > 0 {
		return sites[0].URL
	}
	return ""
}

// foundedYear derives a calendar year from a unix timestamp. Absent or
// non-positive timestamps yield 0.
func foundedYear(startDate int64) int {
	if startDate <= 0 {
		return 0
	}
	return time.Unix(startDate, 0).UTC().Year()
}

// normalizeImageURL rewrites protocol-relative URLs to https and swaps
// the thumbnail size token for the given higher-resolution one.
func normalizeImageURL(url, sizeToken string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return strings.Replace(url, "t_thumb", sizeToken, 1)
}

func normalizeCoverURL(cover *igdb.Image) string {
	if cover == nil {
		return ""
	}
	return normalizeImageURL(cover.URL, "t_cover_big")
}

// normalizeReleaseDates keeps the earliest-dated entry per platform and
// returns them sorted ascending by timestamp. Entries without a valid
// date or platform are dropped.
func normalizeReleaseDates(dates []igdb.ReleaseDate) []ReleaseDate {
	earliest := make(map[string]int64)
	for _, rd := range dates {
		if rd.Date <= 0 || rd.Platform == nil || rd.Platform.Name == "" {
			continue
		}
		if cur, ok := earliest[rd.Platform.Name]; !ok || rd.Date < cur {
			earliest[rd.Platform.Name] = rd.Date
		}
	}
	if len(earliest) == 0 {
		return nil
	}

	out := make([]ReleaseDate, 0, len(earliest))
	for platform, ts := range earliest {
		out = append(out, ReleaseDate{
			Platform:  platform,
			Timestamp: ts,
			Display:   time.Unix(ts, 0).UTC().Format("Jan 2, 2006"),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp == out[j].Timestamp {
			return out[i].Platform < out[j].Platform
		}
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}
