package ingest

import (
	"testing"
	"time"

	"gamecritic/igdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoleFlagsAreIndependent(t *testing.T) {
	g := igdb.Game{
		Name: "Doom Eternal",
		InvolvedCompanies: []igdb.InvolvedCompany{
			{Company: &igdb.Company{Name: "id Software"}, Developer: true},
			{Company: &igdb.Company{Name: "Bethesda Softworks"}, Publisher: true},
			{Company: &igdb.Company{Name: "Nintendo"}, Developer: true, Publisher: true},
			{Company: &igdb.Company{Name: "Some Port House"}},
		},
	}

	n := Normalize(g)

	require.Len(t, n.Developers, 2)
	require.Len(t, n.Publishers, 2)
	assert.Equal(t, "id Software", n.Developers[0].Name)
	assert.Equal(t, "Nintendo", n.Developers[1].Name)
	assert.Equal(t, "Bethesda Softworks", n.Publishers[0].Name)
	assert.Equal(t, "Nintendo", n.Publishers[1].Name)
}

func TestNormalizeSkipsNamelessCompanies(t *testing.T) {
	g := igdb.Game{
		Name: "Mystery Game",
		InvolvedCompanies: []igdb.InvolvedCompany{
			{Company: nil, Developer: true},
			{Company: &igdb.Company{Name: "   "}, Publisher: true},
		},
	}

	n := Normalize(g)
	assert.Empty(t, n.Developers)
	assert.Empty(t, n.Publishers)
}

func TestPickWebsitePrefersOfficial(t *testing.T) {
	sites := []igdb.Website{
		{Category: 13, URL: "https://store.steampowered.com/app/1"},
		{Category: igdb.WebsiteCategoryOfficial, URL: "https://idsoftware.com"},
	}
	assert.Equal(t, "https://idsoftware.com", pickWebsite(sites))

	noOfficial := []igdb.Website{
		{Category: 13, URL: "https://store.steampowered.com/app/1"},
		{Category: 2, URL: "https://wiki.example.com"},
	}
	assert.Equal(t, "https://store.steampowered.com/app/1", pickWebsite(noOfficial))
	assert.Equal(t, "", pickWebsite(nil))
}

func TestFoundedYear(t *testing.T) {
	ts := time.Date(1991, 2, 1, 0, 0, 0, 0, time.UTC).Unix()
	assert.Equal(t, 1991, foundedYear(ts))
	assert.Equal(t, 0, foundedYear(0))
	assert.Equal(t, 0, foundedYear(-1000))
}

func TestNormalizeImageURL(t *testing.T) {
	logo := normalizeImageURL("//images.igdb.com/igdb/image/upload/t_thumb/abc.jpg", "t_logo_med")
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_logo_med/abc.jpg", logo)

	cover := normalizeCoverURL(&igdb.Image{URL: "//images.igdb.com/igdb/image/upload/t_thumb/co1.jpg"})
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_cover_big/co1.jpg", cover)

	assert.Equal(t, "", normalizeCoverURL(nil))
	assert.Equal(t, "https://example.com/x.png", normalizeImageURL("https://example.com/x.png", "t_logo_med"))
}

func TestNormalizeReleaseDatesKeepsEarliestPerPlatform(t *testing.T) {
	pc := &igdb.Platform{Name: "PC"}
	ps := &igdb.Platform{Name: "PlayStation 4"}

	mar := time.Date(2020, 3, 20, 0, 0, 0, 0, time.UTC).Unix()
	dec := time.Date(2020, 12, 8, 0, 0, 0, 0, time.UTC).Unix()

	out := normalizeReleaseDates([]igdb.ReleaseDate{
		{Platform: pc, Date: dec},
		{Platform: pc, Date: mar},
		{Platform: ps, Date: mar},
		{Platform: ps, Date: 0},
		{Platform: nil, Date: mar},
	})

	require.Len(t, out, 2)
	assert.Equal(t, int64(mar), out[0].Timestamp)
	assert.Equal(t, int64(mar), out[1].Timestamp)
	// equal timestamps order alphabetically by platform
	assert.Equal(t, "PC", out[0].Platform)
	assert.Equal(t, "PlayStation 4", out[1].Platform)
	assert.Equal(t, "Mar 20, 2020", out[0].Display)
}

func TestNormalizeCompanyFields(t *testing.T) {
	c := igdb.Company{
		Name:        "  id Software ",
		Description: "Makers of fast shooters",
		StartDate:   time.Date(1991, 2, 1, 0, 0, 0, 0, time.UTC).Unix(),
		Websites: []igdb.Website{
			{Category: igdb.WebsiteCategoryOfficial, URL: "https://idsoftware.com"},
		},
		Logo: &igdb.Image{URL: "//images.igdb.com/igdb/image/upload/t_thumb/logo.png"},
	}

	cand := normalizeCompany(c)
	assert.Equal(t, "id Software", cand.Name)
	assert.Equal(t, 1991, cand.FoundedYear)
	assert.Equal(t, "https://idsoftware.com", cand.Website)
	assert.Equal(t, "https://images.igdb.com/igdb/image/upload/t_logo_med/logo.png", cand.LogoURL)
}
