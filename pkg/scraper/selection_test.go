package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediascraper/pkg/browser"
)

func TestSelectLargestImagePicksLargestArea(t *testing.T) {
	images := []browser.Image{
		{Src: "https://cdn.example.com/a.jpg", Width: "400", Height: "400"},
		{Src: "https://cdn.example.com/b.jpg", Width: "800", Height: "600"},
		{Src: "https://cdn.example.com/c.jpg", Width: "500", Height: "500"},
	}

	best, ok := selectLargestImage(images, 300, 300)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/b.jpg", best.Src)
}

func TestSelectLargestImageExcludedKeywordBeatsOrder(t *testing.T) {
	// The keyword-excluded candidate is declared first and is never
	// chosen, even though a plain area comparison would consider it.
	images := []browser.Image{
		{Src: "https://cdn.example.com/small.jpg", Class: "thumbnail", Width: "100", Height: "100"},
		{Src: "https://cdn.example.com/full.jpg", Width: "400", Height: "400"},
	}

	best, ok := selectLargestImage(images, 0, 0)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/full.jpg", best.Src)
}

func TestSelectLargestImageKeywordsInAnyAttribute(t *testing.T) {
	tests := []struct {
		name string
		img  browser.Image
	}{
		{"keyword in src", browser.Image{Src: "https://cdn.example.com/site-logo.png", Width: "500", Height: "500"}},
		{"keyword in class", browser.Image{Src: "https://cdn.example.com/x.jpg", Class: "hero-banner", Width: "500", Height: "500"}},
		{"keyword in id", browser.Image{Src: "https://cdn.example.com/y.jpg", ID: "favicon-large", Width: "500", Height: "500"}},
		{"keyword uppercase", browser.Image{Src: "https://cdn.example.com/Placeholder.jpg", Width: "500", Height: "500"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := selectLargestImage([]browser.Image{tt.img}, 0, 0)
			assert.False(t, ok)
		})
	}
}

func TestSelectLargestImageMinimumDimensionsAreIndependent(t *testing.T) {
	// Width below the minimum rejects the candidate regardless of area.
	images := []browser.Image{
		{Src: "https://cdn.example.com/tall.jpg", Width: "290", Height: "400"},
	}

	_, ok := selectLargestImage(images, 300, 200)
	assert.False(t, ok)
}

func TestSelectLargestImageSkipsNonNumericDimensions(t *testing.T) {
	images := []browser.Image{
		{Src: "https://cdn.example.com/broken.jpg", Width: "100%", Height: "400"},
		{Src: "https://cdn.example.com/missing.jpg", Width: "", Height: "400"},
		{Src: "https://cdn.example.com/good.jpg", Width: "400", Height: "400"},
	}

	best, ok := selectLargestImage(images, 300, 300)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/good.jpg", best.Src)
}

func TestSelectLargestImageNoSurvivors(t *testing.T) {
	images := []browser.Image{
		{Src: "https://cdn.example.com/icon.png", Width: "600", Height: "600"},
		{Src: "https://cdn.example.com/tiny.jpg", Width: "50", Height: "50"},
	}

	_, ok := selectLargestImage(images, 300, 300)
	assert.False(t, ok)
}

func TestSelectLargestImageEmptyInput(t *testing.T) {
	_, ok := selectLargestImage(nil, 300, 300)
	assert.False(t, ok)
}
