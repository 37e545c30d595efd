package scraper

import (
	"strconv"
	"strings"

	"mediascraper/pkg/browser"
)

// excludedKeywords marks assets that are never the full-resolution media:
// site chrome, previews, and tracking pixels.
var excludedKeywords = []string{
	"thumbnail",
	"banner",
	"favicon",
	"logo",
	"icon",
	"placeholder",
}

// selectLargestImage picks the best full-resolution candidate from the
// images on a detail page. Candidates whose combined src/class/id text
// contains an exclusion keyword are dropped first, then candidates below
// the minimum dimensions; the survivor with the largest width*height
// wins. Missing or non-numeric dimensions skip that candidate only.
func selectLargestImage(images []browser.Image, minWidth, minHeight int) (browser.Image, bool) {
	var best browser.Image
	maxArea := 0
	found := false

	for _, img := range images {
		combined := strings.ToLower(img.Src + " " + img.Class + " " + img.ID)
		if containsExcludedKeyword(combined) {
			continue
		}

		width, err := strconv.Atoi(strings.TrimSpace(img.Width))
		if err != nil {
			continue
		}
		height, err := strconv.Atoi(strings.TrimSpace(img.Height))
		if err != nil {
			continue
		}

		if width < minWidth || height < minHeight {
			continue
		}

		if area := width * height; area > maxArea {
			maxArea = area
			best = img
			found = true
		}
	}

	return best, found
}

func containsExcludedKeyword(attrs string) bool {
	for _, keyword := range excludedKeywords {
		if strings.Contains(attrs, keyword) {
			return true
		}
	}
	return false
}
