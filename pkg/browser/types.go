package browser

import (
	"context"
	"time"
)

// DetailTab is the capability set of a detail-page browsing context.
// Implemented by Tab; scraper tests substitute fakes.
type DetailTab interface {
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	Images(ctx context.Context) ([]Image, error)
	Close() error
}

// Thumbnail is one preview element collected from a gallery page, together
// with the detail link of its enclosing anchor (empty when the thumbnail
// has no ancestor link).
type Thumbnail struct {
	Src  string `json:"src"`
	Link string `json:"link"`
}

// Image is an image element inspected on a detail page. Width and height
// are the raw declared attribute values; selection skips candidates whose
// values are missing or non-numeric.
type Image struct {
	Src    string `json:"src"`
	Class  string `json:"class"`
	ID     string `json:"id"`
	Width  string `json:"width"`
	Height string `json:"height"`
}
