package domain

import (
	"time"

	feedDomain "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/domain"
)

// Section is one category block of the digest page.
type Section struct {
	Category string
	Articles []feedDomain.Article
}

// Digest is the fully aggregated input for rendering.
type Digest struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
	Total       int
	MaxAgeHours int
}
