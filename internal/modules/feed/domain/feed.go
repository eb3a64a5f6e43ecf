package domain

import "time"

// Source is a single feed entry from the config file.
type Source struct {
	Name     string `koanf:"name"`
	URL      string `koanf:"url"`
	Category string `koanf:"category"`
}

// Article is one entry pulled out of a fetched feed.
// A zero Published time means the feed did not carry a usable date.
type Article struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
	Source    string
	Category  string
}

// HasDate reports whether the article carries a publication date.
func (a Article) HasDate() bool {
	return !a.Published.IsZero()
}
