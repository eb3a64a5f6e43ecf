package service_test

import (
	"testing"
	"time"

	digestDomain "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/service"
	feedDomain "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
)

func newTestConfig(feeds ...feedDomain.Source) *config.Config {
	return &config.Config{
		Settings: config.Settings{
			MaxAgeHours: 24,
			SiteTitle:   "Test Digest",
			Timezone:    "UTC",
		},
		Feeds: feeds,
	}
}

func article(title, category string, published time.Time) feedDomain.Article {
	return feedDomain.Article{
		Title:     title,
		Link:      "https://example.com/" + title,
		Published: published,
		Source:    "Example",
		Category:  category,
	}
}

func sectionTitles(s digestDomain.Section) []string {
	return lo.Map(s.Articles, func(a feedDomain.Article, _ int) string {
		return a.Title
	})
}

func TestBuild_SortsArticlesNewestFirst(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(feedDomain.Source{Name: "Example", URL: "https://example.com/rss", Category: "Tech"}))
	digest := s.Build([]feedDomain.Article{
		article("old", "Tech", now.Add(-6*time.Hour)),
		article("new", "Tech", now.Add(-1*time.Hour)),
		article("middle", "Tech", now.Add(-3*time.Hour)),
	}, now)
	if len(digest.Sections) != 1 {
		t.Fatalf("want 1 section, got %d", len(digest.Sections))
	}
	want := []string{"new", "middle", "old"}
	got := sectionTitles(digest.Sections[0])
	if !cmp.Equal(want, got) {
		t.Fatal(cmp.Diff(want, got))
	}
}

func TestBuild_PlacesDatelessArticlesLast(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(feedDomain.Source{Name: "Example", URL: "https://example.com/rss", Category: "Tech"}))
	digest := s.Build([]feedDomain.Article{
		article("dateless", "Tech", time.Time{}),
		article("dated", "Tech", now.Add(-1*time.Hour)),
	}, now)
	got := sectionTitles(digest.Sections[0])
	if got[len(got)-1] != "dateless" {
		t.Fatalf("want dateless article last, got order %v", got)
	}
}

func TestBuild_OrdersSectionsByFeedListCategories(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(
		feedDomain.Source{Name: "A", URL: "https://a.example/rss", Category: "Tech"},
		feedDomain.Source{Name: "B", URL: "https://b.example/rss", Category: "Science"},
		feedDomain.Source{Name: "C", URL: "https://c.example/rss", Category: "Tech"},
	))
	digest := s.Build([]feedDomain.Article{
		article("s1", "Science", now.Add(-1*time.Hour)),
		article("t1", "Tech", now.Add(-2*time.Hour)),
	}, now)
	if len(digest.Sections) != 2 {
		t.Fatalf("want 2 sections, got %d", len(digest.Sections))
	}
	if digest.Sections[0].Category != "Tech" || digest.Sections[1].Category != "Science" {
		t.Fatalf("want sections [Tech Science], got [%s %s]", digest.Sections[0].Category, digest.Sections[1].Category)
	}
}

func TestBuild_MergesArticlesFromFeedsSharingACategory(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(
		feedDomain.Source{Name: "A", URL: "https://a.example/rss", Category: "Tech"},
		feedDomain.Source{Name: "B", URL: "https://b.example/rss", Category: "Tech"},
	))
	digest := s.Build([]feedDomain.Article{
		article("from-a", "Tech", now.Add(-2*time.Hour)),
		article("from-b", "Tech", now.Add(-1*time.Hour)),
	}, now)
	if len(digest.Sections) != 1 {
		t.Fatalf("want 1 merged section, got %d", len(digest.Sections))
	}
	if len(digest.Sections[0].Articles) != 2 {
		t.Fatalf("want 2 articles in merged section, got %d", len(digest.Sections[0].Articles))
	}
}

func TestBuild_SetsPageMetadata(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(feedDomain.Source{Name: "Example", URL: "https://example.com/rss", Category: "Tech"}))
	digest := s.Build([]feedDomain.Article{
		article("one", "Tech", now.Add(-1*time.Hour)),
		article("two", "Tech", now.Add(-2*time.Hour)),
	}, now)
	if digest.Title != "Test Digest" {
		t.Errorf("want title %q, got %q", "Test Digest", digest.Title)
	}
	if digest.Total != 2 {
		t.Errorf("want total 2, got %d", digest.Total)
	}
	if digest.MaxAgeHours != 24 {
		t.Errorf("want max age 24, got %d", digest.MaxAgeHours)
	}
	if !digest.GeneratedAt.Equal(now) {
		t.Errorf("want generated at %v, got %v", now, digest.GeneratedAt)
	}
}

func TestBuild_ReturnsEmptyDigestGivenNoArticles(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	s := service.New(newTestConfig(feedDomain.Source{Name: "Example", URL: "https://example.com/rss", Category: "Tech"}))
	digest := s.Build(nil, now)
	if digest.Total != 0 {
		t.Errorf("want total 0, got %d", digest.Total)
	}
	if len(digest.Sections) != 0 {
		t.Errorf("want no sections, got %d", len(digest.Sections))
	}
}
