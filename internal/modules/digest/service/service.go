package service

import (
	"log/slog"
	"sort"
	"time"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/domain"
	feedDomain "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	"github.com/samber/lo"
)

// Service aggregates fetched articles into a digest.
type Service struct {
	cfg *config.Config
}

// New creates a new digest service
func New(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// Build sorts articles newest-first, groups them by category and wraps
// them with the page metadata. Articles without a date sort last inside
// their section. Sections follow the category order of the feed list;
// categories that only appear on articles are appended after those.
func (s *Service) Build(articles []feedDomain.Article, now time.Time) *domain.Digest {
	sorted := make([]feedDomain.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})

	grouped := lo.GroupBy(sorted, func(a feedDomain.Article) string {
		return a.Category
	})

	categories := lo.Uniq(lo.Map(s.cfg.Feeds, func(src feedDomain.Source, _ int) string {
		return src.Category
	}))
	for _, a := range sorted {
		if _, ok := grouped[a.Category]; ok && !lo.Contains(categories, a.Category) {
			categories = append(categories, a.Category)
		}
	}

	sections := lo.FilterMap(categories, func(category string, _ int) (domain.Section, bool) {
		group, ok := grouped[category]
		if !ok {
			return domain.Section{}, false
		}
		return domain.Section{Category: category, Articles: group}, true
	})

	slog.Info("Digest assembled", "articles", len(sorted), "categories", len(sections))

	return &domain.Digest{
		Title:       s.cfg.Settings.SiteTitle,
		GeneratedAt: now,
		Sections:    sections,
		Total:       len(sorted),
		MaxAgeHours: s.cfg.Settings.MaxAgeHours,
	}
}
