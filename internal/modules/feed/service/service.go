package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/errors"
	"github.com/mmcdole/gofeed"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

const (
	userAgent = "RSSDigest/1.0"

	// Summaries longer than this are cut with a trailing ellipsis.
	summaryLimit = 280
)

// Service fetches configured feeds and turns their entries into articles.
type Service struct {
	cfg     *config.Config
	client  *http.Client
	parser  *gofeed.Parser
	limiter *rate.Limiter
}

// New creates a new feed service
func New(cfg *config.Config) *Service {
	limit := rate.Limit(cfg.Settings.RequestsPerSecond)
	if limit <= 0 {
		limit = rate.Inf
	}
	return &Service{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Settings.HTTPTimeout(),
		},
		parser:  gofeed.NewParser(),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FetchAll fetches every configured feed in order. A feed that fails is
// logged and skipped; the rest of the run continues.
func (s *Service) FetchAll(ctx context.Context) []domain.Article {
	var all []domain.Article
	for _, src := range s.cfg.Feeds {
		articles, err := s.Fetch(ctx, src)
		if err != nil {
			slog.Error("Failed to fetch feed", "feed", src.Name, "url", src.URL, "error", err)
			continue
		}
		slog.Info("Fetched feed", "feed", src.Name, "articles", len(articles))
		all = append(all, articles...)
	}
	return all
}

// Fetch retrieves one feed and returns its recent articles. When the URL
// serves an HTML page instead of a feed document, the page's alternate
// link tags are scanned once for a feed URL.
func (s *Service) Fetch(ctx context.Context, src domain.Source) ([]domain.Article, error) {
	body, contentType, err := s.get(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "text/html") {
		feedURL, err := discoverFeedURL(bytes.NewReader(body), src.URL)
		if err != nil {
			return nil, oops.With("url", src.URL).Wrap(err)
		}
		slog.Debug("Discovered feed link", "page", src.URL, "feed", feedURL)
		body, _, err = s.get(ctx, feedURL)
		if err != nil {
			return nil, err
		}
	}

	parsed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, oops.With("url", src.URL).Wrap(err)
	}
	if len(parsed.Items) == 0 {
		return nil, oops.With("url", src.URL).Wrap(errors.ErrEmptyFeed)
	}

	maxArticles := s.cfg.Settings.MaxArticlesPerFeed
	cutoff := time.Now().Add(-s.cfg.Settings.MaxAge())

	// Scan extra entries so old ones can be filtered down to a full cap.
	entries := parsed.Items
	if len(entries) > maxArticles*2 {
		entries = entries[:maxArticles*2]
	}

	var articles []domain.Article
	for _, entry := range entries {
		published := publishedAt(entry)

		// Entries without a date are kept; some feeds omit dates.
		if !published.IsZero() && published.Before(cutoff) {
			continue
		}

		articles = append(articles, domain.Article{
			Title:     entryTitle(entry),
			Link:      entryLink(entry),
			Summary:   CleanSummary(entry.Description),
			Published: published,
			Source:    src.Name,
			Category:  src.Category,
		})

		if len(articles) >= maxArticles {
			break
		}
	}

	return articles, nil
}

func (s *Service) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, "", oops.With("url", rawURL).Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", oops.With("url", rawURL).Wrap(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", oops.With("url", rawURL).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", oops.With("url", rawURL, "status", resp.StatusCode).Errorf("unexpected response status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", oops.With("url", rawURL).Wrap(err)
	}

	contentType := strings.Split(resp.Header.Get("Content-Type"), ";")[0]
	return body, strings.TrimSpace(contentType), nil
}

// discoverFeedURL scans an HTML document's link tags for an RSS or Atom
// alternate and resolves it against the page URL.
func discoverFeedURL(r io.Reader, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	for _, selector := range []string{
		"link[type='application/rss+xml']",
		"link[type='application/atom+xml']",
	} {
		href, exists := doc.Find(selector).First().Attr("href")
		if !exists {
			continue
		}
		u, err := url.Parse(href)
		if err != nil {
			continue
		}
		return base.ResolveReference(u).String(), nil
	}

	return "", errors.ErrNoFeedLink
}

// CleanSummary strips markup from a feed entry summary, collapses
// whitespace and truncates the result.
func CleanSummary(raw string) string {
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > summaryLimit {
		return string(runes[:summaryLimit]) + "…"
	}
	return text
}

func publishedAt(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Time{}
}

func entryTitle(entry *gofeed.Item) string {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return "No title"
	}
	return title
}

func entryLink(entry *gofeed.Item) string {
	if entry.Link == "" {
		return "#"
	}
	return entry.Link
}
