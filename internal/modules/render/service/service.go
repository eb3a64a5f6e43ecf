package service

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/render/repository"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	"github.com/gorilla/feeds"
	"github.com/samber/oops"
)

//go:embed templates/digest.gohtml
var defaultTemplate string

const (
	// HTMLFileName is the digest page written to the output directory.
	HTMLFileName = "index.html"
	// RSSFileName is the merged feed written next to the page.
	RSSFileName = "digest.xml"
)

// Service renders a digest to HTML and a merged RSS feed.
type Service struct {
	cfg        *config.Config
	repository repository.Repository
}

// New creates a new render service
func New(cfg *config.Config, repository repository.Repository) *Service {
	return &Service{
		cfg:        cfg,
		repository: repository,
	}
}

// WriteDigest renders the digest page and the merged feed and publishes
// both through the output repository.
func (s *Service) WriteDigest(digest *domain.Digest) error {
	page, err := s.RenderHTML(digest)
	if err != nil {
		return err
	}
	feed, err := s.RenderRSS(digest)
	if err != nil {
		return err
	}

	if err := s.repository.Write(HTMLFileName, page); err != nil {
		return err
	}
	if err := s.repository.Write(RSSFileName, feed); err != nil {
		return err
	}

	slog.Info("Digest written", "output_dir", s.cfg.Settings.OutputDir, "articles", digest.Total)
	return nil
}

// RenderHTML renders the digest page. The embedded template is used
// unless settings.template_path points at a custom one.
func (s *Service) RenderHTML(digest *domain.Digest) ([]byte, error) {
	loc := s.cfg.Settings.Location()

	tpl := template.New("digest").Funcs(template.FuncMap{
		"displayTime": func(t time.Time) string {
			if t.IsZero() {
				return "Date unknown"
			}
			return t.In(loc).Format("3:04 PM · Jan 2")
		},
		"generatedAt": func(t time.Time) string {
			return t.In(loc).Format("Monday, January 2 2006 · 3:04 PM MST")
		},
	})

	source := defaultTemplate
	if s.cfg.Settings.TemplatePath != "" {
		data, err := os.ReadFile(s.cfg.Settings.TemplatePath)
		if err != nil {
			return nil, oops.With("template_path", s.cfg.Settings.TemplatePath).Wrap(err)
		}
		source = string(data)
	}

	tpl, err := tpl.Parse(source)
	if err != nil {
		return nil, oops.With("context", "parsing digest template").Wrap(err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, digest); err != nil {
		return nil, oops.With("context", "executing digest template").Wrap(err)
	}

	return buf.Bytes(), nil
}

// RenderRSS emits the aggregated articles as a single merged feed so the
// digest itself can be subscribed to.
func (s *Service) RenderRSS(digest *domain.Digest) ([]byte, error) {
	feed := &feeds.Feed{
		Title:       digest.Title,
		Link:        &feeds.Link{Href: s.cfg.Settings.SiteURL},
		Description: "Merged digest of the configured feeds",
		Created:     digest.GeneratedAt,
	}

	var items []*feeds.Item
	for _, section := range digest.Sections {
		for _, article := range section.Articles {
			items = append(items, &feeds.Item{
				Title:       article.Title,
				Link:        &feeds.Link{Href: article.Link},
				Description: article.Summary,
				Author:      &feeds.Author{Name: article.Source},
				Created:     article.Published,
				Id:          article.Link,
			})
		}
	}
	feed.Items = items

	rss, err := feed.ToRss()
	if err != nil {
		return nil, oops.With("context", "converting digest to RSS").Wrap(err)
	}

	return []byte(rss), nil
}
