package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/domain"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Settings holds the digest knobs from the `settings` block.
type Settings struct {
	MaxAgeHours        int     `koanf:"max_age_hours"`
	MaxArticlesPerFeed int     `koanf:"max_articles_per_feed"`
	Timezone           string  `koanf:"timezone"`
	SiteTitle          string  `koanf:"site_title"`
	SiteURL            string  `koanf:"site_url"`
	OutputDir          string  `koanf:"output_dir"`
	TemplatePath       string  `koanf:"template_path"`
	HTTPTimeoutSeconds int     `koanf:"http_timeout_seconds"`
	RequestsPerSecond  float64 `koanf:"requests_per_second"`
	PreviewPort        string  `koanf:"preview_port"`
}

type Config struct {
	Settings Settings        `koanf:"settings"`
	Feeds    []domain.Source `koanf:"feeds"`
	AppEnv   AppEnv          `koanf:"app_env"`
}

// MaxAge returns the article age cutoff as a duration.
func (s Settings) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeHours) * time.Hour
}

// HTTPTimeout returns the per-request fetch timeout.
func (s Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// Location returns the display timezone. The zone name is validated at
// load time, so the fallback only triggers for hand-built configs.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the config file at path, or discovers one in the working
// directory when path is empty. Environment variables prefixed with
// DIGEST_ override file values (double underscore nests keys, e.g.
// DIGEST_SETTINGS__SITE_TITLE -> settings.site_title).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	configFile := path
	if configFile == "" {
		// Try to load config file from various formats
		configFiles := []string{
			"feeds.yaml",
			"feeds.yml",
			"feeds.json",
			"feeds.toml",
		}

		// Use lo.Find to find the first existing config file
		found, ok := lo.Find(configFiles, func(file string) bool {
			_, err := os.Stat(file)
			return err == nil
		})
		if ok {
			configFile = found
		}
	}

	if configFile != "" {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("DIGEST_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DIGEST_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("settings.max_age_hours") {
		k.Set("settings.max_age_hours", 24)
	}
	if !k.Exists("settings.max_articles_per_feed") {
		k.Set("settings.max_articles_per_feed", 10)
	}
	if !k.Exists("settings.timezone") {
		k.Set("settings.timezone", "UTC")
	}
	if !k.Exists("settings.site_title") {
		k.Set("settings.site_title", "Daily Digest")
	}
	if !k.Exists("settings.output_dir") {
		k.Set("settings.output_dir", ".")
	}
	if !k.Exists("settings.http_timeout_seconds") {
		k.Set("settings.http_timeout_seconds", 15)
	}
	if !k.Exists("settings.requests_per_second") {
		k.Set("settings.requests_per_second", 2.0)
	}
	if !k.Exists("settings.preview_port") {
		k.Set("settings.preview_port", "8080")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// Unmarshal into struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Parse AppEnv from string if needed
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	// Feeds without a category land in General
	cfg.Feeds = lo.Map(cfg.Feeds, func(src domain.Source, _ int) domain.Source {
		if src.Category == "" {
			src.Category = "General"
		}
		return src
	})

	// Validate required fields
	if len(cfg.Feeds) == 0 {
		return nil, errors.ErrNoFeeds
	}
	for _, src := range cfg.Feeds {
		if src.Name == "" || src.URL == "" {
			return nil, oops.With("feed_name", src.Name, "feed_url", src.URL).Errorf("feed entries need both name and url")
		}
	}
	if _, err := time.LoadLocation(cfg.Settings.Timezone); err != nil {
		return nil, oops.With("timezone", cfg.Settings.Timezone).Wrap(err)
	}

	return &cfg, nil
}
