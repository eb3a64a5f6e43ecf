package di

import (
	"log/slog"

	digestService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/digest/service"
	feedService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/feed/service"
	renderRepo "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/render/repository"
	renderService "github.com/Roofsimple/tech-custom-rss-feed/internal/modules/render/service"
	"github.com/Roofsimple/tech-custom-rss-feed/internal/shared/config"
	httpServer "github.com/Roofsimple/tech-custom-rss-feed/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container. configPath may be
// empty, in which case the config file is discovered in the working
// directory.
func Setup(configPath string) (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(cfg), nil
	})

	// Register Digest Service
	do.Provide(injector, func(i do.Injector) (*digestService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return digestService.New(cfg), nil
	})

	// Register Render Repository
	do.Provide(injector, func(i do.Injector) (renderRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := renderRepo.NewFileStorage(cfg.Settings.OutputDir)
		if err != nil {
			return nil, oops.With("output_dir", cfg.Settings.OutputDir, "context", "failed to initialize output repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Render Service
	do.Provide(injector, func(i do.Injector) (*renderService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[renderRepo.Repository](i)
		return renderService.New(cfg, repo), nil
	})

	// Register Preview Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(cfg)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}
