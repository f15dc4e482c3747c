package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/vagas/internal/ai"
	"github.com/spigell/vagas/internal/ai/gemini"
	"github.com/spigell/vagas/internal/application"
	"github.com/spigell/vagas/internal/filtering"
	"github.com/spigell/vagas/internal/listing"
	"github.com/spigell/vagas/internal/logger"
	"github.com/spigell/vagas/internal/portal"
	"github.com/spigell/vagas/internal/profile"
	"github.com/spigell/vagas/internal/secrets"
	"github.com/spigell/vagas/internal/store"
)

// session is what every command works with.
type session struct {
	config       *Config
	logger       *zap.Logger
	store        store.Store
	profiles     *profile.Repository
	applications *application.Service
	source       *listing.Source
}

// newSession builds the logger, reads the config and opens the store.
// Startup failures are fatal.
func newSession(ctx context.Context) *session {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("app", app), zap.String("version", version),
		zap.String("source", config.Source), zap.String("store", config.Store.Driver))

	opts, err := storeOptions(config.Store)
	if err != nil {
		logger.Fatal("loading store secrets", zap.Error(err))
	}

	s, err := store.Open(ctx, opts)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("driver", opts.Driver))
	}

	source := listing.NewSource(config.Source, logger)
	if config.UserAgent != "" {
		source.UserAgent = config.UserAgent
	}

	return &session{
		config:       config,
		logger:       logger,
		store:        s,
		profiles:     profile.NewRepository(s),
		applications: application.NewService(s),
		source:       source,
	}
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing the store", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// portal builds the page state with the configured listing options.
func (s *session) portal(notices portal.Notices) *portal.State {
	key, ok := filtering.ParseSortKey(s.config.Listings.Sort)
	if !ok {
		s.logger.Warn("unknown sort key, keeping source order", zap.String("sort", s.config.Listings.Sort))
		key = filtering.SortKey(s.config.Listings.Sort)
	}

	return portal.New(portal.Options{
		Profiles:     s.profiles,
		Applications: s.applications,
		Source:       s.source,
		Notices:      notices,
		Logger:       s.logger,
		HideApplied:  s.config.Listings.HideApplied,
		MinimumMatch: s.config.Listings.MinMatch,
		Sort:         key,
	})
}

// drafter returns nil unless ai.enabled is set and Gemini can be reached.
func (s *session) drafter(ctx context.Context) ai.Drafter {
	cfg := s.config.AI
	if !cfg.Enabled {
		return nil
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		s.logger.Warn("skipping message drafts", zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or VAGAS_AI_GEMINI_API_KEY"))
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		s.logger.Warn("skipping message drafts", zap.Error(err))
		return nil
	}

	return gemini.NewDrafter(generator, s.logger, cfg.Gemini.MaxLogLength)
}

func storeOptions(cfg *StoreConfig) (store.Options, error) {
	opts := store.Options{
		Driver:        strings.ToLower(strings.TrimSpace(cfg.Driver)),
		Path:          cfg.Path,
		QuotaBytes:    cfg.QuotaBytes,
		RedisURL:      cfg.Redis.URL,
		RedisPrefix:   cfg.Redis.Prefix,
		PostgresTable: cfg.Postgres.Table,
	}

	switch opts.Driver {
	case store.DriverRedis:
		password, err := secrets.LoadOptional(secrets.Source{
			Name:  "redis password",
			Value: cfg.Redis.Password,
			File:  cfg.Redis.PasswordFile,
		})
		if err != nil {
			return opts, err
		}
		opts.RedisPassword = password
	case store.DriverPostgres:
		url, err := secrets.Load(secrets.Source{
			Name:  "postgres url",
			Value: cfg.Postgres.URL,
			File:  cfg.Postgres.URLFile,
		})
		if err != nil {
			return opts, fmt.Errorf("%w (set store.postgres.url-file or VAGAS_STORE_POSTGRES_URL)", err)
		}
		opts.PostgresURL = url
	}

	return opts, nil
}
