package commands

import (
	"fmt"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/internal/external/filings"
	"github.com/equitylens/backend/internal/external/marketfeed"
	"github.com/equitylens/backend/internal/external/qualitative"
	"github.com/equitylens/backend/internal/scoring"
	"github.com/equitylens/backend/internal/store"
	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/database"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
	"github.com/equitylens/backend/pkg/redis"
)

// stack bundles the shared dependencies the commands assemble. db and repo
// are nil when DATABASE_URL is not set; scoring then runs without persistence.
type stack struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	rdb      *redis.Client
	repo     *store.ScoreRepository
	quotes   *marketfeed.Client
	pipeline *scoring.Pipeline
}

// buildStack wires config, logging, persistence, the upstream clients and
// the scoring pipeline.
func buildStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	var db *database.DB
	var repo *store.ScoreRepository
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo = store.NewScoreRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, scores will not be persisted")
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	httpClient := httputil.New(cfg, log)

	var bars contracts.BarProvider
	var quotes *marketfeed.Client
	if cfg.MarketFeed.BaseURL != "" {
		client := marketfeed.NewClient(cfg.MarketFeed, httpClient, log)
		if rdb.Enabled() {
			client = client.WithCache(redis.NewCache(rdb, "lens"))
			log.Info("Bar history caching enabled")
		}
		bars = client
		quotes = client
	}

	var statements contracts.StatementProvider
	if cfg.Filings.BaseURL != "" {
		client := filings.NewClient(cfg.Filings, httpClient, log)
		if rdb.Enabled() {
			client = client.WithRateLimiter(redis.NewRateLimiter(rdb, "lens"))
		}
		statements = client
	}

	var qual contracts.QualitativeProvider
	if cfg.Qualitative.BaseURL != "" {
		qual = qualitative.NewClient(cfg.Qualitative, httpClient, log)
	}

	var scoreRepo contracts.ScoreRepository
	if repo != nil {
		scoreRepo = repo
	}

	pipeline := scoring.NewPipeline(bars, statements, qual, scoreRepo, log).
		WithWindows(cfg.Scoring.LookbackDays, cfg.Scoring.StatementYears)

	return &stack{
		cfg:      cfg,
		log:      log,
		db:       db,
		rdb:      rdb,
		repo:     repo,
		quotes:   quotes,
		pipeline: pipeline,
	}, nil
}

// close releases held resources
func (s *stack) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.rdb != nil {
		s.rdb.Close()
	}
}
