package cmd

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/internal/broker"
	"github.com/DhavalSuthar-24/crease/internal/identity"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/player"
	"github.com/DhavalSuthar-24/crease/routes"
)

// models lists every table AutoMigrate manages.
var models = []interface{}{
	&player.Player{},
	&match.Match{},
	&match.BallEvent{},
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("AutoMigrate failed: %w", err)
	}
	log.Println("AutoMigrate successful")
	return nil
}

// app is the fully wired server.
type app struct {
	deps     routes.Dependencies
	producer broker.Producer
}

func matchOptions(cfg *config.Config) match.Options {
	return match.Options{
		DefaultOvers:      cfg.Scoring.DefaultOvers,
		DefaultWideRuns:   cfg.Scoring.WideRuns,
		DefaultNoBallRuns: cfg.Scoring.NoBallRuns,
		MaxRetries:        cfg.Scoring.TxMaxRetries,
		RetryBackoff:      cfg.Scoring.TxRetryBackoff,
	}
}

func newApp(cfg *config.Config, db *gorm.DB) (*app, error) {
	var repo match.MatchRepository
	if cfg.App.StoreDriver == config.StoreMemory {
		repo = match.NewMemoryMatchRepository()
	} else {
		repo = match.NewGormMatchRepository(db)
	}
	players := player.NewPlayerRepository(db)
	hub := live.NewHub()

	var producer broker.Producer
	if cfg.Broker.URL != "" {
		p, err := broker.NewAMQPProducer(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			return nil, err
		}
		producer = p
	} else {
		log.Println("AMQP_URL not set, match events stay in process")
		producer = broker.NewInMemoryBroker()
	}

	notifier := match.Notifiers{hub, broker.NewPublisher(producer)}
	service := match.NewMatchService(repo, players, identity.ContextProvider{}, notifier, matchOptions(cfg))

	return &app{
		deps: routes.Dependencies{
			Config:  cfg,
			Matches: service,
			Players: players,
			Hub:     hub,
		},
		producer: producer,
	}, nil
}

func (a *app) run(ctx context.Context) {
	go a.deps.Hub.Run(ctx)
}

func (a *app) close() {
	if err := a.producer.Close(); err != nil {
		log.Printf("Failed to close broker: %v", err)
	}
}
