package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/staymatch/server/internal/config"
	"codeberg.org/staymatch/server/internal/ratelimit"
	"codeberg.org/staymatch/server/staymatch/negotiation"
	"codeberg.org/staymatch/server/staymatch/store"
)

const (
	// sustained message rate and burst allowance per sender
	chatMessagesPerSecond = 1.0
	chatBurst             = 5
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// small pool sized for pooler-fronted hosting (PgBouncer transaction
	// mode); simple protocol avoids prepared statements hanging there
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	st := store.NewPostgres(db)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		db:          db,
		config:      cfg,
		store:       st,
		negotiation: negotiation.NewService(st),
		chatLimiter: ratelimit.NewPerSender(chatMessagesPerSecond, chatBurst),
		router:      gin.Default(),
	}

	RegisterRoutes(server.router, server)

	return server, nil
}
