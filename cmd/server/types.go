package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/staymatch/server/internal/config"
	"codeberg.org/staymatch/server/internal/ratelimit"
	"codeberg.org/staymatch/server/staymatch/negotiation"
	"codeberg.org/staymatch/server/staymatch/store"
)

// holds all dependencies and state for the API server
type Server struct {
	db          *pgxpool.Pool
	config      *config.Config
	store       store.Store
	negotiation *negotiation.Service
	chatLimiter *ratelimit.PerSender
	router      *gin.Engine
}
