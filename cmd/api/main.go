package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/http"
	mw "github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/http/middleware"
	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/secondary/email"
	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/secondary/mongodb"
	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/config"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/services"
	"github.com/fairwaylive/fantasy-golf-backend/internal/infrastructure/logging"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Connect to the Document Store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.Mongo.Database)
	logger.Info("mongodb connection established", "database", cfg.Mongo.Database)

	// 4. Security
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	// 5. Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	userRepo := mongodb.NewUserRepository(db)
	tournamentRepo := mongodb.NewTournamentRepository(db)
	leaderboardRepo := mongodb.NewLeaderboardRepository(db)
	leagueRepo := mongodb.NewLeagueRepository(db)
	teamRepo := mongodb.NewTeamRepository(db)
	playerRepo := mongodb.NewPlayerRepository(db)
	inviteRepo := mongodb.NewInviteRepository(db)

	// Notifier (Secondary Adapter)
	notifier := email.NewMockSMTPNotifier(logger)

	// Services (Core)
	userService := services.NewUserService(userRepo, tokenManager)
	tournamentService := services.NewTournamentService(tournamentRepo)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo)
	leagueService := services.NewLeagueService(leagueRepo)
	teamService := services.NewTeamService(teamRepo, leagueRepo, playerRepo)
	playerService := services.NewPlayerService(playerRepo)
	inviteService := services.NewInviteService(inviteRepo, leagueRepo, notifier)
	snapshotService := services.NewSnapshotService(
		tournamentRepo, leaderboardRepo, leagueRepo, teamRepo, playerRepo, inviteRepo)

	// Real-time pipeline: change feed -> normalizer -> bus -> registry
	registry := realtime.NewRegistry(logger)
	bus := realtime.NewBus(logger)
	normalizer := realtime.NewNormalizer(cfg.Realtime.InsignificantFields, logger)
	changeCache := realtime.NewChangeCache(cfg.Realtime.ChangeCacheWindow)
	changeCache.Attach(bus)
	dispatcher := realtime.NewDispatcher(registry, bus, snapshotService,
		cfg.Realtime.SendBufferSize, cfg.Realtime.SnapshotTimeout, logger)

	monitor := realtime.NewMonitor(registry,
		cfg.Realtime.HeartbeatInterval, cfg.Realtime.LivenessMultiplier, logger)
	go monitor.Run(ctx)

	feedWatcher := realtime.NewFeedWatcher(mongodb.NewChangeFeed(db),
		normalizer, bus, cfg.Realtime.FeedRestartBackoff, logger)
	feedWatcher.Start(ctx)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(userService, errorHandler, logger)
	meHandler := httpAdapter.NewMeHandler(userService, errorHandler, logger)
	tournamentHandler := httpAdapter.NewTournamentHandler(tournamentService, leaderboardService, errorHandler, logger)
	leaderboardHandler := httpAdapter.NewLeaderboardHandler(leaderboardService, errorHandler, logger)
	playerHandler := httpAdapter.NewPlayerHandler(playerService, errorHandler, logger)
	teamHandler := httpAdapter.NewTeamHandler(teamService, errorHandler, logger)
	inviteHandler := httpAdapter.NewInviteHandler(inviteService, errorHandler, logger)
	leagueHandler := httpAdapter.NewLeagueHandler(leagueService, teamHandler, inviteHandler, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(dispatcher, tokenManager, cfg, logger)
	streamHandler := httpAdapter.NewStreamHandler(dispatcher, changeCache, tokenManager, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(mongodb.NewPinger(client), registry, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// Streaming routes (authentication is handled inside the handlers
		// because browsers cannot set headers on WebSocket or EventSource)
		r.Get("/ws", wsHandler.ServeHTTP)
		r.Route("/stream", streamHandler.RegisterRoutes)
		r.Get("/poll", streamHandler.HandlePoll)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/me", meHandler.RegisterRoutes)
			r.Route("/tournaments", tournamentHandler.RegisterRoutes)
			r.Route("/leaderboards", leaderboardHandler.RegisterRoutes)
			r.Route("/players", playerHandler.RegisterRoutes)
			r.Route("/leagues", leagueHandler.RegisterRoutes)
			r.Route("/invites", inviteHandler.RegisterRoutes)
		})
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Stop the feed watchers and monitor, then drop live connections so
	// in-flight HTTP requests can finish draining.
	cancel()
	feedWatcher.Wait()
	registry.CloseAll()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongodb disconnect error", "error", err)
	}

	logger.Info("server shutdown complete")
}
