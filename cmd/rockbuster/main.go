package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	adapthttp "rockbuster/internal/adapter/http"
	"rockbuster/internal/adapter/memory"
	adaptmongo "rockbuster/internal/adapter/mongo"
	"rockbuster/internal/adapter/postgres"
	adaptredis "rockbuster/internal/adapter/redis"
	"rockbuster/internal/app"
	"rockbuster/internal/config"
	"rockbuster/internal/domain"
	"rockbuster/internal/searchlog"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	mdb, err := adaptmongo.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo open failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = mdb.Close(context.Background()) }()

	pdb, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error("postgres open failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = pdb.Close() }()

	var store domain.SessionStore
	if cfg.RedisAddr != "" {
		client, err := adaptredis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("redis open failed", "err", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		store = adaptredis.NewSessionStore(client)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		store = memory.NewSessionStore()
		logger.Info("using in-memory session store")
	}

	hasher := app.NewHasher(cfg.BcryptCost)
	sessions := app.NewSessionManager(mdb, store, cfg.SessionTTL, logger)
	auth := app.NewAuthService(mdb, hasher, sessions, logger)
	catalog := app.NewCatalogService(mdb.Movies(), pdb)

	searches, err := searchlog.New(cfg.LogDir, logger)
	if err != nil {
		logger.Error("search log init failed", "err", err)
		os.Exit(1)
	}
	defer searches.Close()

	render, err := adapthttp.NewRenderer(filepath.Join(cfg.WebDir, "templates"), logger)
	if err != nil {
		logger.Error("template parse failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      adapthttp.New(auth, sessions, catalog, searches, render, cfg.WebDir, logger).Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
