package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bookalchemy/internal/author"
	"bookalchemy/internal/book"
	"bookalchemy/internal/config"
	"bookalchemy/internal/cover"
	"bookalchemy/internal/httpx"
	"bookalchemy/internal/platform/metrics"
	"bookalchemy/internal/platform/openlibrary"
	"bookalchemy/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRequestBytes   = 1 << 20
	revocationCleanup = time.Hour
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	dbPool := mustOpenDB(cfg.DBDSN)
	defer dbPool.Close()

	metrics.Register()

	olClient := openlibrary.NewClient(openlibrary.Config{
		BaseURL:    cfg.OpenLibraryBaseURL,
		CoversURL:  cfg.OpenLibraryCoversURL,
		UserAgent:  cfg.OpenLibraryUserAgent,
		RPS:        cfg.OpenLibraryRPS,
		MaxRetries: cfg.OpenLibraryMaxRetries,
	})
	resolver := cover.NewResolver(olClient, cover.NewCache(), cover.Options{
		PlaceholderURL: cfg.CoverPlaceholderURL,
		CatalogTimeout: cfg.CatalogTimeout,
		CoverTimeout:   cfg.CoverTimeout,
		Metrics:        metrics.Cover{},
	})

	authorService := author.NewService(author.NewPostgresRepo(dbPool, cfg.DBTimeout))
	bookService := book.NewService(book.NewPostgresRepo(dbPool, cfg.DBTimeout), olClient, resolver, cfg.CatalogTimeout)

	sessionService := session.NewService(session.NewPostgresRepo(dbPool, cfg.DBTimeout))

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Close()

	router := newRouter(routes{
		authors: author.NewHTTPHandler(authorService),
		books:   book.NewHTTPHandler(bookService),
		covers:  cover.NewHTTPHandler(resolver),
		tokens:  session.NewHTTPHandler(sessionService),
		auth:    &httpx.Authenticator{Secret: cfg.JWTSecret, Revoked: sessionService},
		ready:   dbPool.Ping,
	})

	handler := httpx.Chain(router,
		httpx.RecoveryMiddleware,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(maxRequestBytes),
		rateLimiter.Middleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessionService.RunCleanup(ctx, revocationCleanup)

	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
