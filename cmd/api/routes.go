package main

import (
	"context"
	"net/http"
	"time"

	"bookalchemy/internal/author"
	"bookalchemy/internal/book"
	"bookalchemy/internal/cover"
	"bookalchemy/internal/httpx"
	"bookalchemy/internal/platform/crypto"
	"bookalchemy/internal/session"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routes struct {
	authors *author.HTTPHandler
	books   *book.HTTPHandler
	covers  *cover.HTTPHandler
	tokens  *session.HTTPHandler
	auth    *httpx.Authenticator
	ready   func(context.Context) error
}

func newRouter(rt routes) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	admin := rt.auth.Require(crypto.RoleAdmin)

	router.HandleFunc("GET /v1/authors", rt.authors.List)
	router.HandleFunc("GET /v1/authors/{id}", rt.authors.Get)
	router.Handle("POST /v1/authors", admin(http.HandlerFunc(rt.authors.Create)))

	router.HandleFunc("GET /v1/books", rt.books.List)
	router.HandleFunc("GET /v1/books/{id}", rt.books.Get)
	router.Handle("POST /v1/books", admin(http.HandlerFunc(rt.books.Create)))
	router.Handle("DELETE /v1/books/{id}", admin(http.HandlerFunc(rt.books.Delete)))

	// Every identifier resolved here stays cached, so only admins may add them.
	router.Handle("GET /v1/covers/{isbn}", admin(http.HandlerFunc(rt.covers.Resolve)))

	router.Handle("POST /v1/tokens/revoke", rt.auth.Require()(http.HandlerFunc(rt.tokens.Revoke)))

	return router
}
