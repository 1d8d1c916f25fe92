package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kavacham/backend/internal/handler"
)

// app holds the handlers the HTTP surface is assembled from.
type app struct {
	h          *handler.Handler
	contact    *handler.ContactHandler
	astrologer *handler.AstrologerHandler
	waitlist   *handler.WaitlistHandler
	pages      *handler.PagesHandler
	limiter    *handler.RateLimiter
}

// routes builds the mux and wraps it so every response, including 404s,
// preflights and 429s, carries a request id plus the security and CORS
// headers.
func routes(a app) http.Handler {
	limited := func(f http.HandlerFunc) http.Handler {
		return a.limiter.Middleware(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", a.h.Health)
	mux.HandleFunc("GET /api/pages/{slug}", a.pages.Page)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Intake API (rate limited per client IP)
	mux.Handle("POST /api/contact", limited(a.contact.Submit))
	mux.Handle("POST /api/astrologers/register", limited(a.astrologer.Register))
	mux.Handle("POST /api/waitlist", limited(a.waitlist.Join))
	mux.Handle("POST /api/join", limited(a.waitlist.Join))

	return handler.RequestLogger(handler.SecurityHeaders(a.h.CORS(mux)))
}
