package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/dapperline/deckhand/internal/catalog"
	"github.com/dapperline/deckhand/internal/relay"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router serves the compiled catalog and the relay endpoint.
type Router struct {
	*chi.Mux

	catalog *catalog.Catalog
	mu      sync.RWMutex
}

// NewRouter wires the console endpoints. The catalog is read-only for
// handlers; a document reload swaps it wholesale via SetCatalog.
func NewRouter(cat *catalog.Catalog, rl *relay.Relay) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	router := &Router{
		Mux:     r,
		catalog: cat,
	}

	r.Get("/api/catalog", router.handleCatalog)
	r.Get("/api/operation", router.handleOperation)
	r.Post("/api/relay", rl.Handler())

	return router
}

// Catalog returns the current catalog snapshot.
func (rt *Router) Catalog() *catalog.Catalog {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.catalog
}

// SetCatalog replaces the served catalog after a document reload.
func (rt *Router) SetCatalog(cat *catalog.Catalog) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.catalog = cat
}

func (rt *Router) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	NewJSONResponse(w).Send(rt.Catalog())
}

// handleOperation serves a single catalog entry. The id travels as a query
// parameter because synthesized ids embed the path template, slashes
// included.
func (rt *Router) handleOperation(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	op, ok := rt.Catalog().Operation(id)
	if !ok {
		NewJSONResponse(w).
			WithStatusCode(http.StatusNotFound).
			Send(&SimpleResponse{Message: "operation not found"})
		return
	}
	NewJSONResponse(w).Send(op)
}
