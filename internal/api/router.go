// Package api exposes the combat world over HTTP and WebSocket for the UI layer
// and for debugging: read-only world queries, player and spawn commands, live
// events and Prometheus metrics.
package api

import (
	"net/http"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/stats"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/world"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Engine is the part of the world the API drives. *world.Engine implements it;
// tests substitute a fake.
type Engine interface {
	Snapshot() *world.Snapshot
	Tables() *stats.Tables

	SpawnEnemy(preset string, pos combat.Vec3) (combat.EntityID, error)
	MovePlayer(goal combat.Vec3) (ai.MoveResult, error)
	PlayerAttack(target combat.EntityID) error
	PlayerAbility(slot weapon.Slot, target combat.EntityID) error
	PlayerDefend() (combat.Outcome, float64, error)
	SwitchWeapon(name weapon.Name) error
	CollectShard(c shard.Category) int
	ActivateShards(c shard.Category, count int) bool
	UseAltar(id string, count int) (bool, error)
}

var _ Engine = (*world.Engine)(nil)

// EventJournal is the read side of the event log. *events.EventLog implements it.
type EventJournal interface {
	GetStats() map[string]interface{}
	Recent(n int) []events.Event
}

// RouterConfig contains everything NewRouter needs.
//
//	router := api.NewRouter(api.RouterConfig{
//	    Engine:          fake,
//	    RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
//	})
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is required.
	Engine Engine

	// EventLog backs /api/events/*. Optional.
	EventLog EventJournal

	// RateLimiter is used as is when set; otherwise one is built from
	// RateLimitConfig, or DefaultRateLimitConfig when that is nil too.
	RateLimiter     *IPRateLimiter
	RateLimitConfig *RateLimitConfig

	// CORSOrigins defaults to localhost on any port.
	CORSOrigins []string

	// DisableLogging drops the request logger (benchmarks, noisy tests).
	DisableLogging bool
}

type routerHandlers struct {
	engine   Engine
	eventLog EventJournal
}

// NewRouter builds the HTTP router. It opens no listeners.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	// Rate limit before CORS so rejected requests cost as little as possible.
	limiter := cfg.RateLimiter
	if limiter == nil {
		rlc := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rlc = *cfg.RateLimitConfig
		}
		limiter = NewIPRateLimiter(rlc)
	}
	r.Use(limiter.Middleware)

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{engine: cfg.Engine, eventLog: cfg.EventLog}

	r.Route("/api", func(r chi.Router) {
		r.Get("/world", h.handleGetWorld)
		r.Get("/entities", h.handleGetEntities)
		r.Get("/entities/{id}", h.handleGetEntity)
		r.Get("/combat", h.handleGetCombat)
		r.Get("/presets", h.handleGetPresets)
		r.Get("/events/stats", h.handleGetEventStats)
		r.Get("/events/recent", h.handleGetRecentEvents)

		r.Post("/enemies", h.handleSpawnEnemy)
		r.Post("/altars/{id}/use", h.handleUseAltar)

		r.Route("/player", func(r chi.Router) {
			r.Post("/move", h.handlePlayerMove)
			r.Post("/attack", h.handlePlayerAttack)
			r.Post("/ability", h.handlePlayerAbility)
			r.Post("/defend", h.handlePlayerDefend)
			r.Post("/weapon", h.handlePlayerWeapon)
			r.Post("/shards/collect", h.handleCollectShard)
			r.Post("/shards/activate", h.handleActivateShards)
		})
	})

	return r
}

// requestMetrics records latency per route pattern, never per raw URL.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, pattern, status, time.Since(start))
	})
}
