package api

import (
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values are bounded enums; entity IDs never become labels.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "combat_tick_duration_seconds",
		Help:    "Time spent in one simulation step",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.033},
	})

	damageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_damage_total",
		Help: "Health removed, by damage type",
	}, []string{"type", "area"})

	deathsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "combat_deaths_total",
		Help: "Entity deaths, by kind",
	}, []string{"kind"})

	aiTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_state_transitions_total",
		Help: "Enemy AI state changes",
	}, []string{"from", "to"})

	inCombat = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "combat_in_combat",
		Help: "1 while any enemy is alerted",
	})

	alertedEnemies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "combat_alerted_enemies",
		Help: "Enemies currently engaging the player",
	})

	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_total",
		Help: "Events offered to the journal",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_dropped_total",
		Help: "Events dropped by rate limiting or a full buffer",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Requests and connections rejected",
	}, []string{"reason"}) // rate_limit, origin, ws_total_limit, ws_ip_limit

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Open WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket messages broadcast",
	})
)

// ObservabilityConfig configures the debug server.
type ObservabilityConfig struct {
	Enabled    bool
	ListenAddr string // Forced to localhost unless ALLOW_DEBUG_EXTERNAL=true
	Logger     *slog.Logger
}

// DefaultObservabilityConfig binds to localhost only.
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// DebugMux serves pprof, /metrics and /health.
func DebugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// StartDebugServer serves DebugMux in the background.
// pprof must never be reachable from outside the host.
func StartDebugServer(cfg ObservabilityConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		logger.Info("debug server disabled")
		return
	}

	host := cfg.ListenAddr
	if !isLoopback(host) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		logger.Warn("debug server forced to localhost", "requested", host)
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	go func() {
		logger.Info("debug server starting", "addr", cfg.ListenAddr,
			"pprof", "http://"+cfg.ListenAddr+"/debug/pprof/",
			"metrics", "http://"+cfg.ListenAddr+"/metrics")
		if err := http.ListenAndServe(cfg.ListenAddr, DebugMux()); err != nil {
			logger.Error("debug server stopped", "err", err)
		}
	}()
}

func isLoopback(addr string) bool {
	for _, p := range []string{"127.0.0.1:", "localhost:", "[::1]:"} {
		if len(addr) > len(p) && addr[:len(p)] == p {
			return true
		}
	}
	return false
}

// RecordTick observes one simulation step.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordDamage counts health removed by a hit.
func RecordDamage(p events.DamagePayload) {
	area := "false"
	if p.IsArea {
		area = "true"
	}
	damageTotal.WithLabelValues(p.DamageType, area).Add(p.Amount)
}

// RecordDeath counts a death.
func RecordDeath(_ string, kind combat.Kind) {
	deathsTotal.WithLabelValues(string(kind)).Inc()
}

// RecordTransition counts an AI state change.
func RecordTransition(from, to string) {
	aiTransitions.WithLabelValues(from, to).Inc()
}

// ObserveEvent keeps the combat gauges in step with the bus.
func ObserveEvent(ev events.Event) {
	if ev.Type != events.EventTypeCombatStateChanged {
		return
	}
	var p events.CombatStatePayload
	if err := ev.Decode(&p); err != nil {
		return
	}
	if p.InCombat {
		inCombat.Set(1)
	} else {
		inCombat.Set(0)
	}
	alertedEnemies.Set(float64(p.AlertedCount))
}

var eventLogSeen struct {
	sync.Mutex
	total, dropped uint64
}

// UpdateEventLogStats adds the journal counters' growth since the last call.
func UpdateEventLogStats(total, dropped uint64) {
	eventLogSeen.Lock()
	defer eventLogSeen.Unlock()
	if total > eventLogSeen.total {
		eventLogTotal.Add(float64(total - eventLogSeen.total))
		eventLogSeen.total = total
	}
	if dropped > eventLogSeen.dropped {
		eventLogDropped.Add(float64(dropped - eventLogSeen.dropped))
		eventLogSeen.dropped = dropped
	}
}

// RecordConnectionRejected counts a rejection. reason must be a bounded value.
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest observes one HTTP request.
func RecordRequest(method, endpoint string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections sets the open connection gauge.
func UpdateWSConnections(n int) {
	wsConnectionsActive.Set(float64(n))
}

// IncrementWSMessages counts one broadcast.
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
