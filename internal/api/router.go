// Package api serves health, metrics, status and the on-demand rebuild trigger.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/thebettingsean/team-rankings/internal/jobs"
	"github.com/thebettingsean/team-rankings/internal/models"
	"github.com/thebettingsean/team-rankings/internal/rankings"
)

// Rebuilder runs rebuilds and reports the last one
type Rebuilder interface {
	Run(ctx context.Context, trigger string, opts rankings.RunOptions) (*rankings.Summary, error)
	LastSummary(ctx context.Context) (*rankings.Summary, error)
}

// Options configures the router
type Options struct {
	// TriggerSecret is the bearer token POST /rebuild requires; empty disables the trigger
	TriggerSecret string
	// Health reports store connectivity
	Health func(ctx context.Context) error
	// NextRun reports the next scheduled rebuild, if a scheduler is running
	NextRun func() time.Time
	// BaseContext, when set, parents triggered runs so shutdown can cancel them.
	// Otherwise runs are detached from the request.
	BaseContext context.Context
}

type handler struct {
	job  Rebuilder
	opts Options
}

// NewRouter builds the HTTP routes
func NewRouter(job Rebuilder, opts Options) http.Handler {
	h := &handler{job: job, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/status", h.status)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSecret)
		r.Post("/rebuild", h.rebuild)
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		if err := h.opts.Health(r.Context()); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type statusResponse struct {
	LastRun *rankings.Summary `json:"last_run"`
	NextRun *time.Time        `json:"next_run,omitempty"`
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	summary, err := h.job.LastSummary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := statusResponse{LastRun: summary}
	if h.opts.NextRun != nil {
		if next := h.opts.NextRun(); !next.IsZero() {
			resp.NextRun = &next
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *handler) rebuild(w http.ResponseWriter, r *http.Request) {
	opts, err := parseRunOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A dropped client must not abort a rebuild halfway through
	ctx := h.opts.BaseContext
	if ctx == nil {
		ctx = context.WithoutCancel(r.Context())
	}

	summary, err := h.job.Run(ctx, jobs.TriggerHTTP, opts)
	if errors.Is(err, jobs.ErrRunInProgress) {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Triggered rebuild failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *handler) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.opts.TriggerSecret == "" {
			respondError(w, http.StatusForbidden, "rebuild trigger is disabled")
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.opts.TriggerSecret)) != 1 {
			respondError(w, http.StatusUnauthorized, "invalid trigger secret")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func parseRunOptions(r *http.Request) (rankings.RunOptions, error) {
	q := r.URL.Query()
	var opts rankings.RunOptions

	var err error
	if opts.Season, err = intParam(q.Get("season")); err != nil {
		return opts, errors.New("season must be an integer")
	}
	if opts.Week, err = intParam(q.Get("week")); err != nil {
		return opts, errors.New("week must be an integer")
	}
	if opts.Week != 0 && opts.Season == 0 {
		return opts, errors.New("week requires season")
	}
	if v := q.Get("dry_run"); v != "" {
		if opts.DryRun, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New("dry_run must be a boolean")
		}
	}
	if opts.Season != 0 && opts.Week != 0 {
		opts.Sample = &models.Period{Season: opts.Season, Week: opts.Week}
	}

	return opts, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
