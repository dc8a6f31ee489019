package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/index"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
)

type componentStatus struct {
	OK      bool       `json:"ok"`
	Mode    string     `json:"mode,omitempty"`
	Impact  string     `json:"impact,omitempty"`
	Error   string     `json:"error,omitempty"`
	SavedAt *time.Time `json:"saved_at,omitempty"` // last mirror write
}

type usageStats struct {
	Source string           `json:"source"` // "redis" or "memory"
	Hits   map[string]int64 `json:"hits"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Document   index.Stats                `json:"document"`
	Usage      usageStats                 `json:"usage"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := d.Index.Stats()
		components := map[string]componentStatus{
			"document": documentStatus(stats),
			"redis":    checkRedis(r.Context(), d),
		}
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Document:   stats,
			Usage:      usage(r.Context(), d),
			Components: components,
		})
	}
}

func documentStatus(s index.Stats) componentStatus {
	switch s.Source {
	case "file", "redis":
		return componentStatus{OK: true, Mode: s.Source}
	default:
		return componentStatus{OK: false, Mode: s.Source, Impact: "serving-default-document"}
	}
}

func determineMode(components map[string]componentStatus) string {
	if !components["document"].OK {
		return "fallback"
	}
	if r := components["redis"]; !r.OK && r.Mode != "disabled" {
		return "degraded"
	}
	return "normal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.Mirror == nil {
		return componentStatus{OK: false, Mode: "disabled", Impact: "no-mirror-no-search-cache"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Mirror.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: "no-mirror-no-search-cache", Error: err.Error()}
	}

	status := componentStatus{OK: true, Mode: "optimal"}
	savedAt, err := d.Mirror.SavedAt(ctx)
	switch {
	case err == nil:
		status.SavedAt = &savedAt
	case errors.Is(err, apperr.ErrNotFound):
		status.Impact = "mirror-empty"
	default:
		d.Logger.Debug("failed to read mirror meta", logger.Error(err))
	}
	return status
}

// usage prefers the Redis counters, which survive restarts, over the
// in-memory ones.
func usage(ctx context.Context, d deps.Deps) usageStats {
	if d.Mirror != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		hits, err := d.Mirror.GetUsageStats(ctx)
		if err == nil {
			return usageStats{Source: "redis", Hits: hits}
		}
		d.Logger.Debug("failed to read usage stats", logger.Error(err))
	}
	return usageStats{Source: "memory", Hits: d.Index.Hits()}
}
