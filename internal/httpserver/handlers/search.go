package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	redisstore "github.com/MrSnakeDoc/navdesk/internal/store/redis"
)

// Search redirects a free-text query to the best matching link of the
// document. Queries starting with "/" jump to the internal endpoints.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))

		if query == "" {
			http.Redirect(w, r, d.HomepageURL, http.StatusFound)
			return
		}

		if strings.HasPrefix(query, "/") {
			handleInternalEndpoint(w, r, query, d)
			return
		}

		if url, ok := cachedResolution(r.Context(), query, d); ok {
			searchResolutions.WithLabelValues("cache").Inc()
			redirectToLink(w, r, query, url, d)
			return
		}

		link, ok := d.Index.Search(query)
		if !ok {
			searchResolutions.WithLabelValues("miss").Inc()
			d.Logger.Info("no matching link", logger.String("query", query))
			http.Redirect(w, r, d.HomepageURL, http.StatusFound)
			return
		}

		searchResolutions.WithLabelValues("match").Inc()
		if d.Mirror != nil {
			if err := d.Mirror.CacheResolution(r.Context(), query, link.URL, redisstore.DefaultCacheTTL); err != nil {
				d.Logger.Debug("failed to cache resolution", logger.Error(err))
			}
		}
		redirectToLink(w, r, query, link.URL, d)
	}
}

func cachedResolution(ctx context.Context, query string, d deps.Deps) (string, bool) {
	if d.Mirror == nil {
		return "", false
	}
	url, err := d.Mirror.GetCachedResolution(ctx, query)
	if err != nil {
		d.Logger.Debug("cache lookup failed", logger.Error(err))
		return "", false
	}
	return url, url != ""
}

func redirectToLink(w http.ResponseWriter, r *http.Request, query, url string, d deps.Deps) {
	hits := d.Index.RecordHit(url)
	if d.Mirror != nil {
		if n, err := d.Mirror.IncrementUsage(r.Context(), url); err == nil {
			hits = n
		}
	}
	d.Logger.Info("search resolved",
		logger.String("query", query),
		logger.String("url", url),
		logger.Int64("hits", hits))
	http.Redirect(w, r, url, http.StatusFound)
}

func handleInternalEndpoint(w http.ResponseWriter, r *http.Request, query string, d deps.Deps) {
	searchResolutions.WithLabelValues("internal").Inc()
	if endpoint := matchInternalEndpoint(query); endpoint != "" {
		http.Redirect(w, r, endpoint, http.StatusFound)
		return
	}
	http.Redirect(w, r, d.HomepageURL, http.StatusFound)
}

// matchInternalEndpoint returns the endpoint uniquely prefixed by query.
func matchInternalEndpoint(query string) string {
	endpoints := []string{"/infra", "/healthz", "/readyz", "/metrics"}

	query = strings.ToLower(query)
	match := ""
	for _, endpoint := range endpoints {
		if strings.HasPrefix(endpoint, query) {
			if match != "" {
				return ""
			}
			match = endpoint
		}
	}
	return match
}
