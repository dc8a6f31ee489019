package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdesk/internal/httpserver/mw"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

const maxDocumentBytes = 1 << 20

// GetConfig serves the full document to the owner and the guest projection
// to everyone else.
func GetConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mw.IsOwner(r.Context()) {
			writeJSON(w, http.StatusOK, d.Index.Document())
			return
		}
		writeJSON(w, http.StatusOK, d.Index.Guest())
	}
}

// PutConfig replaces the stored document. The body must carry at least the
// categories and dock keys; anything else is rejected before touching disk.
func PutConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
		if err != nil {
			configSaves.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}

		doc, err := nav.Parse(body)
		if err != nil {
			configSaves.WithLabelValues("invalid").Inc()
			var pe *apperr.ParseError
			if errors.As(err, &pe) {
				writeError(w, http.StatusBadRequest, pe.Reason)
				return
			}
			writeError(w, http.StatusBadRequest, "invalid document")
			return
		}

		if err := d.Writer.Apply(r.Context(), doc); err != nil {
			configSaves.WithLabelValues("failure").Inc()
			d.Logger.Error("failed to save config", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}

		configSaves.WithLabelValues("success").Inc()
		d.Logger.Info("config replaced by owner",
			logger.Int("categories", len(doc.Categories)),
			logger.Int("dock_items", len(doc.Dock.Items)))
		w.WriteHeader(http.StatusNoContent)
	}
}
