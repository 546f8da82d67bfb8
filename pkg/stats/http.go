package stats

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const contentTypeYAML = "application/yaml; charset=utf-8"

// Handler serves the registry as YAML:
//
//	GET /               every handler
//	GET /{kind}/{name}  a single handler, 404 if unknown
func (r *Registry) Handler(log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &httpHandler{reg: r, log: log}

	router := chi.NewRouter()
	router.Get("/", h.all)
	router.Get("/{kind}/{name}", h.one)
	return router
}

type httpHandler struct {
	reg *Registry
	log *slog.Logger
}

func (h *httpHandler) all(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, h.reg.Snapshot())
}

func (h *httpHandler) one(w http.ResponseWriter, r *http.Request) {
	kind := Kind(chi.URLParam(r, "kind"))
	name := chi.URLParam(r, "name")

	v, err := h.reg.lookup(kind, name)
	if err != nil {
		if errors.Is(err, ErrUnknownKind) || errors.Is(err, ErrUnknownHandler) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.write(w, r, v)
}

func (h *httpHandler) write(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	if err := encodeYAML(&buf, v); err != nil {
		h.log.ErrorContext(r.Context(), "stats.encode.failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeYAML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
