package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/middleware"
)

func newRouter(h *holder, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/schemas", h.listSchemas)
	r.Post("/schemas/{name}/load", h.load)
	return r
}

func (h *holder) listSchemas(w http.ResponseWriter, _ *http.Request) {
	_, types := h.current()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.FullName()
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": names})
}

func (h *holder) load(w http.ResponseWriter, r *http.Request) {
	reg, _ := h.current()
	t, err := reg.Resolve(chi.URLParam(r, "name"))
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, goschema.ErrAmbiguousName) {
			status = http.StatusConflict
		}
		middleware.WriteError(w, r, status, err)
		return
	}
	mode := goschema.ManyOff
	if many, _ := strconv.ParseBool(r.URL.Query().Get("many")); many {
		mode = goschema.ManyOn
	}
	load := middleware.Load(t.New(goschema.WithObserver(h.obs)), middleware.Many(mode))
	load(http.HandlerFunc(writeLoaded)).ServeHTTP(w, r)
}

func writeLoaded(w http.ResponseWriter, r *http.Request) {
	v, _ := middleware.Loaded(r.Context())
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
