package in

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	hclog "github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	historyin "spinwheel/internal/modules/history/port/in"
	rosterin "spinwheel/internal/modules/roster/port/in"
	"spinwheel/internal/modules/wheel/dto"
)

const maxBodyBytes = 1 << 16

// Dispatcher hands a spin request to the goroutine that owns the wheel.
type Dispatcher interface {
	Dispatch(input dto.SpinInput)
}

type DispatcherFunc func(input dto.SpinInput)

func (f DispatcherFunc) Dispatch(input dto.SpinInput) { f(input) }

type HTTPHandler struct {
	dispatch Dispatcher
	roster   rosterin.Usecase
	history  historyin.Usecase
	log      hclog.Logger
}

func NewHTTPHandler(dispatch Dispatcher, roster rosterin.Usecase, history historyin.Usecase, log hclog.Logger) http.Handler {
	h := &HTTPHandler{dispatch: dispatch, roster: roster, history: history, log: log.Named("remote")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/spin", h.handleSpin)
		r.Get("/roster", h.handleRoster)
		r.Get("/history", h.handleHistory)
	})
	return r
}

type spinRequest struct {
	DurationMS int64  `json:"duration_ms"`
	Theme      string `json:"theme"`
	Prize      string `json:"prize"`
}

func (h *HTTPHandler) handleSpin(w http.ResponseWriter, r *http.Request) {
	var req spinRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DurationMS < 0 {
		writeError(w, http.StatusBadRequest, "duration_ms must not be negative")
		return
	}
	input := dto.SpinInput{
		Duration: time.Duration(req.DurationMS) * time.Millisecond,
		Theme:    req.Theme,
		Prize:    req.Prize,
	}
	h.dispatch.Dispatch(input)
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "accepted"})
}

func (h *HTTPHandler) handleRoster(w http.ResponseWriter, r *http.Request) {
	items, err := h.roster.List(r.Context())
	if err != nil {
		h.log.Error("list roster", "error", err)
		writeError(w, http.StatusInternalServerError, "could not read roster")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *HTTPHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	entries, err := h.history.List(r.Context(), limit)
	if err != nil {
		h.log.Error("list history", "error", err)
		writeError(w, http.StatusInternalServerError, "could not read history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *HTTPHandler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
