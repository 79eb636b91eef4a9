package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/nidhogg/agentmatch/internal/catalog"
	"github.com/nidhogg/agentmatch/internal/inference"
	"github.com/nidhogg/agentmatch/internal/recommend"
)

const maxBodyBytes = 1 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	svc    *recommend.Service
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *recommend.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", h.root)
	r.Get("/health", h.healthCheck)
	r.Get("/agents", h.listAgents)
	r.Get("/agents/{id}", h.getAgent)
	r.Post("/recommend", h.recommend)
	r.Post("/analyze", h.analyze)
	r.Post("/calculate-inference", h.calculateInference)

	return r
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "AI Coding Agent Recommendation System"})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Catalog()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"agents":           snap.Len(),
		"catalog_revision": snap.Revision(),
	})
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Catalog()
	if snap.Len() == 0 {
		writeError(w, http.StatusServiceUnavailable, recommend.ErrNoAgentsConfigured.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap.List())
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := h.svc.Catalog()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, recommend.ErrNoAgentsConfigured.Error())
		return
	}
	a, err := snap.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	recs, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req recommend.TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	analysis, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) calculateInference(w http.ResponseWriter, r *http.Request) {
	var req inference.Request
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := inference.Calculate(req)
	if errors.Is(err, inference.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *recommend.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusUnprocessableEntity, ve.Detail)
	case errors.Is(err, recommend.ErrNoAgentsConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// requestLogger logs one line per request after it completes.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
