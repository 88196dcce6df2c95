// Package chi is the HTTP transport: routing, request decoding, and the
// sentinel-to-status error mapping.
package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/prethrift/prethrift/internal/cache"
	"github.com/prethrift/prethrift/internal/domain"
	logpkg "github.com/prethrift/prethrift/internal/logger"
	"github.com/prethrift/prethrift/internal/metrics"
	healthuc "github.com/prethrift/prethrift/internal/usecase/health"
	ingestuc "github.com/prethrift/prethrift/internal/usecase/ingest"
)

// Server is the HTTP API server.
type Server struct {
	search        SearchService
	feedback      FeedbackService
	ingest        IngestService
	catalog       CatalogReader
	extractor     Extractor
	ontology      Ontology
	embedCache    EmbedCacheStats
	health        HealthService
	logger        *zap.Logger
	metricsHTTP   http.Handler
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	feedback FeedbackService,
	ingest IngestService,
	catalog CatalogReader,
	extractor Extractor,
	ontology Ontology,
	embedCache EmbedCacheStats,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		feedback:    feedback,
		ingest:      ingest,
		catalog:     catalog,
		extractor:   extractor,
		ontology:    ontology,
		embedCache:  embedCache,
		health:      health,
		logger:      logger,
		metricsHTTP: promhttp.Handler(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrGarmentNotFound, http.StatusNotFound, CodeGarmentNotFound),
		sentinelHandler(domain.ErrInvalidAction, http.StatusBadRequest, CodeInvalidAction),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrExtractionProviderError, http.StatusBadGateway, CodeExtractionProviderError),
	}
	return s
}

// Routes mounts every handler on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chirouter.Router) {
		r.Post("/search", s.Search)
		r.Post("/feedback", s.Feedback)
		r.Put("/garments/{id}", s.UpsertGarment)
		r.Post("/garments/batch", s.BatchUpsertGarments)
		r.Get("/garments", s.ListGarments)
		r.Get("/garments/{id}", s.GetGarment)
		r.Delete("/garments/{id}", s.DeleteGarment)
		r.Post("/preferences/extract", s.ExtractPreferences)
		r.Get("/ontology", s.Ontology)
		r.Get("/caches/stats", s.CacheStats)
	})
}

// SearchRequest is the POST /search payload.
type SearchRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}

	start := time.Now()
	resp, err := s.search.Search(r.Context(), req.Query, req.UserID, req.Limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	metrics.SearchDuration.
		WithLabelValues(personalizedLabel(req.UserID)).
		Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, resp)
}

// FeedbackRequest is the POST /feedback payload.
type FeedbackRequest struct {
	UserID    string  `json:"user_id"`
	GarmentID string  `json:"garment_id"`
	Action    string  `json:"action"`
	Weight    float64 `json:"weight,omitempty"`
}

// Feedback handles POST /api/v1/feedback.
func (s *Server) Feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.UserID == "" || req.GarmentID == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "user_id and garment_id are required")
		return
	}

	event, err := s.feedback.Record(r.Context(), req.UserID, req.GarmentID, req.Action, req.Weight)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// UpsertGarmentRequest is the PUT /garments/{id} payload.
type UpsertGarmentRequest struct {
	Title       string  `json:"title,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description"`
}

// UpsertGarment handles PUT /api/v1/garments/{id}.
func (s *Server) UpsertGarment(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	var req UpsertGarmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	garment, err := s.ingest.Upsert(ctx, ingestuc.Input{
		ID:          id,
		Title:       req.Title,
		Brand:       req.Brand,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setUsageHeader(w, usage)
	writeJSON(w, http.StatusOK, garment)
}

// BatchUpsertRequest is the POST /garments/batch payload.
type BatchUpsertRequest struct {
	Items []BatchUpsertItem `json:"items"`
}

// BatchUpsertItem is one garment in a batch upsert.
type BatchUpsertItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Description string  `json:"description"`
}

// BatchItemResponse is the outcome of one garment in a batch upsert.
type BatchItemResponse struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BatchUpsertGarments handles POST /api/v1/garments/batch.
func (s *Server) BatchUpsertGarments(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "items must not be empty")
		return
	}

	items := make([]ingestuc.Input, len(req.Items))
	for i, it := range req.Items {
		items[i] = ingestuc.Input{
			ID:          it.ID,
			Title:       it.Title,
			Brand:       it.Brand,
			Price:       it.Price,
			Currency:    it.Currency,
			Description: it.Description,
		}
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results := s.ingest.UpsertBatch(ctx, items)

	out := make([]BatchItemResponse, len(results))
	for i, res := range results {
		out[i] = BatchItemResponse{ID: res.ID, OK: res.OK}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}

	setUsageHeader(w, usage)
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// GetGarment handles GET /api/v1/garments/{id}.
func (s *Server) GetGarment(w http.ResponseWriter, r *http.Request) {
	garment, err := s.catalog.Get(r.Context(), chirouter.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, garment)
}

// ListGarments handles GET /api/v1/garments.
func (s *Server) ListGarments(w http.ResponseWriter, r *http.Request) {
	garments, err := s.catalog.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": garments,
		"total": len(garments),
	})
}

// DeleteGarment handles DELETE /api/v1/garments/{id}.
func (s *Server) DeleteGarment(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chirouter.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExtractRequest is the POST /preferences/extract payload.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractPreferences handles POST /api/v1/preferences/extract.
func (s *Server) ExtractPreferences(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "text is required")
		return
	}

	attrs, err := s.extractor.Extract(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attributes": attrs})
}

// Ontology handles GET /api/v1/ontology.
func (s *Server) Ontology(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"families": s.ontology.AllValues()})
}

// CacheStats handles GET /api/v1/caches/stats.
func (s *Server) CacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]cache.Stats{
		"classification":  s.ontology.CacheStats(),
		"query_embedding": s.embedCache.EmbeddingCacheStats(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics. The promhttp handler is built once in
// NewServer.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metricsHTTP.ServeHTTP(w, r)
}

// handleDomainError logs through the request-scoped logger so error
// lines carry the request id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

// setUsageHeader reports embedding tokens consumed by the request.
func setUsageHeader(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func personalizedLabel(userID string) string {
	if userID == "" {
		return "false"
	}
	return "true"
}
