package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/kirillkom/summary-service/internal/config"
	"github.com/kirillkom/summary-service/internal/core/domain"
	"github.com/kirillkom/summary-service/internal/core/ports"
	"github.com/kirillkom/summary-service/internal/observability/metrics"
)

const serviceName = "summary-api"

type Router struct {
	cfg     config.Config
	ingest  ports.SummaryIngestor
	rater   ports.SummaryRater
	reader  ports.SummaryReader
	metrics *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	ingest ports.SummaryIngestor,
	rater ports.SummaryRater,
	reader ports.SummaryReader,
) *Router {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Router{
		cfg:    cfg,
		ingest: ingest,
		rater:  rater,
		reader: reader,
	}
}

// WithMetrics enables request metrics and the /metrics endpoint.
func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /process_text", rt.processText)
	mux.HandleFunc("POST /process_file", rt.processFile)
	mux.HandleFunc("PUT /rate_summary/{id}", rt.rateSummary)
	mux.HandleFunc("GET /get_summary/{id}", rt.getSummary)

	var handler http.Handler = rateLimitMiddleware(mux, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) recordCreated(rec *domain.SummaryRecord) {
	if rt.metrics != nil {
		rt.metrics.RecordSummaryCreated(serviceName, rec.IsFile)
	}
}

func (rt *Router) recordRating(outcome string) {
	if rt.metrics != nil {
		rt.metrics.RecordRating(serviceName, outcome)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
