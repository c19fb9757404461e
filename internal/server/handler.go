package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	"goa.design/goa/v3/http/middleware"

	"inquirydesk/internal/config"
	"inquirydesk/internal/metrics"
)

// NewHandler mounts the API on a goa muxer and wraps it with the metrics,
// logging, CORS and security header middleware.
func NewHandler(cfg *config.Config, e *Endpoints, log *zap.Logger) http.Handler {
	log = log.Named("http")
	mux := goahttp.NewMuxer()

	errorHandler := func(ctx context.Context, w http.ResponseWriter, err error) {
		log.Error("request error", zap.Error(err))
	}

	srv := New(e, mux, goahttp.RequestDecoder, goahttp.ResponseEncoder, errorHandler)
	srv.Use(middleware.RequestID())
	srv.Use(middleware.PopulateRequestContext())
	srv.Mount(mux)

	for _, m := range srv.Mounts {
		log.Debug("mounted", zap.String("method", m.Method), zap.String("verb", m.Verb), zap.String("pattern", m.Pattern))
	}

	metricsHandler := promhttp.Handler()
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			metricsHandler.ServeHTTP(w, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	var handler http.Handler = metrics.PrometheusMiddleware(root)
	handler = RequestLogging(log)(handler)
	handler = CORS(cfg)(handler)
	return SecurityHeaders(cfg)(handler)
}
