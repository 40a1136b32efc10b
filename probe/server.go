package probe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"numbot/core/logger"
)

// Server answers liveness checks and exposes lifecycle metrics.
type Server struct {
	srv *http.Server
}

// NewServer builds the probe HTTP server. metrics may be nil, in which
// case only the liveness endpoints are mounted.
func NewServer(listen string, metrics *Metrics) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Telegram Bot is running!"))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	if metrics != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	}

	return &Server{
		srv: &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler exposes the mux, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() {
	logger.PROBE.Info("probe listening",
		slog.String("event", "listen"),
		slog.String("listen", s.srv.Addr),
	)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.PROBE.Error("probe server failed",
			slog.String("event", "serve.fail"),
			slog.String("err", err.Error()),
		)
	}
}

// Shutdown drains the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
