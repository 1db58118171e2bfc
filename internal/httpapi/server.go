// Package httpapi serves the narration pipeline over HTTP.
package httpapi

import (
	"context"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/metrics"
	"github.com/nguyentantai21042004/docnarrator/internal/pipeline"
	"github.com/nguyentantai21042004/docnarrator/pkg/semaphore"
)

// multipartOverhead is headroom above the document limit for multipart framing.
const multipartOverhead = 1 << 20

type Options struct {
	Addr           string
	MaxUploadBytes int64
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

type Server struct {
	app    *fiber.App
	addr   string
	logger logger.Logger
}

func New(p pipeline.Pipeline, sem *semaphore.Semaphore, opts Options, log logger.Logger) *Server {
	bodyLimit := fiber.DefaultBodyLimit
	if opts.MaxUploadBytes > 0 {
		bodyLimit = int(opts.MaxUploadBytes + multipartOverhead)
	}

	app := fiber.New(fiber.Config{
		AppName:               "docnarrator",
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(AccessLog(log))
	if opts.Metrics != nil {
		app.Use(Metrics(opts.Metrics))
	}

	h := &handler{
		pipeline: p,
		sem:      sem,
		maxBytes: opts.MaxUploadBytes,
		logger:   log,
	}
	app.Get("/healthz", h.healthz)
	app.Post("/api/narrations", h.narrate)
	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{app: app, addr: opts.Addr, logger: log}
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP API listening on %s", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Shutting down HTTP API...")
		if err := s.app.Shutdown(); err != nil {
			return err
		}
		return ctx.Err()
	}
}
