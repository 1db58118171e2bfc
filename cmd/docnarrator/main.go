package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nguyentantai21042004/docnarrator/internal/artifact"
	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/extractor"
	"github.com/nguyentantai21042004/docnarrator/internal/httpapi"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/internal/metrics"
	"github.com/nguyentantai21042004/docnarrator/internal/narrator"
	"github.com/nguyentantai21042004/docnarrator/internal/pipeline"
	"github.com/nguyentantai21042004/docnarrator/internal/processor"
	"github.com/nguyentantai21042004/docnarrator/internal/script"
	"github.com/nguyentantai21042004/docnarrator/internal/speech"
	"github.com/nguyentantai21042004/docnarrator/internal/tracing"
	"github.com/nguyentantai21042004/docnarrator/internal/watcher"
	"github.com/nguyentantai21042004/docnarrator/pkg/executor"
	"github.com/nguyentantai21042004/docnarrator/pkg/semaphore"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Document Narrator")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Max Concurrent Narrations: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded successfully")

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	// Verify required directories exist
	if err := ensureDirectories(cfg); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	// Initialize dependencies
	ext := extractor.New(cfg.Extractor, executor.New(), log)
	rw, err := narrator.New(ctx, cfg.Gemini, cfg.Narrator, log)
	if err != nil {
		return fmt.Errorf("create narrator: %w", err)
	}
	syn := speech.NewOpenAI(cfg.OpenAI, cfg.Speech, &http.Client{}, log)
	p := pipeline.New(ext, rw, syn, artifact.NewStore(cfg.Paths.Temp), pipeline.Options{
		StageTimeout: cfg.Pipeline.StageTimeout,
		Recorder:     m,
	}, log)
	sem := semaphore.New(cfg.Performance.MaxConcurrent)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)
	running := 0

	if cfg.Watcher.Enabled {
		proc := processor.New(cfg, p, script.New(log), log)
		w, err := watcher.New(cfg.Paths.Input, proc.Process, log, sem)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		running++
		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				errChan <- fmt.Errorf("watcher: %w", err)
				return
			}
			errChan <- nil
		}()
	}

	if cfg.Server.Enabled {
		srv := httpapi.New(p, sem, httpapi.Options{
			Addr:           cfg.Server.Addr,
			MaxUploadBytes: cfg.Limits.MaxUploadBytes,
			Metrics:        m,
			Gatherer:       reg,
		}, log)

		running++
		go func() {
			if err := srv.Start(ctx); err != nil && err != context.Canceled {
				errChan <- fmt.Errorf("http api: %w", err)
				return
			}
			errChan <- nil
		}()
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Document Narrator is ready!")
	if cfg.Watcher.Enabled {
		log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
		log.Info(ctx, "Output: %s", cfg.Paths.Output)
	}
	if cfg.Server.Enabled {
		log.Info(ctx, "HTTP API: %s (POST /api/narrations)", cfg.Server.Addr)
	}
	log.Info(ctx, "Narration: style=%s rewrite=%t model=%s", cfg.Narrator.Style, cfg.Narrator.RewriteEnabled(), cfg.Gemini.Model)
	log.Info(ctx, "Speech: model=%s voice=%s format=%s", cfg.Speech.Model, cfg.Speech.Voice, cfg.Speech.Format)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	// Wait for shutdown signal or error
	var runErr error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case runErr = <-errChan:
		running--
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	cancel()
	for ; running > 0; running-- {
		if err := <-errChan; err != nil && runErr == nil {
			runErr = err
		}
	}

	log.Info(ctx, "Document Narrator stopped")
	return runErr
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp}
	if cfg.Watcher.Enabled {
		dirs = append(dirs,
			cfg.Paths.Input,
			cfg.Paths.Processing,
			cfg.Paths.Output,
			cfg.Paths.Archived,
			cfg.Paths.Failed,
		)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
