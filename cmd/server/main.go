package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/plise/internal/config"
	"github.com/Simplici0/plise/internal/db"
	"github.com/Simplici0/plise/internal/logging"
	"github.com/Simplici0/plise/internal/metrics"
	"github.com/Simplici0/plise/internal/pricebook"
	"github.com/Simplici0/plise/internal/pricing"
	"github.com/Simplici0/plise/internal/quotes"
	"github.com/Simplici0/plise/internal/report"
	"github.com/Simplici0/plise/internal/seed"
	"github.com/Simplici0/plise/web"
)

type server struct {
	cfg    config.Config
	prices pricebook.Repository
	quotes *quotes.Store
	log    *slog.Logger

	// pricesMu serialises price book writes.
	pricesMu sync.Mutex
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

var templateFuncs = template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"qty":   func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}

func main() {
	configPath := flag.String("config", config.DefaultFile, "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Init(logging.Options{Component: "server", File: cfg.Log.File, Level: cfg.Log.Level})

	database, err := db.OpenMigrated(cfg.Store.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Store.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	prices, err := newPriceRepository(cfg, database, logger)
	if err != nil {
		logger.Error("failed to prepare price book", "error", err)
		os.Exit(1)
	}

	srv := newServer(cfg, prices, quotes.NewStore(database), logger)

	addr := ":" + cfg.HTTP.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("listening", "addr", addr, "store", cfg.Store.Driver, "profit_policy", cfg.ProfitPolicy())
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newPriceRepository(cfg config.Config, database *sql.DB, logger *slog.Logger) (pricebook.Repository, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		stats, err := seed.Run(database, pricing.DefaultPriceBook())
		if err != nil {
			return nil, fmt.Errorf("seed price book: %w", err)
		}
		logger.Info("price book seeded", "inserts", stats.Inserts)
		return pricebook.NewSQLiteStore(database), nil
	default:
		logger.Info("using price book file", "path", cfg.Store.PricesPath)
		return pricebook.NewFileStore(cfg.Store.PricesPath), nil
	}
}

func newServer(cfg config.Config, prices pricebook.Repository, store *quotes.Store, logger *slog.Logger) *server {
	if logger == nil {
		logger = logging.New("server")
	}
	return &server{cfg: cfg, prices: prices, quotes: store, log: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/quote", http.StatusSeeOther)
	})
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/quote", s.handleQuoteForm)
	r.Post("/quote", s.handleQuoteSubmit)
	r.Get("/quotes", s.handleQuotesList)
	r.Get("/quotes/{id}", s.handleQuoteDetail)
	r.Get("/quotes/{id}/cost", s.handleQuoteReport(report.RenderCost))
	r.Get("/quotes/{id}/price", s.handleQuoteReport(report.RenderPrice))

	r.Get("/admin/prices", s.handleAdminPricesForm)
	r.Post("/admin/prices", s.handleAdminPricesSubmit)
	r.Post("/admin/prices/reset", s.handleAdminPricesReset)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// loadPriceBook never fails: a broken store yields the defaults plus a
// message for the page.
func (s *server) loadPriceBook() (pricing.PriceBook, string) {
	book, err := pricebook.LoadOrDefault(s.prices, s.log)
	if err != nil {
		metrics.PriceBookFallbacks.Inc()
		return book, "Saved prices could not be read; built-in defaults are in use."
	}
	return book, ""
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(
		web.Templates,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		s.log.Error("parse template", "page", page, "error", err)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error("render template", "page", page, "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		attrs := []any{
			"req_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"dur_ms", time.Since(start).Milliseconds(),
			"resp_bytes", sw.bytes,
		}
		if sw.status >= http.StatusInternalServerError {
			s.log.Error("http_request", attrs...)
			return
		}
		s.log.Info("http_request", attrs...)
	})
}
