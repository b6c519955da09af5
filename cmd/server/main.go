package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openscrapers/docketproc/internal/api"
	"github.com/openscrapers/docketproc/internal/attachmentindex"
	"github.com/openscrapers/docketproc/internal/blobstore"
	"github.com/openscrapers/docketproc/internal/config"
	"github.com/openscrapers/docketproc/internal/db"
	"github.com/openscrapers/docketproc/internal/ingest"
	"github.com/openscrapers/docketproc/internal/jurisdiction"
	"github.com/openscrapers/docketproc/internal/llm"
	"github.com/openscrapers/docketproc/internal/orchestrator"
	"github.com/openscrapers/docketproc/internal/processing"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docketproc-server",
		Short: "docketproc server — docket processing and relational ingestion service",
		Long: `docketproc server ingests raw regulatory dockets, normalizes them into
the canonical processed form, resolves organization and individual identity
into a jurisdiction-scoped relational schema, and exposes an HTTP
control-plane for triggering and monitoring that pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docketproc-server %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting docketproc server",
		zap.String("version", version),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("log_level", cfg.LogLevel),
	)

	// --- Signal handling ---
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// --- 1. Database ---
	gormDB, err := db.New(db.Config{
		Driver:   cfg.DBDriver,
		DSN:      cfg.DBDSN,
		Logger:   logger,
		LogLevel: gormLogLevel(cfg.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	// --- 2. Blob store ---
	store, err := blobstore.New(ctx, cfg.Blob, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}

	// --- 3. Attachment URL index ---
	attachIndex := attachmentindex.New(store, logger)

	// --- 4. LLM adapter ---
	// DeepInfra is used when an API key is configured; otherwise the
	// heuristic splitter/cleaner runs network-free. Either way the result is
	// wrapped in an in-process cache, since the same org-name blob recurs
	// across filings within a docket.
	var adapter llm.Adapter
	if cfg.LLM.APIKey != "" {
		adapter = llm.NewDeepInfraAdapter(cfg.LLM.APIKey, cfg.LLM.Model, logger)
		logger.Info("llm adapter: deepinfra", zap.String("model", cfg.LLM.Model))
	} else {
		adapter = llm.HeuristicAdapter{}
		logger.Info("llm adapter: heuristic (no DEEPINFRA_API_KEY set)")
	}
	adapter = llm.WithCache(adapter)

	// --- 5. Relational ingester ---
	ingester := ingest.New(gormDB, logger)

	// --- 6. Processing engine ---
	engine := processing.New(attachIndex, adapter, ingester, processing.Config{
		FilingConcurrency:     cfg.FilingConcurrency,
		AttachmentConcurrency: cfg.AttachmentConcurrency,
		FallbackPolicy:        cfg.AttachmentFallbackPolicy,
	}, logger)

	// --- 7. Job orchestrator ---
	orch := orchestrator.New(store, attachIndex, engine, ingester, orchestrator.Config{
		JobConcurrency: cfg.JobConcurrency,
	}, logger)

	// --- 8. Optional recurring sweep ---
	var sweep *orchestrator.SweepScheduler
	if cfg.Sweep.CronExpr != "" {
		sweep, err = orchestrator.NewSweepScheduler(orch, logger)
		if err != nil {
			return fmt.Errorf("failed to create sweep scheduler: %w", err)
		}
		j := jurisdiction.FixedJurisdiction{
			Country:      cfg.Sweep.Country,
			State:        cfg.Sweep.State,
			Jurisdiction: cfg.Sweep.Jurisdiction,
		}
		if err := sweep.AddSweep(cfg.Sweep.CronExpr, j); err != nil {
			return fmt.Errorf("failed to register sweep: %w", err)
		}
		sweep.Start()
		defer func() {
			if err := sweep.Shutdown(); err != nil {
				logger.Warn("sweep scheduler shutdown error", zap.Error(err))
			}
		}()
	}

	// --- 9. HTTP server ---
	handlers := api.NewHandlers(orch, attachIndex, ingester, dateRangeLookup(gormDB), logger)
	router := api.NewRouter(handlers, logger)

	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down docketproc server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server graceful shutdown error", zap.Error(err))
	}

	logger.Info("docketproc server stopped")
	return nil
}

// schemaIdentifier guards against using an unsanitized schema name in a raw
// SET LOCAL statement; mirrors internal/ingest's own identifier check.
var schemaIdentifier = regexp.MustCompile(`^[a-z0-9_]+$`)

// dateRangeLookup resolves the orchestrator's ByDateRange intent against
// the jurisdiction's own schema: docket_govid for every docket whose
// opened_date falls within [startDate, endDate].
func dateRangeLookup(gormDB *gorm.DB) orchestrator.DateRangeLookup {
	return func(ctx context.Context, schema, startDate, endDate string) ([]string, error) {
		if !schemaIdentifier.MatchString(schema) {
			return nil, fmt.Errorf("dateRangeLookup: invalid schema name %q", schema)
		}

		var govids []string
		err := gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(fmt.Sprintf("SET LOCAL search_path TO %s", schema)).Error; err != nil {
				return fmt.Errorf("dateRangeLookup: set search_path: %w", err)
			}
			return tx.Table("dockets").
				Where("opened_date >= ? AND opened_date <= ?", startDate, endDate).
				Pluck("docket_govid", &govids).Error
		})
		if err != nil {
			return nil, fmt.Errorf("dateRangeLookup: query: %w", err)
		}
		return govids, nil
	}
}

// gormLogLevel maps the application log level string to a GORM logger level.
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "info":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	var cfg zap.Config

	switch level {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return cfg.Build()
}
