package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/gen/ent"
	"github.com/civicatlas/artcatalog/internal/adapters"
	"github.com/civicatlas/artcatalog/internal/common"
	"github.com/civicatlas/artcatalog/internal/dedupe"
	"github.com/civicatlas/artcatalog/internal/entity"
	"github.com/civicatlas/artcatalog/internal/export"
	"github.com/civicatlas/artcatalog/internal/importer"
	repo "github.com/civicatlas/artcatalog/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// sourceEnvelope is one entry of the records file: the raw payload plus the
// source type that picks its adapter.
type sourceEnvelope struct {
	SourceType string          `json:"source_type"`
	Payload    json.RawMessage `json:"payload"`
}

func main() {
	// Parse CLI flags
	var (
		inmem       = flag.Bool("inmem", false, "use an in-memory SQLite catalog")
		records     = flag.String("records", "", "JSON records file (required unless the job file names one)")
		watchDir    = flag.String("watch", "", "watch a drop directory and import each records file as a session")
		jobPath     = flag.String("job", "", "TOML job file with session settings")
		source      = flag.String("source", "", "source name for this session, e.g. \"osm summer load\"")
		sourceType  = flag.String("source-type", "", "source type for records that do not carry one")
		dryRun      = flag.Bool("dry-run", false, "run the session without writing to the catalog")
		autoApprove = flag.Bool("auto-approve", false, "approve staged submissions into live artworks")
		strict      = flag.Bool("strict", false, "exit nonzero when any record fails")
		out         = flag.String("out", "", "write an XLSX catalog export after the session")
		lockPath    = flag.String("lock", filepath.Join(os.TempDir(), "art-import.lock"), "lock file serializing import sessions")
	)
	flag.Parse()

	// Load .env before reading configuration from the environment
	_ = godotenv.Load()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	config := importer.NewConfig(cfg.Import, *source)

	// Job file first, flags on top
	if *jobPath != "" {
		job, err := importer.LoadJobFile(*jobPath)
		if err != nil {
			logger.Error("failed to load job file", "path", *jobPath, "error", err)
			os.Exit(1)
		}
		config = job.Apply(config)
		if *records == "" {
			*records = job.RecordsPath
		}
		if *sourceType == "" {
			*sourceType = job.SourceType
		}
	}
	if *dryRun {
		config.DryRun = true
	}
	if *autoApprove {
		config.AutoApprove = true
	}

	if *records == "" && *watchDir == "" {
		printError("Error: -records or -watch is required (flag or job file)\n")
		os.Exit(1)
	}

	registry, err := adapters.NewRegistry()
	if err != nil {
		logger.Error("failed to build adapter registry", "error", err)
		os.Exit(1)
	}

	// Watch mode loads files as they land; single-shot loads up front.
	var (
		importRecords []entity.ImportRecord
		decodeErrs    []string
	)
	if *watchDir == "" {
		importRecords, decodeErrs, err = loadRecords(*records, *sourceType, registry)
		if err != nil {
			logger.Error("failed to load records file", "path", *records, "error", err)
			os.Exit(1)
		}
		logger.Info("records loaded", "path", *records, "decoded", len(importRecords), "rejected", len(decodeErrs))
	}

	// One import session per catalog at a time
	lock := flock.New(*lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("failed to acquire import lock", "path", *lockPath, "error", err)
		os.Exit(1)
	}
	if !locked {
		printError("Error: another import session is already running (lock %s)\n", *lockPath)
		os.Exit(1)
	}
	defer func() { _ = lock.Unlock() }()

	// Open the catalog
	var (
		entc *ent.Client
		pool *pgxpool.Pool
	)
	if *inmem {
		entc, err = repo.OpenSQLite(ctx, repo.MemoryDSN, logger)
		if err != nil {
			logger.Error("failed to open in-memory catalog", "error", err)
			os.Exit(1)
		}
		defer func() { _ = entc.Close() }()
	} else {
		if cfg.Database.DSN == "" {
			printError("Error: DB_URL env var is required (or pass -inmem)\n")
			os.Exit(2)
		}
		entc, pool, err = repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repo.Close(entc, pool, logger)

		if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
	}

	// Wire repositories and the session runner
	artworks := repo.NewArtworkRepository(entc, logger)
	artists := repo.NewArtistRepository(entc, logger)
	submissions := repo.NewSubmissionRepository(entc, logger)
	audit := repo.NewAuditRepository(entc, logger)

	engine := dedupe.NewEngine(
		dedupe.NewLocator(artworks, logger),
		dedupe.Thresholds{LocateRadius: config.DuplicateCheckRadius},
		logger,
	)

	if *watchDir != "" {
		watchLoop(ctx, *watchDir, *sourceType, config, registry, engine, submissions, artists, audit, logger)
		return
	}

	imp := importer.NewBatchImporter(config, engine, submissions, artists, audit, logger)

	result, err := imp.Run(ctx, importRecords)
	if err != nil {
		logger.Error("import session rejected", "error", err)
		os.Exit(1)
	}

	failed := result.FailedImports + len(decodeErrs)
	fmt.Println(renderTable(
		[]string{"Metric", "Value"},
		[][]string{
			{"Total records", strconv.Itoa(len(importRecords) + len(decodeErrs))},
			{"Imported", strconv.Itoa(result.SuccessfulImports)},
			{"Duplicates skipped", strconv.Itoa(result.DuplicatesSkipped)},
			{"Failed", strconv.Itoa(failed)},
			{"Artworks created", strconv.Itoa(len(result.CreatedArtworkIDs))},
			{"Artists created", strconv.Itoa(len(result.CreatedArtistIDs))},
			{"Processing", result.ProcessingTime.Round(time.Millisecond).String()},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	for _, e := range decodeErrs {
		printError("decode error: %s\n", e)
	}
	for _, e := range result.Errors {
		printError("record error: %s\n", e)
	}
	for _, w := range result.Warnings {
		printError("warning: %s\n", w)
	}

	// Catalog totals after the session
	counts, err := artworks.CountBySource(ctx)
	if err != nil {
		logger.Error("failed to count catalog by source", "error", err)
	} else if len(counts) > 0 {
		rows := make([][]string, 0, len(counts))
		for _, src := range slices.Sorted(maps.Keys(counts)) {
			rows = append(rows, []string{src, strconv.Itoa(counts[src])})
		}
		fmt.Println(renderTable(
			[]string{"Source", "Artworks"},
			rows,
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	if *out != "" {
		xlsxBytes, err := export.NewService(artworks, logger).ExportArtworksXLSX(ctx, "", nil, nil)
		if err != nil {
			logger.Error("failed to export catalog", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
			logger.Error("failed to write output file", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("catalog exported", "path", *out)
	}

	if *strict && failed > 0 {
		printError("Error: %d record(s) failed\n", failed)
		os.Exit(1)
	}
}

// loadRecords reads the records file and converts each payload through the
// adapter registry. File-level problems are returned as the error; bad
// records are skipped and reported so the rest of the batch still runs.
func loadRecords(path, defaultSourceType string, registry *adapters.Registry) ([]entity.ImportRecord, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read records file: %w", err)
	}

	var envelopes []sourceEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, nil, fmt.Errorf("parse records file: %w", err)
	}

	out := make([]entity.ImportRecord, 0, len(envelopes))
	var errs []string
	for i, env := range envelopes {
		st := env.SourceType
		if st == "" {
			st = defaultSourceType
		}
		src, ok := constants.CanonicalizeSource(st)
		if !ok {
			errs = append(errs, fmt.Sprintf("record %d: unknown source type %q", i, st))
			continue
		}
		record, err := registry.Convert(src, env.Payload)
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i, err))
			continue
		}
		out = append(out, *record)
	}
	return out, errs, nil
}

// watchLoop imports every records file dropped under dir until interrupted.
// Each file runs as its own session named after the file, so re-dropping a
// file settles as duplicate skips rather than double imports.
func watchLoop(
	ctx context.Context,
	dir, defaultSourceType string,
	config importer.Config,
	registry *adapters.Registry,
	engine *dedupe.Engine,
	submissions repo.SubmissionRepository,
	artists repo.ArtistRepository,
	audit repo.AuditRepository,
	logger *slog.Logger,
) {
	paths, watchErrs, err := importer.StartWatcher(ctx, importer.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    2 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("failed to start watcher", "dir", dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for records files", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return
		case err, ok := <-watchErrs:
			if ok && err != nil {
				logger.Error("watch error", "error", err)
			}
		case path, ok := <-paths:
			if !ok {
				return
			}
			records, decodeErrs, err := loadRecords(path, defaultSourceType, registry)
			if err != nil {
				logger.Error("failed to load records file", "path", path, "error", err)
				continue
			}
			sessionConfig := config
			if sessionConfig.SourceName == "" {
				sessionConfig.SourceName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			imp := importer.NewBatchImporter(sessionConfig, engine, submissions, artists, audit, logger)
			result, err := imp.Run(ctx, records)
			if err != nil {
				logger.Error("import session rejected", "path", path, "error", err)
				continue
			}
			logger.Info("session complete",
				"path", path,
				"source", sessionConfig.SourceName,
				"imported", result.SuccessfulImports,
				"duplicates_skipped", result.DuplicatesSkipped,
				"failed", result.FailedImports+len(decodeErrs),
			)
			for _, e := range decodeErrs {
				printError("decode error: %s\n", e)
			}
			for _, e := range result.Errors {
				printError("record error: %s\n", e)
			}
		}
	}
}
