package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"receiptcheck/internal/common"
	"receiptcheck/internal/config"
	"receiptcheck/internal/engine"
	"receiptcheck/internal/export"
	"receiptcheck/internal/repository"
)

func main() {
	os.Exit(run())
}

func run() int {
	env := common.LoadConfig()

	fs := ff.NewFlagSet("receiptcheck")
	var (
		configPath    = fs.StringLong("config", env.Validation.ConfigPath, "Validation config JSON path")
		dbPath        = fs.StringLong("db", env.Storage.DBPath, "SQLite database file path")
		confidence    = fs.Float64Long("confidence", 100.0, "OCR confidence of the transcripts, 0..100")
		minConfidence = fs.Float64Long("min-confidence", env.Validation.MinConfidence, "Override the config document's confidence floor (0 = keep)")
		exportPath    = fs.StringLong("export", "", "Write an XLSX report of stored results to this path")
		noStore       = fs.BoolLong("no-store", "Do not persist results to the database")
		logLevel      = fs.StringLong("log-level", env.LogLevel, "Log level: DEBUG, INFO, WARN, ERROR")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPTCHECK"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store := config.NewStore(*configPath, logger)
	if _, err := store.Load(); err != nil {
		logger.Warn("using default validation rules", "error", err)
	}
	snap := store.Current()
	if *minConfidence > 0 || env.Validation.AmountTolerance > 0 {
		doc := snap.Document
		if *minConfidence > 0 {
			doc.Validation.MinConfidence = *minConfidence
		}
		if env.Validation.AmountTolerance > 0 {
			doc.Validation.AmountTolerance = env.Validation.AmountTolerance
		}
		snap = &config.Snapshot{Document: doc, Rules: doc.EffectiveRules()}
	}
	eng := engine.New(snap, logger)

	var (
		receipts repository.ReceiptRepository
		ruleRepo repository.RuleRepository
	)
	if !*noStore || *exportPath != "" {
		db, err := repository.Open(*dbPath)
		if err != nil {
			logger.Error("db.open_failed", "path", *dbPath, "error", err)
			return 1
		}
		defer db.Close()
		receipts = repository.NewReceiptRepository(db)
		ruleRepo = repository.NewRuleRepository(db)

		if err := ruleRepo.ReplaceAll(ctx, eng.Rules()); err != nil {
			logger.Warn("rules.persist_failed", "error", err)
		}
	}

	args := fs.GetArgs()
	if len(args) == 0 && *exportPath == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "usage: receiptcheck [flags] <transcript>... ('-' reads stdin)")
		return 2
	}

	exitCode := 0
	for _, arg := range args {
		text, err := readTranscript(arg)
		if err != nil {
			logger.Error("transcript.read_failed", "source", arg, "error", err)
			exitCode = 1
			continue
		}

		result := eng.ValidateText(text, *confidence)

		fmt.Println(result.Message)
		if len(result.Recommendations) > 0 {
			fmt.Println()
			fmt.Println("Рекомендации:")
			for _, rec := range result.Recommendations {
				fmt.Println("  • " + rec)
			}
		}
		fmt.Println()

		if receipts != nil && !*noStore {
			if _, err := receipts.SaveResult(ctx, result); err != nil {
				logger.Warn("result.persist_failed", "source", arg, "error", err)
			}
		}

		if result.IsValid {
			exitCode = 0
		} else {
			exitCode = 1
		}
	}

	if *exportPath != "" {
		if err := writeExport(ctx, receipts, *exportPath, env.Storage.ExportLimit, logger); err != nil {
			logger.Error("export.failed", "path", *exportPath, "error", err)
			return 1
		}
	}

	return exitCode
}

func readTranscript(source string) (string, error) {
	if source == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(source)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func writeExport(ctx context.Context, receipts repository.ReceiptRepository, path string, limit int, logger *slog.Logger) error {
	svc := export.NewService(receipts, logger)
	data, err := svc.ExportResultsXLSX(ctx, limit)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logger.Info("export.written", "path", path, "bytes", len(data), "at", time.Now().Format(time.RFC3339))
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
