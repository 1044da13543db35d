package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/BTreeMap/TalentPipe/internal/api"
	"github.com/BTreeMap/TalentPipe/internal/content"
	"github.com/BTreeMap/TalentPipe/internal/content/gemini"
	"github.com/BTreeMap/TalentPipe/internal/content/openai"
	"github.com/BTreeMap/TalentPipe/internal/lockfile"
	"github.com/BTreeMap/TalentPipe/internal/matching"
	"github.com/BTreeMap/TalentPipe/internal/pipeline"
	"github.com/BTreeMap/TalentPipe/internal/recovery"
	"github.com/BTreeMap/TalentPipe/internal/session"
	"github.com/BTreeMap/TalentPipe/internal/store"
	"github.com/BTreeMap/TalentPipe/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for TalentPipe state data
	DefaultStateDir = "/var/lib/talentpipe"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "talentpipe.db"
	// DefaultAPIAddr is the default API listen address
	DefaultAPIAddr = ":8080"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	// Hold the state directory lock for the whole process lifetime.
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	st, err := buildStore(flags)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := buildContentService(ctx, flags)
	if err != nil {
		slog.Error("Failed to initialize content provider", "error", err)
		os.Exit(1)
	}

	engine := pipeline.NewEngine(st)
	sessions := session.NewController(st, svc, engine)
	matcher := matching.NewEngine(st, svc)

	// Re-apply verdicts stranded by a crash between the interview write and
	// the process write.
	reconciler := recovery.NewReconciler(st, engine)
	if applied, err := reconciler.Reconcile(ctx); err != nil {
		slog.Error("Startup reconciliation failed", "error", err)
		os.Exit(1)
	} else if applied > 0 {
		slog.Info("Startup reconciliation re-applied verdicts", "count", applied)
	}

	slog.Info("Bootstrapping TalentPipe with configured modules")
	slog.Debug("Final configuration",
		"state_dir", *flags.stateDir,
		"dsn_set", *flags.dbDSN != "",
		"api_addr", *flags.apiAddr,
		"provider", *flags.provider)

	server := api.NewServer(st, engine, sessions, matcher, svc)
	if err := server.Run(ctx, *flags.apiAddr); err != nil {
		slog.Error("TalentPipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("TalentPipe exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	Provider    string
	GeminiKey   string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string
	APIAddr     string
}

// Flags holds command line flag values
type Flags struct {
	stateDir    *string
	dbDSN       *string
	provider    *string
	geminiKey   *string
	geminiModel *string
	openaiKey   *string
	openaiModel *string
	apiAddr     *string
}

// initializeLogger sets up structured logging. Debug logging is on by
// default and can be disabled with TALENTPIPE_DEBUG=false.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("TALENTPIPE_DEBUG", true) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("TALENTPIPE_STATE_DIR"),
		Provider:    os.Getenv("AI_PROVIDER"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel: os.Getenv("GEMINI_MODEL"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel: os.Getenv("OPENAI_MODEL"),
		APIAddr:     os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No TALENTPIPE_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	} else {
		slog.Debug("TALENTPIPE_STATE_DIR found in environment", "state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	if config.APIAddr == "" {
		config.APIAddr = DefaultAPIAddr
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"TALENTPIPE_STATE_DIR", config.StateDir,
		"AI_PROVIDER", config.Provider,
		"GEMINI_API_KEY_SET", config.GeminiKey != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:    flag.String("state-dir", config.StateDir, "state directory for TalentPipe data (overrides $TALENTPIPE_STATE_DIR)"),
		dbDSN:       flag.String("db-dsn", config.DatabaseURL, "database DSN: a file path for SQLite, a postgres:// URL for PostgreSQL (overrides $DATABASE_URL)"),
		provider:    flag.String("ai-provider", config.Provider, "AI provider: gemini or openai (overrides $AI_PROVIDER)"),
		geminiKey:   flag.String("gemini-api-key", config.GeminiKey, "Gemini API key (overrides $GEMINI_API_KEY)"),
		geminiModel: flag.String("gemini-model", config.GeminiModel, "Gemini model name (overrides $GEMINI_MODEL)"),
		openaiKey:   flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		openaiModel: flag.String("openai-model", config.OpenAIModel, "OpenAI model name (overrides $OPENAI_MODEL)"),
		apiAddr:     flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}
	flag.Parse()
	return flags
}

// buildStore selects the storage backend from the DSN. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is treated as a SQLite
// file path.
func buildStore(flags Flags) (store.Store, error) {
	dsn := *flags.dbDSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		slog.Debug("Using PostgreSQL store backend")
		return store.NewPostgresStore(store.WithDSN(dsn))
	}
	slog.Debug("Using SQLite store backend", "path", dsn)
	return store.NewSQLiteStore(store.WithDSN(dsn))
}

// buildContentService selects the AI text provider. Gemini is the default;
// OpenAI is selected explicitly or when only an OpenAI key is configured.
func buildContentService(ctx context.Context, flags Flags) (content.Service, error) {
	provider := strings.ToLower(*flags.provider)
	if provider == "" {
		if *flags.geminiKey == "" && *flags.openaiKey != "" {
			provider = "openai"
		} else {
			provider = "gemini"
		}
	}

	switch provider {
	case "openai":
		gen, err := openai.NewGenerator(*flags.openaiKey, *flags.openaiModel)
		if err != nil {
			return nil, err
		}
		slog.Info("Content provider configured", "provider", "openai", "model", gen.Model())
		return content.NewClient(gen), nil
	default:
		gen, err := gemini.NewGenerator(ctx, *flags.geminiKey, *flags.geminiModel)
		if err != nil {
			return nil, err
		}
		slog.Info("Content provider configured", "provider", "gemini", "model", gen.Model())
		return content.NewClient(gen), nil
	}
}
