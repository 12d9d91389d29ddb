package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/sneakerbox/internal/api"
	"github.com/erazemk/sneakerbox/internal/auth"
	"github.com/erazemk/sneakerbox/internal/config"
	"github.com/erazemk/sneakerbox/internal/db"
	"github.com/erazemk/sneakerbox/internal/metrics"
	"github.com/erazemk/sneakerbox/internal/model"
	"github.com/erazemk/sneakerbox/internal/picker"
	"github.com/erazemk/sneakerbox/internal/quotes"
	"github.com/erazemk/sneakerbox/internal/ratelimit"
	"github.com/erazemk/sneakerbox/internal/rotation"
	"github.com/erazemk/sneakerbox/internal/storage"
	"github.com/erazemk/sneakerbox/internal/store"
	"github.com/erazemk/sneakerbox/internal/tracking"
	"github.com/erazemk/sneakerbox/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string, debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	flags := flag.NewFlagSet("sneakerbox", flag.ContinueOnError)

	var dbPath string
	flags.StringVar(&dbPath, "db", "sneakerbox.sqlite3", "")
	flags.StringVar(&dbPath, "d", "sneakerbox.sqlite3", "")

	var addr string
	flags.StringVar(&addr, "addr", ":8080", "")
	flags.StringVar(&addr, "a", ":8080", "")

	var logPath string
	flags.StringVar(&logPath, "log", "", "")
	flags.StringVar(&logPath, "l", "", "")

	var envPath string
	flags.StringVar(&envPath, "env", ".env", "")
	flags.StringVar(&envPath, "e", ".env", "")

	var debug bool
	flags.BoolVar(&debug, "debug", false, "")

	flags.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: sneakerbox [flags]

Flags:
  -d, -db <path>          SQLite database path (default: sneakerbox.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -e, -env <path>         dotenv file with SNEAKERBOX_* settings (default: .env)
  -debug                  log debug messages
  -h, -help               show this help and exit
`)
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", flags.Arg(0))
		flags.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(dbPath, addr, envPath); err != nil {
		slog.Error("sneakerbox stopped", "error", err)
		if closeLog != nil {
			closeLog()
		}
		os.Exit(1)
	}
}

func run(dbPath, addr, envPath string) error {
	// A missing dotenv file is fine; the environment may be set directly.
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envPath, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", dbPath)
	if n, err := store.PruneRevokedTokens(ctx, database, time.Now()); err != nil {
		slog.Warn("pruning revoked sessions", "error", err)
	} else if n > 0 {
		slog.Info("pruned revoked sessions", "count", n)
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	if err := ensureAdmin(ctx, database, cfg.Admin); err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	media := &storage.DBBucket{DB: database}
	var bucket storage.Bucket = media
	if cfg.Storage.Backend == config.StorageS3 {
		s3Bucket, err := storage.NewS3Bucket(ctx, storage.S3Config{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			PublicBaseURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		bucket = s3Bucket
		slog.Info("storing photos in S3", "bucket", cfg.S3.Bucket)
	}

	limiter := &ratelimit.Limiter{
		Counter:    ratelimit.NewMemoryCounter(),
		Window:     cfg.Login.Window,
		Limit:      cfg.Login.Limit,
		TrustProxy: cfg.Login.TrustProxy,
		Metrics:    m,
	}
	if cfg.Redis.URL != "" {
		counter, client, err := ratelimit.NewRedisCounter(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		limiter.Counter = counter
		slog.Info("login counters in redis")
	}

	pick := picker.Default()
	preview := rotation.New("preview", cfg.Preview.Interval, func(ctx context.Context) ([]model.Shoe, error) {
		shoes, err := store.ListShoes(ctx, database)
		if err != nil {
			return nil, err
		}
		return pick.RandomSubset(shoes, cfg.Preview.Size), nil
	})
	quote := rotation.New("quote", cfg.Quote.Interval, func(context.Context) (quotes.Quote, error) {
		return quotes.Random(nil), nil
	})

	tracker := &tracking.Tracker{DB: database, Metrics: m}

	apiRouter := api.NewRouter(api.Deps{
		DB:             database,
		JWTSecret:      jwtSecret,
		Tracker:        tracker,
		Bucket:         bucket,
		Picker:         pick,
		Preview:        preview,
		Quote:          quote,
		Limiter:        limiter,
		Metrics:        m,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})
	webRouter, err := web.NewRouter(web.Deps{
		DB:             database,
		JWTSecret:      jwtSecret,
		Tracker:        tracker,
		Bucket:         bucket,
		Media:          media,
		Picker:         pick,
		Preview:        preview,
		Quote:          quote,
		Limiter:        limiter,
		Metrics:        m,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	if cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return preview.Run(ctx) })
	g.Go(func() error { return quote.Run(ctx) })
	g.Go(func() error {
		slog.Info("server started", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})

	err = g.Wait()
	slog.Info("server stopped, closing database")
	return err
}

// ensureAdmin makes sure the admin account exists. A configured password is
// applied on every start; otherwise a password is generated and printed the
// first time the database has no users.
func ensureAdmin(ctx context.Context, database *sql.DB, cfg config.AdminConfig) error {
	if cfg.Password != "" {
		hash, err := auth.HashPassword(cfg.Password)
		if err != nil {
			return fmt.Errorf("%s_ADMIN_PASSWORD: %w", config.EnvPrefix, err)
		}
		if _, err := store.UpsertAdmin(ctx, database, cfg.Username, hash); err != nil {
			return fmt.Errorf("setting admin password: %w", err)
		}
		slog.Info("admin account configured", "user", cfg.Username)
		return nil
	}

	count, err := store.CountUsers(ctx, database)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := store.CreateUser(ctx, database, cfg.Username, hash); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	printInitResult(cfg.Username, password)
	return nil
}

// printInitResult prints the generated admin credentials to stdout.
func printInitResult(username, password string) {
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Printf("Set %s_ADMIN_PASSWORD to choose your own.\n", config.EnvPrefix)
	fmt.Println()
}
