package cli

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/auth"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	redisstore "trivia-quiz-service/internal/infra/redis"
	"trivia-quiz-service/internal/infra/sqlite"
	"trivia-quiz-service/internal/selector"
	"trivia-quiz-service/internal/sheets"
	transport "trivia-quiz-service/internal/transport/http"
)

const defaultSessionSecret = "quiz-app-secret-key-change-in-production"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

// backends holds the optional external connections. Nil fields are not configured.
type backends struct {
	redis  *redis.Client
	pool   *pgxpool.Pool
	sqlite *sqlite.AuditStore
	sheets *sheets.Client
}

func (b *backends) Close() {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
	if b.sqlite != nil {
		_ = b.sqlite.Close()
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	questions := newQuestionRepository(cfg, b)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, time.Hour)

	var sessions app.QuizSessionRepository = memory.NewQuizSessionStore(quizTTL)
	var states app.StateStore = memory.NewStateStore()
	if b.redis != nil {
		sessions = redisstore.NewQuizSessionStore(b.redis, quizTTL)
		states = redisstore.NewStateStore(b.redis)
	}

	picker := selector.New(nil,
		selector.WithStrategy(selector.Strategy(cfg.Quiz.Strategy)),
		selector.WithMaxStates(cfg.Quiz.MaxStates),
	)
	quizService := app.NewQuizService(questions, sessions, picker, app.QuizDefaults{
		TargetScore: cfg.Quiz.TargetScore,
		Count:       cfg.Quiz.Count,
	})

	secret := cfg.Auth.SessionSecret
	if secret == "" || secret == defaultSessionSecret {
		glog.Warning("using the default session secret; set SESSION_SECRET in production")
		secret = defaultSessionSecret
	}
	sessionManager := auth.NewSessionManager(secret, config.TTLDuration(cfg.Auth.SessionTTL, 24*time.Hour))
	authService := app.NewAuthService(newProviders(cfg), states, sessionManager, newAuditRecorder(cfg, b))

	server := &http.Server{
		Addr: ":" + finalPort,
		Handler: transport.NewServer(quizService, authService, transport.RouterConfig{
			FrontendURL:   cfg.Server.FrontendURL,
			CORSOrigins:   cfg.Server.CORSOrigins,
			SecureCookies: cfg.Server.SecureCookies,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		warmUp(gctx, b, quizService)
		return nil
	})
	g.Go(func() error {
		glog.Infof("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// connect opens every configured backend. Postgres migrations run before the pool
// is handed out.
func connect(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}

	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			b.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.Close()
			return nil, errors.Wrap(err, "connect postgres")
		}
		b.pool = pool
	}

	if cfg.SQLite.Path != "" {
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.sqlite = store
	}

	if cfg.SheetsConfigured() {
		client, err := newSheetsClient(ctx, cfg)
		if err != nil {
			// The service still runs on the fallback bank or Postgres.
			glog.Warningf("google sheets disabled: %v", err)
		} else {
			b.sheets = client
		}
	} else {
		glog.Info("google sheets not configured")
	}
	return b, nil
}

func newSheetsClient(ctx context.Context, cfg config.Config) (*sheets.Client, error) {
	httpClient, err := sheets.NewHTTPClient(ctx, cfg.Sheets.CredentialsJSON, cfg.Sheets.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return sheets.NewClient(ctx, httpClient, cfg.Sheets.SpreadsheetID)
}

// newQuestionRepository picks the question source: the spreadsheet, then Postgres,
// then the built-in bank.
func newQuestionRepository(cfg config.Config, b *backends) app.QuestionRepository {
	var loader memory.QuestionLoader
	switch {
	case b.sheets != nil:
		loader = sheets.NewLoader(b.sheets, cfg.Sheets.Range)
	case b.pool != nil:
		loader = postgres.NewQuestionLoader(b.pool)
	default:
		loader = memory.NewStaticQuestionLoader(memory.FallbackQuestions(), domain.SourceFallback)
	}

	ttl := config.TTLDuration(cfg.Questions.TTL, 5*time.Minute)
	if b.redis != nil {
		return redisstore.NewQuestionRepository(b.redis, loader, memory.FallbackQuestions(), ttl)
	}
	return memory.NewQuestionRepository(loader, memory.FallbackQuestions(), ttl)
}

func newProviders(cfg config.Config) auth.Registry {
	base := strings.TrimRight(cfg.Auth.CallbackBaseURL, "/")
	var providers []auth.Provider
	if g := cfg.Auth.Google; g.ClientID != "" && g.ClientSecret != "" {
		providers = append(providers, auth.NewGoogle(g.ClientID, g.ClientSecret, base+"/api/auth/google/callback"))
	}
	if g := cfg.Auth.GitHub; g.ClientID != "" && g.ClientSecret != "" {
		providers = append(providers, auth.NewGitHub(g.ClientID, g.ClientSecret, base+"/api/auth/github/callback"))
	}
	if len(providers) == 0 {
		glog.Warning("no identity providers configured; login is disabled")
	}
	return auth.NewRegistry(providers...)
}

func newAuditRecorder(cfg config.Config, b *backends) auth.AuditRecorder {
	recorders := auth.MultiRecorder{auth.LogRecorder{}}
	if b.sheets != nil && cfg.Sheets.UserDataRange != "" {
		recorders = append(recorders, sheets.NewAuditRecorder(b.sheets, cfg.Sheets.UserDataRange))
	}
	if b.pool != nil {
		recorders = append(recorders, postgres.NewAuditStore(b.pool))
	}
	if b.sqlite != nil {
		recorders = append(recorders, b.sqlite)
	}
	return recorders
}

// warmUp checks the backends and preloads the question cache concurrently.
// Failures are logged; the service degrades instead of refusing to start.
func warmUp(ctx context.Context, b *backends, quiz *app.QuizService) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var g errgroup.Group
	if b.redis != nil {
		g.Go(func() error {
			return errors.Wrap(b.redis.Ping(ctx).Err(), "redis ping")
		})
	}
	if b.pool != nil {
		g.Go(func() error {
			return errors.Wrap(b.pool.Ping(ctx), "postgres ping")
		})
	}
	if b.sheets != nil {
		g.Go(func() error {
			return errors.Wrap(b.sheets.Ping(ctx), "sheets ping")
		})
	}
	if err := g.Wait(); err != nil {
		glog.Warningf("backend check failed: %v", err)
	}

	set, err := quiz.Questions(ctx)
	if err != nil {
		glog.Warningf("question warm-up failed: %v", err)
		return
	}
	glog.Infof("question cache warm: %d questions from %s", len(set.Questions), set.Source)
}
