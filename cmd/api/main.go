package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/meusugar/server/internal/auth"
	"github.com/meusugar/server/internal/cache"
	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/chat"
	"github.com/meusugar/server/internal/config"
	"github.com/meusugar/server/internal/db"
	httphandler "github.com/meusugar/server/internal/http"
	"github.com/meusugar/server/internal/http/handlers"
	"github.com/meusugar/server/internal/i18n"
	"github.com/meusugar/server/internal/ledger"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/notify"
	"github.com/meusugar/server/internal/repo"
	"github.com/meusugar/server/internal/upload"
	"github.com/meusugar/server/internal/video"
)

// stores are nil when no backing store is configured.
type stores struct {
	users    repo.UserRepo
	models   repo.ModelRepo
	legal    repo.LegalRepo
	links    repo.LinksRepo
	metrics  repo.MetricsRepo
	packages repo.PackageRepo
	slides   repo.CarouselRepo
	media    repo.MediaRepo
}

func postgresStores(database *sql.DB) stores {
	return stores{
		users:    repo.NewUserRepo(database),
		models:   repo.NewModelRepo(database),
		legal:    repo.NewLegalRepo(database),
		links:    repo.NewLinksRepo(database),
		metrics:  repo.NewMetricsRepo(database),
		packages: repo.NewPackageRepo(database),
		slides:   repo.NewCarouselRepo(database),
		media:    repo.NewMediaRepo(database),
	}
}

func memoryStores() stores {
	return stores{
		users:    repo.NewMemoryUserRepo(),
		models:   repo.NewMemoryModelRepo(),
		legal:    repo.NewMemoryLegalRepo(),
		links:    repo.NewMemoryLinksRepo(),
		metrics:  repo.NewMemoryMetricsRepo(),
		packages: repo.NewMemoryPackageRepo(catalog.DefaultPackages()...),
		slides:   repo.NewMemoryCarouselRepo(catalog.DefaultSlides()...),
		media:    repo.NewMemoryMediaRepo(catalog.DefaultGalleries()),
	}
}

func main() {
	// Load .env from CWD or server/ so it works from repo root or server/ (env vars override)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("server/.env")

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error(context.Background(), "failed to load configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logging.Logger) error {
	ctx := context.Background()

	var st stores
	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Open(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := db.Migrate(database); err != nil {
			return err
		}
		st = postgresStores(database)
	case cfg.DevMode:
		log.Warn(ctx, "DATABASE_URL not set, using in-memory stores")
		st = memoryStores()
	default:
		log.Warn(ctx, "DATABASE_URL not set, reads serve fallback data and writes are unavailable")
	}

	var (
		transcripts repo.TranscriptRepo = repo.NewMemoryTranscriptRepo()
		videoCache  cache.Store         = cache.NewMemoryStore()
	)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func(c *redis.Client) { _ = c.Close() }(client)
		transcripts = repo.NewRedisTranscriptRepo(client)
		videoCache = cache.NewRedisStore(client, "video:")
	}

	var objects upload.ObjectStore
	if cfg.S3.Configured() {
		s3Store, err := upload.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return err
		}
		objects = s3Store
	} else {
		log.Warn(ctx, "object storage not configured, uploads are disabled")
	}

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.Mail.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
		})
	}

	providers := video.ProvidersFromConfig(cfg.Video, &http.Client{Timeout: 60 * time.Second})
	if len(providers) == 0 {
		log.Warn(ctx, "no video provider configured, video generation is disabled")
	}
	if !cfg.Admin.Configured() {
		log.Warn(ctx, "ADMIN_EMAIL or ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	locales, err := i18n.Load()
	if err != nil {
		return err
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := auth.NewService(auth.Options{
		Users:    st.users,
		Metrics:  st.metrics,
		Notifier: notifier,
		JWT:      jwtService,
		Salt:     cfg.OTPSalt,
		AppURL:   cfg.AppURL,
		Log:      log.With("component", "auth"),
	})
	adminGate := auth.NewAdminGate(cfg.Admin.Email, cfg.Admin.PasswordHash, jwtService, log.With("component", "admin"))

	profiles := catalog.NewProfiles(st.models, log)
	packages := catalog.NewPackages(st.packages, log)
	wallet := ledger.NewService(st.users, packages, st.metrics, log.With("component", "ledger"))
	generator := video.NewGenerator(providers, videoCache, log.With("component", "video"))
	chatService := chat.NewService(chat.Options{
		Profiles:    profiles,
		Transcripts: transcripts,
		Wallet:      wallet,
		Videos:      generator,
		Latency:     chat.NewLatency(cfg.Chat.ReplyDelay, cfg.Chat.ReplyJitter),
		Log:         log.With("component", "chat"),
	})

	router := httphandler.NewRouter(httphandler.Handlers{
		Health:  handlers.NewHealthHandler(),
		Auth:    handlers.NewAuthHandler(authService, adminGate, log),
		Tokens:  handlers.NewTokenHandler(wallet, packages, log),
		Models:  handlers.NewModelHandler(profiles, log),
		Content: handlers.NewContentHandler(catalog.NewLegal(st.legal, log), catalog.NewLinks(st.links, log), catalog.NewMetrics(st.metrics, log), log),
		Media:   handlers.NewMediaHandler(catalog.NewCarousel(st.slides, log), catalog.NewGallery(st.media, log), log),
		Upload:  handlers.NewUploadHandler(upload.NewRelay(objects, log.With("component", "upload")), log),
		Video:   handlers.NewVideoHandler(generator, log),
		Chat:    handlers.NewChatHandler(chatService, log),
		I18n:    handlers.NewI18nHandler(locales),
	}, jwtService, log, cfg.TrustProxy)

	// Uploads and video generation outlast the usual request budget
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info(ctx, "server exited")
	return nil
}
