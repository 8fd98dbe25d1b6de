package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/sickfits/internal/config"
	"github.com/Skotchmaster/sickfits/internal/events"
	"github.com/Skotchmaster/sickfits/internal/httpserver"
	"github.com/Skotchmaster/sickfits/internal/mutation"
	"github.com/Skotchmaster/sickfits/internal/notify"
	"github.com/Skotchmaster/sickfits/internal/repo"
	"github.com/Skotchmaster/sickfits/internal/search"
	"github.com/Skotchmaster/sickfits/internal/service"
	"github.com/Skotchmaster/sickfits/pkg/db"
	"github.com/Skotchmaster/sickfits/pkg/hash"
	"github.com/Skotchmaster/sickfits/pkg/logging"
	"github.com/Skotchmaster/sickfits/pkg/middleware/csrf"
	"github.com/Skotchmaster/sickfits/pkg/tokens"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.OpenPostgres(initCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db init error: %v", err)
	}

	store := &repo.GormRepo{DB: gdb}
	if err := store.Migrate(initCtx); err != nil {
		cancel()
		log.Fatalf("db migrate error: %v", err)
	}

	var pub events.Publisher = events.Nop{}
	var notifier notify.Notifier = notify.Log{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafkaPublisher(cfg.KafkaBrokers)
		notifier = notify.Outbox{Pub: pub}
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty")
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close", "error", err)
		}
	}()

	var index search.Index = search.Nop{}
	if cfg.ESURL != "" {
		client, err := search.NewClient(initCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			cancel()
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.ES{Client: client, Name: cfg.ESIndex}
	} else {
		logger.Warn("search_disabled", "reason", "ES_URL is empty")
	}
	cancel()

	hasher := hash.New(cfg.BcryptCost)
	issuer := tokens.NewIssuer(cfg.AppSecret)

	gw := &mutation.Gateway{
		Auth: &service.AuthService{Repo: store, Hasher: hasher, Tokens: issuer},
		Reset: &service.ResetService{
			Repo:     store,
			Hasher:   hasher,
			Tokens:   issuer,
			Notifier: notifier,
			Template: notify.Template{FrontendURL: cfg.FrontendURL, From: cfg.MailFrom},
			TTL:      cfg.ResetTTL,
		},
		Cart:   &service.CartService{Repo: store},
		Repo:   store,
		Tokens: issuer,
		Events: pub,
		Index:  index,
	}

	var csrfCfg *csrf.Config
	if cfg.CSRFEnabled {
		c := csrf.DefaultConfig()
		c.Secure = cfg.CookieSecure
		c.SkipPaths = []string{"/health/live", "/health/ready", "/signin", "/signup"}
		csrfCfg = &c
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())

	httpserver.Register(e, &httpserver.Deps{
		Logger:  logger,
		DB:      gdb,
		Gateway: gw,
		Repo:    store,
		Index:   index,
		Cookies: httpserver.CookieConfig{Secure: cfg.CookieSecure},
		CSRF:    csrfCfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
