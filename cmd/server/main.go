package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kavacham/backend/internal/config"
	"github.com/kavacham/backend/internal/dedup"
	"github.com/kavacham/backend/internal/handler"
	"github.com/kavacham/backend/internal/logging"
	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/repository"
	"github.com/kavacham/backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO", "json")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := repository.Open(connectCtx, cfg.Store.Driver, cfg.Store.MongoURI, cfg.Store.MongoDatabase, cfg.Store.PostgresURL)
	cancel()
	if err != nil {
		logging.Fatal("failed to connect to store", "driver", cfg.Store.Driver, "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Warn("store close failed", "error", err)
		}
	}()
	slog.Info("store connected", "driver", cfg.Store.Driver)

	// Redis は任意。未設定の場合はストアの一意制約のみで重複を防ぐ
	var locker service.JoinLocker
	if cfg.Redis.Enabled {
		rdb := dedup.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		defer rdb.Close()
		locker = dedup.NewJoinLock(rdb, "waitlist", cfg.Redis.LockTTL)
		slog.Info("waitlist join lock enabled", "redis", cfg.Redis.Address)
	}

	renderer, err := mail.NewRenderer()
	if err != nil {
		logging.Fatal("failed to parse mail templates", "error", err)
	}
	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Secure:   cfg.Mail.Secure,
		Username: cfg.Mail.User,
		Password: cfg.Mail.Password,
		Timeout:  cfg.Mail.Timeout,
	})
	missing := cfg.Mail.Missing()
	if len(missing) > 0 {
		slog.Warn("mail settings missing, intake requests will fail until set", "missing", missing)
	}
	notifier := service.NewNotifier(renderer, sender, service.NotifierConfig{
		AdminEmail: cfg.Mail.AdminEmail,
		Missing:    missing,
		BrandName:  cfg.Mail.FromName,
	})

	contactService := service.NewContactService(store.Contacts, notifier)
	astrologerService := service.NewAstrologerService(store.Astrologers, notifier)
	waitlistService := service.NewWaitlistService(store.Waitlist, notifier, locker)

	a := app{
		h:          handler.New(store.DB, cfg.Server.FrontendURL),
		contact:    handler.NewContactHandler(contactService),
		astrologer: handler.NewAstrologerHandler(astrologerService),
		waitlist:   handler.NewWaitlistHandler(waitlistService),
		pages:      handler.NewPagesHandler(cfg.Server.PagesDir),
		limiter: handler.NewRateLimiter(ctx, cfg.Server.RateLimitPerMinute,
			handler.WithTrustedProxies(cfg.Server.TrustedProxies)),
	}

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           routes(a),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Intake responses wait for SMTP, so allow for the mail timeout.
		WriteTimeout: 2*cfg.Mail.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
