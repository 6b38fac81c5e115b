package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/psi-scheduler/internal/audit"
	"github.com/BruksfildServices01/psi-scheduler/internal/auth"
	"github.com/BruksfildServices01/psi-scheduler/internal/chat"
	"github.com/BruksfildServices01/psi-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/psi-scheduler/internal/db"
	"github.com/BruksfildServices01/psi-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/psi-scheduler/internal/mailer"
	"github.com/BruksfildServices01/psi-scheduler/internal/notification"
	"github.com/BruksfildServices01/psi-scheduler/internal/realtime"
	"github.com/BruksfildServices01/psi-scheduler/internal/routes"
	"github.com/BruksfildServices01/psi-scheduler/internal/sms"
	"github.com/BruksfildServices01/psi-scheduler/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func runServer(parent context.Context, cfg *config.Config, log zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ======================================================
	// DATABASE
	// ======================================================
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	tokens, err := auth.NewTokenIssuer(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL())
	if err != nil {
		return err
	}

	// ======================================================
	// REALTIME
	// ======================================================
	hub := realtime.NewHub(log)
	var push realtime.Publisher = hub

	if cfg.RedisURL != "" {
		bridge, err := realtime.NewRedisBridge(cfg.RedisURL, hub, log)
		if err != nil {
			return err
		}
		if err := bridge.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, realtime stays local")
		} else {
			push = bridge
			go bridge.Run(ctx)
			defer bridge.Close()
		}
	}

	// ======================================================
	// STORAGE
	// ======================================================
	var store storage.Store
	uploadDir := ""
	if cfg.S3Enabled() {
		store = storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.AWSBucket,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		log.Info().Str("bucket", cfg.AWSBucket).Msg("storage: s3")
	} else {
		local := storage.NewLocalStore(cfg.UploadDir, "/uploads")
		store = local
		uploadDir = local.Dir()
		log.Info().Str("dir", uploadDir).Msg("storage: local")
	}

	// ======================================================
	// BACKGROUND WORKERS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	jobs := notification.NewDispatcher(0, log)

	notifier := notification.NewService(
		repository.NewNotificationGormRepository(db),
		push,
		mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.FromEmail,
		}, log),
		sms.NewTwilioSender(sms.Config{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioPhoneNumber,
		}, log),
		jobs,
		log,
	)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()

	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Log:          log,
		DB:           db,
		Tokens:       tokens,
		Accounts:     repository.NewAccountGormRepository(db),
		Appointments: repository.NewAppointmentGormRepository(db),
		Notify:       notifier,
		Audit:        auditDispatcher,
		Storage:      store,
		Hub:          hub,
		Assistant:    chat.NewAssistant(),
		UploadDir:    uploadDir,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		// handlers may still be running and enqueueing; leave the queues open
		log.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		jobs.Close()
		auditDispatcher.Close()
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}
