package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventrsvp/config"
	_ "eventrsvp/docs"
	"eventrsvp/internal/adapters/auth"
	"eventrsvp/internal/adapters/email"
	httpapi "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
	"eventrsvp/internal/repository/mongodb"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"

	"golang.org/x/crypto/bcrypt"
)

// emailSendTimeout bounds each background confirmation send.
const emailSendTimeout = 30 * time.Second

// @title Event RSVP API
// @version 1.0
// @description Public event listing with email RSVPs and an admin surface for managing events and registrants.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin JWT. The "token" cookie set by /admin/login is accepted as well.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Close(closeCtx); err != nil {
			logger.Error("closing store", "err", err)
		}
	}()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}

	if cfg.AdminPasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set; admin login is disabled")
	}
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	authService := services.NewAuthService(
		services.AdminAccount{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
		hasher,
		auth.NewJWTIssuer(cfg.JWTSecret),
		auth.NewJWTVerifier(cfg.JWTSecret),
		cfg.TokenExpiry,
	)
	eventService := services.NewEventService(repo, cfg.RequestTimeout)
	emailService := services.NewAsyncEmailService(services.NewEmailService(mailer, renderer, logger), logger, emailSendTimeout)
	rsvpService := services.NewRSVPService(repo, emailService, logger, cfg.RequestTimeout)

	router := httpapi.NewRouter(httpapi.Controllers{
		Events: controllers.NewEventController(logger, eventService),
		RSVPs:  controllers.NewRSVPController(logger, rsvpService, cfg.AllowedEmailDomain),
		Admin:  controllers.NewAdminController(logger, eventService, rsvpService),
		Auth:   controllers.NewAuthController(logger, authService, cfg.IsProduction()),
	}, httpapi.RouterOptions{
		Logger:            logger,
		Verifier:          authService,
		LoginLimiter:      middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst),
		AllowedOrigins:    cfg.AllowedOrigins,
		PublicEventWrites: cfg.PublicEventWrites,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := emailService.Drain(shutdownCtx); err != nil {
		logger.Warn("pending confirmation emails abandoned", "err", err)
	}
	return nil
}

// openStore connects to the configured backend and prepares its schema or indexes.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.EventRepository, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("connected to postgres")
		return postgres.NewEventRepository(db), nil
	default:
		client, err := mongodb.Open(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDBName)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("connected to mongodb", "database", cfg.MongoDBName)
		return mongodb.NewEventRepository(client, db, logger), nil
	}
}
