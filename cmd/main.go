package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apihttp "github.com/avinashg0y4l/lighthouse-chatbot/internal/api/http"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/config"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/logger"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/model"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/nlp"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/repository/postgres"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/server"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/service"
	localstorage "github.com/avinashg0y4l/lighthouse-chatbot/internal/storage/local"
	miniostorage "github.com/avinashg0y4l/lighthouse-chatbot/internal/storage/minio"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/token"
	"github.com/avinashg0y4l/lighthouse-chatbot/internal/twilio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const mediaFetchTimeout = 20 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	attendanceRepo := postgres.NewAttendanceRepository(db)
	salaryRepo := postgres.NewSalaryRepository(db)
	kycRepo := postgres.NewKycRepository(db)

	blobStorage, err := newBlobStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize blob storage", "error", err)
	}

	fetcher := twilio.NewMediaFetcher(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, mediaFetchTimeout)
	resolver := nlp.NewResolver(cfg.Dialogflow.ProjectID, cfg.Dialogflow.CredentialsFile, fetcher, logger)
	commands := service.NewCommands(userRepo, attendanceRepo, salaryRepo, kycRepo, blobStorage, fetcher, logger)
	tokenManager := token.NewJWT(cfg.Admin.JWTSecret)

	webhookHandler := apihttp.NewWebhookHandler(userRepo, resolver, commands, logger)
	adminHandler := apihttp.NewAdminHandler(kycRepo, tokenManager, cfg.Admin.APIKey, logger)
	router := apihttp.NewRouter(webhookHandler, adminHandler, userRepo, db, tokenManager, logger)

	httpServer := server.NewHTTPServer(router, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newBlobStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.Upload.Backend {
	case "s3":
		minioClient, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
			Secure: cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		return miniostorage.NewClient(ctx, minioClient, cfg.Minio.Bucket)
	case "local":
		return localstorage.New(cfg.Upload.Dir), nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
