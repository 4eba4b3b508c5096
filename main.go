package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-relay/domain/model"
	"social-relay/domain/repository"
	"social-relay/infrastructure/cache"
	facebookclient "social-relay/infrastructure/clients/facebook"
	linkedinclient "social-relay/infrastructure/clients/linkedin"
	youtubeclient "social-relay/infrastructure/clients/youtube"
	"social-relay/infrastructure/configuration"
	"social-relay/infrastructure/logger"
	"social-relay/infrastructure/persistence"
	httpHandler "social-relay/interfaces/http"
	"social-relay/server"
	"social-relay/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

// InitiateDatabase selects the credential store vendor. Production
// runs MSSQL, everything else PostgreSQL. A connection failure leaves
// the relay stateless rather than dead.
func InitiateDatabase() (repository.ICredential, error) {
	env := os.Getenv("ENV")
	vendor := os.Getenv("DB_VENDOR")
	if vendor == "mssql" || (vendor == "" && (env == "prod" || env == "stage")) {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, err
		}
		if err := persistence.EnsureCredentialSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring credential schema")
		}
		return persistence.NewCredentialRepositoryMSSQL(db), nil
	}
	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		return nil, err
	}
	if err := persistence.EnsureCredentialSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("failed ensuring credential schema")
	}
	return persistence.NewCredentialRepository(db), nil
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	credRepo, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Credential store not available - exchanged tokens will not be persisted")
		credRepo = nil
	} else {
		logger.GetLogger().Info("Credential store connected.")
	}

	var stateStore cache.IStateStore
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - keeping OAuth states in memory")
		stateStore = cache.NewMemoryStateStore()
	} else {
		stateStore = cache.NewRedisStateStore(redisClient)
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	timeout := time.Duration(app.OutboundTimeoutSeconds) * time.Second
	outbound := &http.Client{Timeout: timeout}

	providers := []repository.IProvider{
		linkedinclient.NewLinkedInClient(configuration.C.OAuth.LinkedIn, outbound),
		facebookclient.NewFacebookClient(configuration.C.OAuth.Facebook, outbound),
		youtubeclient.NewYouTubeClient(configuration.C.OAuth.YouTube, outbound),
	}
	redirects := map[model.Platform]string{
		model.PlatformLinkedIn: configuration.C.OAuth.LinkedIn.RedirectURI,
		model.PlatformFacebook: configuration.C.OAuth.Facebook.RedirectURI,
		model.PlatformYouTube:  configuration.C.OAuth.YouTube.RedirectURI,
	}

	exchangeUsecase := usecase.NewExchangeUsecase(providers, credRepo, redirects)
	publishUsecase := usecase.NewPublishUsecase(providers)

	tokenHandler := httpHandler.NewTokenHandler(exchangeUsecase, stateStore)
	publishHandler := httpHandler.NewPublishHandler(publishUsecase)
	connectHandler := httpHandler.NewConnectHandler(providers, stateStore, credRepo)

	router := server.InitiateRouter(tokenHandler, publishHandler, connectHandler, app.FrontendOrigin)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Interrupt signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while shutting down server")
		}
	}
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Application stopped with error")
	}
	logger.GetLogger().Info("Application stopped")
}
