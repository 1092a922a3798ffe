package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"phonemart/internal/adapter/api/handler"
	apimiddleware "phonemart/internal/adapter/api/middleware"
	"phonemart/internal/adapter/api/router"
	"phonemart/internal/adapter/repository"
	"phonemart/internal/domain/service"
	"phonemart/internal/infrastructure/docstore"
	"phonemart/internal/infrastructure/firebase"
	"phonemart/internal/infrastructure/ratelimit"
	"phonemart/internal/infrastructure/storage"
	"phonemart/internal/usecase"
	"phonemart/pkg/config"
)

type customValidator struct {
	validator *validator.Validate
}

func (cv *customValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	var authClient *firebase.FirebaseAuthClient
	var store docstore.Client

	if cfg.StoreBackend == "memory" {
		log.Printf("Using in-memory document store")
		store = docstore.NewMemory()
	} else {
		firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		fbAuth, err := firebaseApp.Auth(ctx)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		authClient = firebase.NewFirebaseAuthClient(fbAuth)

		firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		store = docstore.NewFirestoreClient(firestoreClient)
	}

	var storageClient *storage.CloudStorageClient
	if cfg.StorageBucket != "" {
		storageClient, err = storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
		defer storageClient.Close()
	}

	// Repositories
	productRepo := repository.NewDocstoreProductRepository(store)
	favoriteRepo := repository.NewDocstoreFavoriteRepository(store)
	reviewRepo := repository.NewDocstoreReviewRepository(store)
	orderRepo := repository.NewDocstoreOrderRepository(store)

	// Use cases: single shared instances, injected everywhere.
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, time.Duration(cfg.CatalogTTLSeconds)*time.Second)
	favoritesUseCase := usecase.NewFavoritesUseCase(favoriteRepo, service.ContextIdentity{})
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, orderRepo, productRepo)

	handler.Setup(catalogUseCase, favoritesUseCase, reviewUseCase, storageClient)
	handler.SetupHealthHandler(authClient)

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	e := echo.New()
	e.Validator = &customValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	router.Setup(e, authMiddleware, rateLimitMiddleware)

	log.Printf("Starting server on port %s (environment: %s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
