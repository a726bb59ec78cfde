package main

import (
	"context"
	"log"

	"github.com/verdara/verdara-backend/config"
	"github.com/verdara/verdara-backend/internal/auth"
	"github.com/verdara/verdara-backend/internal/bootstrap"
	"github.com/verdara/verdara-backend/internal/designs/blob"
	"github.com/verdara/verdara-backend/internal/designs/gc"
	designsrepo "github.com/verdara/verdara-backend/internal/designs/repository"
	"github.com/verdara/verdara-backend/internal/designs/sanitize"
	designsvc "github.com/verdara/verdara-backend/internal/designs/service"
	pricingrepo "github.com/verdara/verdara-backend/internal/pricing/repository"
	pricingsvc "github.com/verdara/verdara-backend/internal/pricing/service"
	"github.com/verdara/verdara-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	app, err := auth.NewFirebaseApp(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	authClient, err := auth.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}

	fsClient, err := bootstrap.NewFirestore(ctx, app)
	if err != nil {
		log.Fatalf("firestore: %v", err)
	}
	defer fsClient.Close()

	fbStore, s3Store, err := bootstrap.NewBlobStore(ctx, cfg, app)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	var store blob.Store
	var objects gc.ObjectStore
	if s3Store != nil {
		store, objects = s3Store, s3Store
	} else {
		store, objects = fbStore, fbStore
	}

	uploader := blob.NewUploader(store)
	sanitizer := sanitize.New(uploader)
	docStore := designsrepo.NewFirestoreStore(fsClient)
	repo := designsrepo.NewDesignRepository(docStore, sanitizer)

	cache := bootstrap.NewRedis(ctx, &cfg.Redis)
	designService := designsvc.NewDesignService(repo, cache)

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database)})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres (sql): %v", err)
	}
	defer sqlDB.Close()

	priceStore := pricingrepo.NewPriceStore(pool)
	estimator := pricingsvc.NewEstimator(priceStore)
	history := pricingrepo.NewEstimateHistoryRepo(sqlDB)

	gcScheduler := gc.NewScheduler(gc.NewSweeper(objects, repo))
	gcScheduler.Start()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "verdara-backend",
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		AuthClient:  authClient,
		Designs:     designService,
		Estimator:   estimator,
		Prices:      priceStore,
		History:     history,
		DB:          pool,
		Cache:       cache,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
