package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/verdara/verdara-backend/config"
	"github.com/verdara/verdara-backend/internal/designs/blob"
)

// NewFirestore returns the Firestore client of the Firebase app.
func NewFirestore(ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return client, nil
}

// NewBlobStore builds the configured blob backend. Both backends expose
// Put for the uploader and List/Delete for the gc sweeper.
func NewBlobStore(ctx context.Context, cfg *config.Config, app *firebase.App) (*blob.FirebaseStore, *blob.S3Store, error) {
	switch cfg.Storage.Backend {
	case "s3":
		s3Store, err := blob.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region)
		if err != nil {
			return nil, nil, err
		}
		return nil, s3Store, nil
	default:
		fbStore, err := blob.NewFirebaseStore(ctx, app, cfg.Firebase.StorageBucket)
		if err != nil {
			return nil, nil, err
		}
		return fbStore, nil, nil
	}
}

// NewRedis connects to Redis for the gallery cache. A nil client is a
// valid result when Redis is unreachable: caching is optional.
func NewRedis(ctx context.Context, cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unavailable, gallery cache disabled: %v", err)
		return nil
	}
	return client
}
