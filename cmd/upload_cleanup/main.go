package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"captionstudio/internal/config"
	"captionstudio/internal/database"
	"captionstudio/internal/domain/upload"
)

// Purges uploads older than UPLOAD_TTL. Intended to run from cron when the
// retention policy is ttl.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.UploadRetention != config.RetentionTTL {
		log.Printf("upload retention is %q, nothing to purge", cfg.UploadRetention)
		return
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := upload.NewRepository(db)
	service := upload.NewService(repo, cfg.UploadDir, cfg.UploadRetention)

	cutoff := time.Now().Add(-cfg.UploadTTL)
	purged, err := service.PurgeOlderThan(context.Background(), cutoff)
	if err != nil {
		log.Fatalf("upload cleanup failed after %d removals: %v", purged, err)
	}

	log.Printf("upload cleanup completed: removed=%d cutoff=%s", purged, cutoff.Format(time.RFC3339))
}
