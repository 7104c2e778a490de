package main

import (
	"context"
	"log"
	"os"

	"gopnad/adapters/filestore"
	"gopnad/adapters/postgres"
	"gopnad/internal/container"
	"gopnad/ports"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	cacheDir := ""
	switch len(os.Args) {
	case 1:
	case 2:
		databaseURL = os.Args[1]
	case 3:
		databaseURL, cacheDir = os.Args[1], os.Args[2]
	default:
		log.Fatal("Usage: migrate [database_url] [file_cache_dir]")
	}

	ctx := context.Background()
	db, err := container.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}
	defer db.Close()
	log.Println("Database schema is up to date")

	if cacheDir == "" {
		return
	}

	files, err := filestore.New(cacheDir)
	if err != nil {
		log.Fatalf("Failed to open file cache: %v", err)
	}
	copied, skipped, err := importColumns(ctx, files, postgres.NewColumnStore(db))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Import complete: %d columns copied, %d skipped", copied, skipped)
}

// importColumns copies every column of src into dst. Unreadable columns are
// logged and skipped.
func importColumns(ctx context.Context, src, dst ports.ColumnStore) (copied, skipped int, err error) {
	entries, err := src.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	log.Printf("Found %d cached columns to import", len(entries))

	for _, e := range entries {
		col, err := src.Get(ctx, e.ColumnKey)
		if err != nil {
			log.Printf("Failed to read %s: %v", e.ColumnKey, err)
			skipped++
			continue
		}
		if err := dst.Put(ctx, e.ColumnKey, col); err != nil {
			return copied, skipped, err
		}
		copied++
	}
	return copied, skipped, nil
}
