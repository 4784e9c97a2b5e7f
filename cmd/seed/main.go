// Seeds a local database with a creator, a fan and a small catalog so
// the checkout endpoints have something to sell.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	pg "creator-payment-ledger/internal/infra/db/postgres"
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, dsn, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	creatorID := uuid.NewString()
	fanID := uuid.NewString()
	contentID := uuid.NewString()
	packID := uuid.NewString()
	messageID := uuid.NewString()

	stmts := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO users (id, name, email) VALUES ($1, 'Ana Creator', 'ana@example.com')`, []any{creatorID}},
		{`INSERT INTO users (id, name, email) VALUES ($1, 'Felipe Fan', 'felipe@example.com')`, []any{fanID}},
		{`INSERT INTO creator_profiles (user_id, subscription_price) VALUES ($1, 1990)`, []any{creatorID}},
		{`INSERT INTO contents (id, creator_id, visibility, price, item_prices, storage_key)
		  VALUES ($1, $2, 'ppv', 990, ARRAY[490, 690]::bigint[], 'contents/' || $1)`, []any{contentID, creatorID}},
		{`INSERT INTO packs (id, creator_id, price, storage_key) VALUES ($1, $2, 2990, 'packs/' || $1)`, []any{packID, creatorID}},
		{`INSERT INTO messages (id, sender_id, user_id, ppv, price, content_id)
		  VALUES ($1, $2, $3, TRUE, 790, $4)`, []any{messageID, creatorID, fanID, contentID}},
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			log.Fatalf("seed: %v\n  sql: %s", err, s.sql)
		}
	}

	log.Printf("seeded:\n  creator=%s\n  fan=%s\n  content=%s\n  pack=%s\n  message=%s",
		creatorID, fanID, contentID, packID, messageID)
}
