package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	"everjourney/internal/adapters/observability"
	redisad "everjourney/internal/adapters/redis"
	"everjourney/internal/app"
	"everjourney/internal/shared"
	mongostore "everjourney/internal/storage/mongo"
	"everjourney/internal/storage/sqlstore"
)

var (
	cfg     shared.Config
	workers int
	limit   int
)

func main() {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Database setup and maintenance for EverJourney",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = shared.Load()
			log.Logger = observability.NewLogger(cfg.AppEnv, "seed")
		},
	}
	root.AddCommand(migrateCmd(), seedCmd(), faqsCmd(), warmCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlstore.Open(ctx, cfg.DBDriver, cfg.DatabaseURL, sqlstore.Options{MaxOpen: 2, MaxIdle: 1})
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("db ping ok")
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := sqlstore.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Msg("schema applied")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var skipSchema bool
	c := &cobra.Command{
		Use:     "run",
		Aliases: []string{"seed"},
		Short:   "Apply the schema, then the seed files in order",
		Long: `Applies the embedded schema for DB_DRIVER and then every seed file.
Each file runs in its own transaction; the run stops at the first failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if !skipSchema {
				if err := sqlstore.Migrate(cmd.Context(), db); err != nil {
					return err
				}
			}
			if err := sqlstore.Seed(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Msg("seed completed")
			return nil
		},
	}
	c.Flags().BoolVar(&skipSchema, "skip-schema", false, "only load seed files")
	return c
}

func faqsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "faqs-to-mongo",
		Short: "Copy the FAQs from the relational database into MONGO_URI",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.MongoURI == "" {
				return fmt.Errorf("MONGO_URI is not set")
			}
			ctx := cmd.Context()
			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			faqs, err := sqlstore.New(db).FAQs().List(ctx)
			if err != nil {
				return err
			}
			client, err := mongostore.Connect(ctx, cfg.MongoURI)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()
			if err := mongostore.NewFAQs(client, cfg.MongoDB).Replace(ctx, faqs); err != nil {
				return err
			}
			log.Info().Int("count", len(faqs)).Str("db", cfg.MongoDB).Msg("faqs copied")
			return nil
		},
	}
}

// warmCmd loads the featured hotel pages into the shared cache.
func warmCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "warm-cache",
		Short: "Pre-load featured hotel detail pages into Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.RedisAddr == "" {
				return fmt.Errorf("REDIS_ADDR is not set")
			}
			ctx := cmd.Context()
			db, err := open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			store := sqlstore.New(db)
			cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.LocalCacheSize)
			defer cache.Close()
			if err := cache.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			catalog := app.NewCatalogService(store, store, cache, cfg.CacheTTL)

			hotels, err := store.FeaturedHotels(ctx, limit)
			if err != nil {
				return err
			}
			log.Info().Int("hotels", len(hotels)).Int("workers", workers).Msg("warming starting")

			sem := semaphore.NewWeighted(int64(workers))
			var wg sync.WaitGroup
			for _, h := range hotels {
				// acquire before launching the goroutine; release inside it
				if err := sem.Acquire(ctx, 1); err != nil {
					return err
				}
				wg.Add(1)
				go func(id string) {
					defer wg.Done()
					defer sem.Release(1)
					if _, err := catalog.HotelDetail(ctx, id); err != nil {
						log.Warn().Str("id", id).Err(err).Msg("warm failed")
						return
					}
					log.Debug().Str("id", id).Msg("warm ok")
				}(h.ID)
			}
			wg.Wait()
			log.Info().Msg("warming completed")
			return nil
		},
	}
	c.Flags().IntVar(&workers, "workers", 8, "concurrent page loads")
	c.Flags().IntVar(&limit, "limit", 50, "number of featured hotels to load")
	return c
}
