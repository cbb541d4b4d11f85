package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	connectAttempts = 5
	retryInterval   = 5 * time.Second
)

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	for i := 0; i < connectAttempts; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		log.Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", connectAttempts).
			Dur("retry_in", retryInterval).
			Msg("failed to connect to database")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", connectAttempts, err)
}
