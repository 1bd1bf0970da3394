package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ftcaleb/marketing-kasiverse/internal/config"
)

// Open connects the pgx pool used by the self-hosted (postgres) provider
// mode. Hosted mode never opens a database.
func Open(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, pcfg)
}
