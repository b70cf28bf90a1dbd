package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the orderflow sqlite store.
var Migrations = migrate.NewGroup("orderflow")

func init() {
	Migrations.MustRegister(
		// 001: Create the key-value table and its expiry index.
		&migrate.Migration{
			Name:    "create_kv_table",
			Version: "20260301120000",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
					CREATE TABLE IF NOT EXISTS orderflow_kv (
						key        TEXT PRIMARY KEY,
						value      BLOB NOT NULL,
						expires_at INTEGER,
						updated_at INTEGER NOT NULL
					)`)
				if err != nil {
					return err
				}

				_, err = exec.Exec(ctx, `
					CREATE INDEX IF NOT EXISTS idx_orderflow_kv_expires
						ON orderflow_kv (expires_at)
						WHERE expires_at IS NOT NULL`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS orderflow_kv`)
				return err
			},
		},
	)
}
