// Package store defines the key-value persistence interface used for wizard
// snapshots, the remembered delivery address and the reopen signal flags.
//
// # Available Backends
//
//   - store/memory: in-process store for tests and single-process use
//   - store/redis: Redis backend using go-redis, with native key expiry
//   - store/sqlite: durable on-device store on the grove ORM (SQLite dialect)
//   - store/postgres: PostgreSQL backend using pgx/v5 for server-side sessions
//
// # Usage
//
//	s, err := sqlite.Open(ctx, "orderflow.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	if err := s.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	of, err := orderflow.New(orderflow.WithStore(s))
package store
