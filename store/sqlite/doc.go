// Package sqlite implements store.Store using the grove ORM with SQLite
// dialect. It is the durable on-device backend: snapshots survive a process
// restart.
//
// New wraps a *grove.DB the caller owns. Open dials the file itself and the
// returned store closes it:
//
//	db, _ := grove.Open(ctx, "sqlite", dsn)
//	s := sqlite.New(db)
//	s.Migrate(ctx)
//
// Expired rows are hidden from reads and removed lazily on access, or in
// bulk by PurgeExpired.
package sqlite
