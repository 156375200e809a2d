// Package migration applies versioned SQL files to a SQLite database.
//
// Migration files are read from an fs.FS (usually an embed.FS) and must be
// named {version}_{description}.sql, for example 001_initial_schema.sql.
// Applied versions are tracked in the schema_migrations table together with
// the checksum of the file that was applied, so an edited migration is
// reported instead of being silently skipped.
//
//	manager := migration.NewManager(migration.NewScanner(), migration.NewSQLiteExecutor(db), files, logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
