// Package database handles database connections, schema inspection and table reads.
//
// It wraps GORM to open MySQL or sqlite connections from the application's
// configuration. Tables addressed as table://name are read into datasets so they
// can be compared against files.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "accounts")
//	ds, err := database.ReadTable(ctx, db, "accounts")
package database
