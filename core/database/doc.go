// Package database handles connections to the version cache store.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) that
// dispatches on the configured driver. The cache normally lives in a local
// sqlite file (mod_versions.db); a MySQL driver is kept for setups where
// several pack maintainers share one cache.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
