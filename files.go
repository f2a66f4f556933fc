package fintrack

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

//go:embed data/sql/analytics
var analyticsFS embed.FS

// GetAnalyticsFS returns the analytics query templates for this package
func GetAnalyticsFS() embed.FS {
	return analyticsFS
}
