// Package seeder fills a development database with demo data.
package seeder

import (
	"context"

	"offerless/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
