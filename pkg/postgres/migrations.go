package postgres

import "context"

// Migrate runs GORM auto-migrations for the provided models.
func (p *Postgres) Migrate(ctx context.Context, models ...interface{}) error {
	return p.DB().WithContext(ctx).AutoMigrate(models...)
}
