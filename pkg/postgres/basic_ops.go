package postgres

import (
	"context"
)

// Find finds records that match the given conditions.
func (p *Postgres) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).Find(dest, conditions...).Error
}

// First finds the first record ordered by primary key that matches the given conditions.
// It returns gorm.ErrRecordNotFound when nothing matches.
func (p *Postgres) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).First(dest, conditions...).Error
}

// Create inserts value and fills in generated columns (primary key, timestamps).
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	return p.DB().WithContext(ctx).Create(value).Error
}

// Count counts records of model. The first condition is the WHERE clause,
// the rest are its arguments; with no conditions every row is counted.
func (p *Postgres) Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error {
	db := p.DB().WithContext(ctx).Model(model)
	if len(conditions) > 0 {
		db = db.Where(conditions[0], conditions[1:]...)
	}
	return db.Count(count).Error
}

// Exec executes raw SQL and returns the number of affected rows.
func (p *Postgres) Exec(ctx context.Context, sql string, values ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Exec(sql, values...)
	return result.RowsAffected, result.Error
}
