package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Query provides a flexible way to build complex queries.
// It returns a QueryBuilder which can be used to chain query methods in a fluent interface.
//
// Example:
//
//	var heroes []Superhero
//	err := db.Query(ctx).
//	    Where("humility_score >= ?", 5).
//	    Order("humility_score DESC").
//	    Find(&heroes)
func (p *Postgres) Query(ctx context.Context) *QueryBuilder {
	return &QueryBuilder{
		db: p.DB().WithContext(ctx),
	}
}

// QueryBuilder provides a fluent interface for building database queries.
// It wraps GORM's query building; the chain is applied when a terminal method is called.
// A builder must not be shared between goroutines.
type QueryBuilder struct {
	db *gorm.DB
}

// Select specifies fields to be selected in the query.
//
// Example:
//
//	qb.Select("id, name")
func (qb *QueryBuilder) Select(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Select(query, args...)
	return qb
}

// Where adds a WHERE condition to the query.
// Multiple Where calls are combined with AND logic.
//
// Example:
//
//	qb.Where("humility_score >= ?", 8)
func (qb *QueryBuilder) Where(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Where(query, args...)
	return qb
}

// Order adds an ORDER BY clause to the query.
//
// Example:
//
//	qb.Order("humility_score DESC")
func (qb *QueryBuilder) Order(value interface{}) *QueryBuilder {
	qb.db = qb.db.Order(value)
	return qb
}

// Limit caps the number of returned rows.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.db = qb.db.Limit(limit)
	return qb
}

// Offset skips the given number of rows.
func (qb *QueryBuilder) Offset(offset int) *QueryBuilder {
	qb.db = qb.db.Offset(offset)
	return qb
}

// Model specifies the model the query operates on.
func (qb *QueryBuilder) Model(value interface{}) *QueryBuilder {
	qb.db = qb.db.Model(value)
	return qb
}

// Find executes the query and scans every matching row into dest.
func (qb *QueryBuilder) Find(dest interface{}) error {
	return qb.db.Find(dest).Error
}

// First executes the query and scans the first row ordered by primary key into dest.
func (qb *QueryBuilder) First(dest interface{}) error {
	return qb.db.First(dest).Error
}

// Count executes a COUNT query.
func (qb *QueryBuilder) Count(count *int64) error {
	return qb.db.Count(count).Error
}

// ToSubquery returns the underlying builder for use as a GORM subquery.
func (qb *QueryBuilder) ToSubquery() *gorm.DB {
	return qb.db
}
