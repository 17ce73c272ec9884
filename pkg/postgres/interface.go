package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Client is the PostgreSQL client interface consumed by repositories.
// *Postgres implements it; repositories depend on the interface so tests can
// substitute a sqlmock-backed instance.
type Client interface {
	Find(ctx context.Context, dest interface{}, conditions ...interface{}) error
	First(ctx context.Context, dest interface{}, conditions ...interface{}) error
	Create(ctx context.Context, value interface{}) error
	Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error
	Exec(ctx context.Context, sql string, values ...interface{}) (int64, error)

	// Query builder for filtered and ordered reads.
	Query(ctx context.Context) *QueryBuilder

	// Transaction runs fn inside a transaction; fn receives a transaction-scoped Client.
	Transaction(ctx context.Context, fn func(tx Client) error) error

	// Migrate creates or updates the tables of the given models.
	Migrate(ctx context.Context, models ...interface{}) error

	// DB gives raw GORM access for advanced use cases.
	DB() *gorm.DB

	// Error translation / classification.
	//
	// CRUD and query methods return raw GORM/driver errors.
	// TranslateError normalizes them to this package's sentinels.
	TranslateError(err error) error
	GetErrorCategory(err error) ErrorCategory
	IsRetryable(err error) bool

	Ping(ctx context.Context) error
	GracefulShutdown() error
}

var _ Client = (*Postgres)(nil)
