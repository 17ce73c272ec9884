// Package postgres provides PostgreSQL access for the superheroes service on top of GORM.
//
// Core Features:
//   - Connection pooling with package defaults for unset limits
//   - Background health checks and automatic reconnection
//   - A fluent QueryBuilder for filtered, ordered reads
//   - Transactions with a transaction-scoped Client
//   - Translation of GORM and pgconn errors to package sentinels
//
// Basic Usage:
//
//	db, err := postgres.NewPostgres(postgres.Config{URL: os.Getenv("DATABASE_URL")}, log)
//	if err != nil {
//		return err
//	}
//	defer db.GracefulShutdown()
//
//	var heroes []Superhero
//	err = db.Query(ctx).
//		Where("humility_score >= ?", 8).
//		Order("humility_score DESC").
//		Find(&heroes)
//
// Error Handling:
//
// CRUD and query methods return GORM errors unchanged. Use TranslateError to
// obtain the standardized sentinels:
//
//	err := db.Create(ctx, &hero)
//	if errors.Is(db.TranslateError(err), postgres.ErrDuplicateKey) {
//		// unique constraint hit
//	}
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		postgres.FXModule, // provides *Postgres and postgres.Client
//		fx.Supply(postgresConfig),
//	)
//
// Thread Safety:
//
// All methods on *Postgres are safe for concurrent use. A QueryBuilder is not.
package postgres
