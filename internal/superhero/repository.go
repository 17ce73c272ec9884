package superhero

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/postgres"
)

// Repository is the persistence gateway for superheroes.
//
//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=superhero
type Repository interface {
	// Create inserts hero and fills in its generated ID and CreatedAt.
	// A name collision yields an error matching ErrDuplicateName.
	Create(ctx context.Context, hero *Superhero) error

	// List returns heroes ordered by humility score, highest first, keeping
	// only those scoring at least *minHumility when it is non-nil.
	// Heroes with equal scores come back in whatever order the database yields.
	List(ctx context.Context, minHumility *int) ([]Superhero, error)

	// GetByID returns found=false with a nil error when no hero has the id.
	GetByID(ctx context.Context, id int64) (hero *Superhero, found bool, err error)

	// Migrate creates or updates the superheroes table.
	Migrate(ctx context.Context) error

	// Reset deletes every hero and inserts the given ones in one transaction.
	Reset(ctx context.Context, heroes ...Superhero) error
}

type gormRepository struct {
	db     postgres.Client
	logger logger.Logger
}

// NewRepository returns a Repository backed by db.
func NewRepository(db postgres.Client, log logger.Logger) Repository {
	return &gormRepository{db: db, logger: log}
}

func (r *gormRepository) Create(ctx context.Context, hero *Superhero) error {
	if err := r.db.Create(ctx, hero); err != nil {
		translated := r.db.TranslateError(err)
		if errors.Is(translated, postgres.ErrDuplicateKey) {
			return fmt.Errorf("%w: %w", ErrDuplicateName, translated)
		}
		return r.persistenceError(ctx, "insert superhero", translated)
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, minHumility *int) ([]Superhero, error) {
	query := r.db.Query(ctx).Model(&Superhero{})
	if minHumility != nil {
		query = query.Where("humility_score >= ?", *minHumility)
	}

	heroes := make([]Superhero, 0)
	if err := query.Order("humility_score DESC").Find(&heroes); err != nil {
		return nil, r.persistenceError(ctx, "list superheroes", r.db.TranslateError(err))
	}
	return heroes, nil
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*Superhero, bool, error) {
	var hero Superhero
	if err := r.db.First(ctx, &hero, id); err != nil {
		translated := r.db.TranslateError(err)
		if errors.Is(translated, postgres.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, r.persistenceError(ctx, "get superhero", translated)
	}
	return &hero, true, nil
}

func (r *gormRepository) Migrate(ctx context.Context) error {
	if err := r.db.Migrate(ctx, &Superhero{}); err != nil {
		return r.persistenceError(ctx, "migrate superheroes", err)
	}
	return nil
}

func (r *gormRepository) Reset(ctx context.Context, heroes ...Superhero) error {
	err := r.db.Transaction(ctx, func(tx postgres.Client) error {
		if _, err := tx.Exec(ctx, "DELETE FROM superheroes"); err != nil {
			return err
		}
		if len(heroes) == 0 {
			return nil
		}
		return tx.Create(ctx, &heroes)
	})
	if err != nil {
		return r.persistenceError(ctx, "reset superheroes", r.db.TranslateError(err))
	}
	return nil
}

func (r *gormRepository) persistenceError(ctx context.Context, op string, err error) error {
	r.logger.ErrorWithContext(ctx, "superhero repository failure", err, map[string]interface{}{
		"operation": op,
		"category":  r.db.GetErrorCategory(err).String(),
		"retryable": r.db.IsRetryable(err),
	})
	return apperr.Wrap(apperr.KindPersistence, MsgDatabaseError, fmt.Errorf("%s: %w", op, err))
}
