package superhero

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/postgres"
)

var heroColumns = []string{"id", "name", "superpower", "humility_score", "created_at"}

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewRepository(postgres.NewFromDB(gdb, logger.NewNop()), logger.NewNop()), mock
}

func TestRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "superheroes"`)).
		WithArgs("Test Hero", "Writing amazing tests", 8, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	hero := &Superhero{Name: "Test Hero", Superpower: "Writing amazing tests", HumilityScore: 8}
	require.NoError(t, repo.Create(context.Background(), hero))

	assert.EqualValues(t, 7, hero.ID)
	assert.False(t, hero.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDuplicateName(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "superheroes"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_superheroes_name"`})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &Superhero{Name: "Test Hero", Superpower: "Writing amazing tests", HumilityScore: 8})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.ErrorIs(t, err, postgres.ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateDatabaseFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &Superhero{Name: "Hero", Superpower: "Kind", HumilityScore: 5})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateName)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindPersistence, appErr.Kind)
	assert.Equal(t, MsgDatabaseError, appErr.Message)
}

func TestRepositoryListFiltersAndOrders(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "superheroes" WHERE humility_score >= $1 ORDER BY humility_score DESC`)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(heroColumns).
			AddRow(3, "The Quiet Helper", "Everywhere", 10, now).
			AddRow(1, "The Silent Guardian", "Invisible", 9, now))

	nine := 9
	heroes, err := repo.List(context.Background(), &nine)
	require.NoError(t, err)
	require.Len(t, heroes, 2)
	assert.Equal(t, 10, heroes[0].HumilityScore)
	assert.Equal(t, 9, heroes[1].HumilityScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListWithoutFilter(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "superheroes" ORDER BY humility_score DESC`)).
		WillReturnRows(sqlmock.NewRows(heroColumns))

	heroes, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, heroes)
	assert.Empty(t, heroes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "superheroes" WHERE "superheroes"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows(heroColumns).AddRow(5, "Captain Kindness", "Empathy", 8, time.Now()))

		hero, found, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Captain Kindness", hero.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent is not an error", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "superheroes" WHERE "superheroes"."id" = $1`)).
			WillReturnRows(sqlmock.NewRows(heroColumns))

		hero, found, err := repo.GetByID(context.Background(), 99)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, hero)
	})
}

func TestRepositoryReset(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM superheroes")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "superheroes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := repo.Reset(context.Background(),
		Superhero{Name: "Doctor Support", Superpower: "Healing", HumilityScore: 7},
		Superhero{Name: "Captain Kindness", Superpower: "Empathy", HumilityScore: 8},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryResetRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM superheroes")).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := repo.Reset(context.Background(), Superhero{Name: "Hero", Superpower: "Kind", HumilityScore: 5})
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
