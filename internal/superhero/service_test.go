package superhero

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

func newTestService(t *testing.T) (*Service, *MockRepository) {
	t.Helper()

	// Runs last, after the tracer is shut down.
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })

	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	tr, err := tracer.NewClient(tracer.Config{ServiceName: "superheroes-test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	m := metrics.NewMetrics(metrics.Config{ServiceName: "superheroes-test"})
	return NewService(repo, NewValidator(), logger.NewNop(), tr, m), repo
}

func TestCreateSuperhero(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, hero *Superhero) error {
			hero.ID = 1
			return nil
		})

	hero, err := svc.CreateSuperhero(ctx, CreateInput{Name: "Test Hero", Superpower: "Writing amazing tests", HumilityScore: 8})
	require.NoError(t, err)
	assert.EqualValues(t, 1, hero.ID)
	assert.Equal(t, "Test Hero", hero.Name)
	assert.Equal(t, 8, hero.HumilityScore)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.created.WithLabelValues()))
}

func TestCreateSuperheroDuplicateName(t *testing.T) {
	svc, repo := newTestService(t)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ErrDuplicateName)

	_, err := svc.CreateSuperhero(context.Background(), CreateInput{Name: "Test Hero", Superpower: "Writing amazing tests", HumilityScore: 8})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, appErr.Kind)
	assert.Equal(t, MsgDuplicateName, appErr.Message)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 0.0, testutil.ToFloat64(svc.created.WithLabelValues()))
}

func TestCreateSuperheroRejectsInvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateSuperhero(context.Background(), CreateInput{Name: "Hero", Superpower: "Kind", HumilityScore: 11})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateSuperheroPersistenceFailure(t *testing.T) {
	svc, repo := newTestService(t)

	dbErr := apperr.Wrap(apperr.KindPersistence, MsgDatabaseError, errors.New("connection refused"))
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

	_, err := svc.CreateSuperhero(context.Background(), CreateInput{Name: "Hero", Superpower: "Kind", HumilityScore: 5})
	assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
}

func TestGetSuperheroes(t *testing.T) {
	t.Run("passes filter through", func(t *testing.T) {
		svc, repo := newTestService(t)
		nine := 9

		repo.EXPECT().List(gomock.Any(), &nine).Return([]Superhero{{ID: 2, Name: "B", HumilityScore: 9}}, nil)

		heroes, err := svc.GetSuperheroes(context.Background(), &nine)
		require.NoError(t, err)
		require.Len(t, heroes, 1)
		assert.Equal(t, 9, heroes[0].HumilityScore)
	})

	t.Run("empty result is not found", func(t *testing.T) {
		svc, repo := newTestService(t)

		repo.EXPECT().List(gomock.Any(), nil).Return([]Superhero{}, nil)

		_, err := svc.GetSuperheroes(context.Background(), nil)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		assert.Equal(t, MsgNoMatches, appErr.Message)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		svc, repo := newTestService(t)

		repo.EXPECT().List(gomock.Any(), nil).Return(nil, apperr.New(apperr.KindPersistence, MsgDatabaseError))

		_, err := svc.GetSuperheroes(context.Background(), nil)
		assert.Equal(t, apperr.KindPersistence, apperr.KindOf(err))
	})
}

func TestGetSuperheroByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc, repo := newTestService(t)

		repo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&Superhero{ID: 3, Name: "C"}, true, nil)

		hero, err := svc.GetSuperheroByID(context.Background(), 3)
		require.NoError(t, err)
		assert.EqualValues(t, 3, hero.ID)
	})

	t.Run("absent", func(t *testing.T) {
		svc, repo := newTestService(t)

		repo.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, false, nil)

		_, err := svc.GetSuperheroByID(context.Background(), 404)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		assert.Equal(t, MsgNotFound, appErr.Message)
	})
}

func TestSeederReplacesRoster(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	repo.EXPECT().
		Reset(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, heroes ...Superhero) error {
			scores := make([]int, 0, len(heroes))
			for _, h := range heroes {
				scores = append(scores, h.HumilityScore)
			}
			assert.Equal(t, []int{9, 8, 10, 7}, scores)
			return nil
		})

	require.NoError(t, NewSeeder(repo, NewValidator(), logger.NewNop()).Seed(context.Background()))
}

func TestSeederRejectsInvalidHeroBeforeWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	err := NewSeeder(repo, NewValidator(), logger.NewNop()).Seed(context.Background(), CreateInput{Name: "!", Superpower: "x", HumilityScore: 0})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
