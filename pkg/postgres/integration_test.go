package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/postgres"
)

// note is a throwaway model for exercising the client against a real server.
type note struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Title    string `gorm:"type:text;not null;uniqueIndex:idx_notes_title"`
	Tag      string `gorm:"type:varchar(3)"`
	Priority int    `gorm:"not null;check:chk_notes_priority,priority BETWEEN 1 AND 10"`
}

func (note) TableName() string {
	return "notes"
}

// postgresContainer is a throwaway database for integration tests.
type postgresContainer struct {
	testcontainers.Container
	Config postgres.Config
}

func setupPostgresContainer(ctx context.Context) (*postgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "heroes",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	cfg := postgres.Config{Connection: postgres.Connection{
		Host:     host,
		Port:     mappedPort.Port(),
		User:     "testuser",
		Password: "testpass",
		DbName:   "heroes",
		SSLMode:  "disable",
	}}

	if err := waitForPostgresReady(cfg.DSN(), 30*time.Second); err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("postgres container not ready: %w", err)
	}

	return &postgresContainer{Container: container, Config: cfg}, nil
}

// waitForPostgresReady polls with lib/pq until the server accepts queries.
func waitForPostgresReady(dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out after %s", timeout)
}

func TestClientAgainstPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	}()

	var client postgres.Client
	app := fxtest.New(t,
		fx.NopLogger,
		logger.FXModule,
		postgres.FXModule,
		fx.Supply(
			logger.Config{Level: logger.Error, ServiceName: "postgres-test"},
			container.Config,
		),
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NoError(t, client.Ping(ctx))
	require.NoError(t, client.Migrate(ctx, &note{}))

	t.Run("create and query", func(t *testing.T) {
		for _, n := range []*note{
			{Title: "low", Priority: 2},
			{Title: "high", Priority: 9},
			{Title: "mid", Priority: 5},
		} {
			require.NoError(t, client.Create(ctx, n))
			assert.Positive(t, n.ID)
		}

		var notes []note
		require.NoError(t, client.Query(ctx).Model(&note{}).Where("priority >= ?", 5).Order("priority DESC").Find(&notes))
		require.Len(t, notes, 2)
		assert.Equal(t, "high", notes[0].Title)
		assert.Equal(t, "mid", notes[1].Title)

		var count int64
		require.NoError(t, client.Count(ctx, &note{}, &count))
		assert.EqualValues(t, 3, count)
	})

	t.Run("errors are translated", func(t *testing.T) {
		err := client.Create(ctx, &note{Title: "high", Priority: 3})
		assert.ErrorIs(t, client.TranslateError(err), postgres.ErrDuplicateKey)

		err = client.Create(ctx, &note{Title: "loud", Priority: 11})
		assert.ErrorIs(t, client.TranslateError(err), postgres.ErrCheckViolation)

		err = client.Create(ctx, &note{Title: "long tag", Tag: "abcd", Priority: 3})
		assert.ErrorIs(t, client.TranslateError(err), postgres.ErrInvalidData)

		var missing note
		err = client.First(ctx, &missing, 1_000_000)
		assert.ErrorIs(t, client.TranslateError(err), postgres.ErrRecordNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		err := client.Transaction(ctx, func(tx postgres.Client) error {
			if _, err := tx.Exec(ctx, "DELETE FROM notes"); err != nil {
				return err
			}
			return tx.Create(ctx, &note{Title: "mid", Priority: 0})
		})
		require.Error(t, err)

		var count int64
		require.NoError(t, client.Count(ctx, &note{}, &count))
		assert.EqualValues(t, 3, count, "delete is rolled back")
	})
}
