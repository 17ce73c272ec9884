package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

const testAPIKey = "test-api-key"

// memoryRepository is an in-memory superhero.Repository with the same
// uniqueness and ordering rules as the database.
type memoryRepository struct {
	mu     sync.Mutex
	heroes []superhero.Superhero
	nextID int64
}

var _ superhero.Repository = (*memoryRepository)(nil)

func (m *memoryRepository) Create(_ context.Context, hero *superhero.Superhero) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.heroes {
		if h.Name == hero.Name {
			return superhero.ErrDuplicateName
		}
	}
	m.nextID++
	hero.ID = m.nextID
	hero.CreatedAt = time.Now().UTC()
	m.heroes = append(m.heroes, *hero)
	return nil
}

func (m *memoryRepository) List(_ context.Context, minHumility *int) ([]superhero.Superhero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]superhero.Superhero, 0, len(m.heroes))
	for _, h := range m.heroes {
		if minHumility == nil || h.HumilityScore >= *minHumility {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].HumilityScore > out[j].HumilityScore })
	return out, nil
}

func (m *memoryRepository) GetByID(_ context.Context, id int64) (*superhero.Superhero, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.heroes {
		if h.ID == id {
			hero := h
			return &hero, true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryRepository) Migrate(context.Context) error { return nil }

func (m *memoryRepository) Reset(ctx context.Context, heroes ...superhero.Superhero) error {
	m.mu.Lock()
	m.heroes = nil
	m.mu.Unlock()

	for i := range heroes {
		if err := m.Create(ctx, &heroes[i]); err != nil {
			return err
		}
	}
	return nil
}

func testConfig() Config {
	return Config{
		APIKey:          testAPIKey,
		CORSOrigin:      "http://localhost:3000",
		RateLimitWindow: 15 * time.Minute,
		RateLimitMax:    1000,
	}
}

// newTestAPI wires the real service over an in-memory repository.
func newTestAPI(t *testing.T, cfg Config) (http.Handler, *memoryRepository) {
	t.Helper()

	repo := &memoryRepository{}
	svc, errs, m, tr := newTestDeps(t, repo, cfg)
	h := NewHandler(svc, superhero.NewValidator(), errs)
	return NewRouter(cfg, h, errs, logger.NewNop(), m, tr), repo
}

// newTestAPIWithService wires a hand-written service, for failure paths the
// real service cannot produce on demand.
func newTestAPIWithService(t *testing.T, cfg Config, svc SuperheroService) http.Handler {
	t.Helper()

	_, errs, m, tr := newTestDeps(t, &memoryRepository{}, cfg)
	h := NewHandler(svc, superhero.NewValidator(), errs)
	return NewRouter(cfg, h, errs, logger.NewNop(), m, tr)
}

func newTestDeps(t *testing.T, repo superhero.Repository, cfg Config) (*superhero.Service, *ErrorHandler, *metrics.Metrics, *tracer.Tracer) {
	t.Helper()

	tr, err := tracer.NewClient(tracer.Config{ServiceName: "superheroes-test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	m := metrics.NewMetrics(metrics.Config{ServiceName: "superheroes-test"})
	errs := NewErrorHandler(logger.NewNop(), cfg.Production)
	svc := superhero.NewService(repo, superhero.NewValidator(), logger.NewNop(), tr, m)
	return svc, errs, m, tr
}

type apiResponse struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"details"`
	Error string `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target string, body any, withKey bool) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set(HeaderAPIKey, testAPIKey)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func decodeHeroes(t *testing.T, raw json.RawMessage) []superhero.Superhero {
	t.Helper()

	var heroes []superhero.Superhero
	require.NoError(t, json.Unmarshal(raw, &heroes))
	return heroes
}

func decodeHero(t *testing.T, raw json.RawMessage) superhero.Superhero {
	t.Helper()

	var hero superhero.Superhero
	require.NoError(t, json.Unmarshal(raw, &hero))
	return hero
}
