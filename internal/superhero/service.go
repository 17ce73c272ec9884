package superhero

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// Service applies the business rules of the superhero resource on top of a
// Repository. Every error it returns carries an apperr.Kind.
type Service struct {
	repo      Repository
	validator *Validator
	logger    logger.Logger
	tracer    *tracer.Tracer
	created   *prometheus.CounterVec
}

// NewService wires a Service. It registers the superheroes_created_total
// counter on m, so a collector must back at most one Service.
func NewService(repo Repository, v *Validator, log logger.Logger, tr *tracer.Tracer, m metrics.MetricsCollector) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		logger:    log,
		tracer:    tr,
		created:   m.CreateCounter("superheroes_created_total", "Number of superheroes created through the API", nil),
	}
}

// CreateSuperhero stores a new hero. A taken name is a KindConflict failure.
func (s *Service) CreateSuperhero(ctx context.Context, in CreateInput) (*Superhero, error) {
	ctx, span := s.tracer.StartSpan(ctx, "superhero.create")
	defer span.End()

	if err := s.validator.Check(in); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	hero := in.toModel()
	if err := s.repo.Create(ctx, hero); err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		if errors.Is(err, ErrDuplicateName) {
			return nil, apperr.Wrap(apperr.KindConflict, MsgDuplicateName, err)
		}
		return nil, err
	}

	s.created.WithLabelValues().Inc()
	s.tracer.SetAttributes(span, map[string]interface{}{"superhero.id": hero.ID})
	s.logger.DebugWithContext(ctx, "superhero created", nil, map[string]interface{}{
		"id":            hero.ID,
		"humilityScore": hero.HumilityScore,
	})
	return hero, nil
}

// GetSuperheroes lists heroes by descending humility score. An empty result
// is reported as a KindNotFound failure rather than an empty list.
func (s *Service) GetSuperheroes(ctx context.Context, minHumility *int) ([]Superhero, error) {
	ctx, span := s.tracer.StartSpan(ctx, "superhero.list")
	defer span.End()

	if minHumility != nil {
		s.tracer.SetAttributes(span, map[string]interface{}{"superhero.min_humility": *minHumility})
	}

	heroes, err := s.repo.List(ctx, minHumility)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	if len(heroes) == 0 {
		return nil, apperr.New(apperr.KindNotFound, MsgNoMatches)
	}

	s.logger.DebugWithContext(ctx, "superheroes listed", nil, map[string]interface{}{"count": len(heroes)})
	return heroes, nil
}

// GetSuperheroByID returns one hero or a KindNotFound failure.
func (s *Service) GetSuperheroByID(ctx context.Context, id int64) (*Superhero, error) {
	ctx, span := s.tracer.StartSpan(ctx, "superhero.get")
	defer span.End()
	s.tracer.SetAttributes(span, map[string]interface{}{"superhero.id": id})

	hero, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	if !found {
		return nil, apperr.New(apperr.KindNotFound, MsgNotFound)
	}
	return hero, nil
}
