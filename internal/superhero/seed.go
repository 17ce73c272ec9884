package superhero

import (
	"context"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

// DefaultHeroes is the roster written by Seeder.
var DefaultHeroes = []CreateInput{
	{Name: "The Silent Guardian", Superpower: "Invisibly helps others without seeking recognition", HumilityScore: 9},
	{Name: "Captain Kindness", Superpower: "Empathy amplification and mood lifting", HumilityScore: 8},
	{Name: "The Quiet Helper", Superpower: "Can be in multiple places helping others simultaneously", HumilityScore: 10},
	{Name: "Doctor Support", Superpower: "Healing through encouragement and positivity", HumilityScore: 7},
}

// Seeder replaces the table contents with a fixed roster.
type Seeder struct {
	repo      Repository
	validator *Validator
	logger    logger.Logger
}

func NewSeeder(repo Repository, v *Validator, log logger.Logger) *Seeder {
	return &Seeder{repo: repo, validator: v, logger: log}
}

// Seed deletes every hero and inserts heroes, or DefaultHeroes when none are given.
// Nothing is written if any hero fails validation.
func (s *Seeder) Seed(ctx context.Context, heroes ...CreateInput) error {
	if len(heroes) == 0 {
		heroes = DefaultHeroes
	}

	models := make([]Superhero, 0, len(heroes))
	for _, in := range heroes {
		if err := s.validator.Check(in); err != nil {
			return err
		}
		models = append(models, *in.toModel())
	}

	s.logger.InfoWithContext(ctx, "seeding superheroes", nil, map[string]interface{}{"count": len(models)})
	if err := s.repo.Reset(ctx, models...); err != nil {
		return err
	}
	for _, hero := range models {
		s.logger.DebugWithContext(ctx, "seeded superhero", nil, map[string]interface{}{"name": hero.Name})
	}
	return nil
}
