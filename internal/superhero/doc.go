// Package superhero implements the superhero resource: request validation,
// the GORM-backed persistence gateway and the domain service that the HTTP
// handlers and the seeder call.
//
// The service is the only layer that turns repository outcomes into the
// classified failures of package apperr:
//
//	svc := superhero.NewService(repo, superhero.NewValidator(), log, tr, m)
//	hero, err := svc.CreateSuperhero(ctx, superhero.CreateInput{
//	    Name:          "Test Hero",
//	    Superpower:    "Writing amazing tests",
//	    HumilityScore: 8,
//	})
package superhero
