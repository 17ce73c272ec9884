// Package web serves the server-rendered superheroes frontend.
//
// The frontend has no database access of its own. It lists and creates heroes
// through the REST API using internal/client, and checks form input with the
// same superhero.Validator the API applies, so most mistakes are reported
// without a round trip.
//
// Routes:
//
//	GET  /             list page, optional ?minHumility=1..10
//	POST /superheroes  create form; 303 to / on success
//	GET  /health       reports whether the API is reachable
package web
