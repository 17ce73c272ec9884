// Package httpapi exposes the superhero service over HTTP.
//
// Requests pass through the global middleware chain (request id, security
// headers, CORS, rate limit, body limit, logging) and then the gorilla/mux
// router. Resource routes under /api/v1/superheroes sit behind the API key
// gate. Every failure is rendered once, by ErrorHandler, as
//
//	{"status":"error","code":"...","message":"...","details":[...]}
package httpapi
