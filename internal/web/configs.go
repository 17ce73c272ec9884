package web

// Config holds the frontend server settings.
type Config struct {
	// Address is the listen address, e.g. ":3000".
	Address string

	// BackendURL is the base URL of the REST API.
	BackendURL string

	// APIKey is sent to the API in the x-api-key header.
	APIKey string
}
