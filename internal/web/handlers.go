package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/internal/client"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
	"github.com/Aleph-Alpha/superheroes/pkg/logger"
)

const (
	msgCreateFailed = "Failed to create superhero"
	msgLoadFailed   = "The superheroes service is unavailable"
	msgBodyTooLarge = "Request body is too large"
	msgInvalidForm  = "Invalid form submission"
)

// HeroAPI is the part of the REST API the frontend uses.
// *client.Client implements it.
type HeroAPI interface {
	ListSuperheroes(ctx context.Context, minHumility *int) ([]superhero.Superhero, error)
	CreateSuperhero(ctx context.Context, in superhero.CreateInput) (*superhero.Superhero, error)
	Health(ctx context.Context) error
}

var _ HeroAPI = (*client.Client)(nil)

// Handler serves the frontend pages.
type Handler struct {
	api       HeroAPI
	validator *superhero.Validator
	logger    logger.Logger
	pages     *template.Template
}

func NewHandler(api HeroAPI, v *superhero.Validator, log logger.Logger) (*Handler, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{api: api, validator: v, logger: log, pages: pages}, nil
}

// Index handles GET /. An invalid filter is reported and the unfiltered
// list is shown instead.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := newPageData()
	status := http.StatusOK

	minHumility, err := h.validator.ValidateListQuery(r.URL.Query())
	if err != nil {
		status = http.StatusBadRequest
		h.setError(data, err)
	} else if minHumility != nil {
		data.MinHumility = strconv.Itoa(*minHumility)
	}

	if !h.loadHeroes(r.Context(), data, minHumility) && status == http.StatusOK {
		status = http.StatusBadGateway
	}
	h.render(w, r, status, data)
}

// Create handles the create form. Input is checked locally first; anything
// the API still rejects is shown with the status the API answered.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	data := newPageData()

	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data.Error = msgBodyTooLarge
			h.renderWithList(w, r, http.StatusRequestEntityTooLarge, data)
			return
		}
		data.Error = msgInvalidForm
		h.renderWithList(w, r, http.StatusBadRequest, data)
		return
	}

	raw := h.readForm(r, data)

	in, err := h.validator.ValidateCreate(raw)
	if err != nil {
		h.setError(data, err)
		h.renderWithList(w, r, http.StatusBadRequest, data)
		return
	}

	hero, err := h.api.CreateSuperhero(r.Context(), in)
	if err != nil {
		status := h.setError(data, err)
		h.renderWithList(w, r, status, data)
		return
	}

	h.logger.InfoWithContext(r.Context(), "superhero created from form", nil, map[string]interface{}{
		"id":   hero.ID,
		"name": hero.Name,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Health handles GET /health. The frontend is healthy when the API answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, "healthy"
	if err := h.api.Health(r.Context()); err != nil {
		h.logger.WarnWithContext(r.Context(), "superheroes api health check failed", err, nil)
		status, body = http.StatusServiceUnavailable, "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": body})
}

// readForm fills data.Form with what was submitted and returns it in the
// shape the validator narrows. An unparseable score keeps the default on
// the re-rendered form.
func (h *Handler) readForm(r *http.Request, data *pageData) superhero.RawCreate {
	data.Form.Name = r.PostForm.Get("name")
	data.Form.Superpower = r.PostForm.Get("superpower")

	raw := superhero.RawCreate{Name: data.Form.Name, Superpower: data.Form.Superpower}

	if score := strings.TrimSpace(r.PostForm.Get("humilityScore")); score != "" {
		raw.HumilityScore = json.Number(score)
		if n, err := strconv.Atoi(score); err == nil && n >= 1 && n <= 10 {
			data.Form.HumilityScore = n
		}
	}
	return raw
}

// loadHeroes fills data.Heroes. An empty result from the API is not an error
// here. It reports false when the list could not be loaded.
func (h *Handler) loadHeroes(ctx context.Context, data *pageData, minHumility *int) bool {
	heroes, err := h.api.ListSuperheroes(ctx, minHumility)
	switch {
	case err == nil:
		data.Heroes = heroes
	case client.IsNotFound(err):
		data.Heroes = nil
	default:
		h.logger.ErrorWithContext(ctx, "failed to fetch superheroes", err, nil)
		data.LoadError = loadErrorMessage(err)
		return false
	}
	return true
}

func (h *Handler) renderWithList(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	h.loadHeroes(r.Context(), data, nil)
	h.render(w, r, status, data)
}

// setError copies err into the alert on data and returns the status the page
// should be served with.
func (h *Handler) setError(data *pageData, err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		data.Error = apiErr.Message
		data.Issues = apiErr.Details
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}

	if appErr, ok := apperr.As(err); ok && appErr.Kind == apperr.KindValidation {
		data.Error = appErr.Message
		data.Issues = appErr.Issues
		return http.StatusBadRequest
	}

	h.logger.Error("superheroes api call failed", err, nil)
	data.Error = msgCreateFailed
	return http.StatusBadGateway
}

func loadErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return msgLoadFailed
}
