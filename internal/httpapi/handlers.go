package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Aleph-Alpha/superheroes/internal/superhero"
)

// SuperheroService is the domain service the handlers call.
// *superhero.Service implements it.
type SuperheroService interface {
	CreateSuperhero(ctx context.Context, in superhero.CreateInput) (*superhero.Superhero, error)
	GetSuperheroes(ctx context.Context, minHumility *int) ([]superhero.Superhero, error)
	GetSuperheroByID(ctx context.Context, id int64) (*superhero.Superhero, error)
}

var _ SuperheroService = (*superhero.Service)(nil)

// Handler serves the superhero resource routes.
type Handler struct {
	service   SuperheroService
	validator *superhero.Validator
	errors    *ErrorHandler
}

func NewHandler(service SuperheroService, v *superhero.Validator, errs *ErrorHandler) *Handler {
	return &Handler{service: service, validator: v, errors: errs}
}

// CreateSuperhero handles POST /api/v1/superheroes.
func (h *Handler) CreateSuperhero(w http.ResponseWriter, r *http.Request) {
	raw, err := superhero.DecodeCreate(r.Body)
	if err != nil {
		h.errors.Write(w, r, requestBodyError(err))
		return
	}

	in, err := h.validator.ValidateCreate(raw)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	hero, err := h.service.CreateSuperhero(r.Context(), in)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, superhero.MsgCreated, hero)
}

// ListSuperheroes handles GET /api/v1/superheroes.
func (h *Handler) ListSuperheroes(w http.ResponseWriter, r *http.Request) {
	minHumility, err := h.validator.ValidateListQuery(r.URL.Query())
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	heroes, err := h.service.GetSuperheroes(r.Context(), minHumility)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", heroes)
}

// GetSuperhero handles GET /api/v1/superheroes/{id}.
func (h *Handler) GetSuperhero(w http.ResponseWriter, r *http.Request) {
	id, err := h.validator.ValidateID(mux.Vars(r)["id"])
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	hero, err := h.service.GetSuperheroByID(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", hero)
}

// Health handles GET /health. It does not touch the database.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}
