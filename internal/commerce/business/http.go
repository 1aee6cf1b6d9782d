// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package business

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mercado/internal/platform/middleware"
	requestutil "github.com/taibuivan/mercado/internal/platform/request"
	"github.com/taibuivan/mercado/internal/platform/respond"
	"github.com/taibuivan/mercado/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for businesses.
type Handler struct {
	service *Service
}

// NewHandler constructs a new business [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/businesses.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Catalog
	router.Get("/", handler.listBusinesses)
	router.Get("/{id}", handler.getBusiness)

	// ## Owner Actions
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createBusiness)
		protected.Put("/{id}", handler.updateBusiness)
		protected.Delete("/{id}", handler.deleteBusiness)
	})

	return router
}

// businessRequest is shared by create and update; update treats absent
// fields as unchanged.
type businessRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

/*
GET /api/v1/businesses.

Request:
  - owner_id: string (optional)
  - page, limit: int

Response:
  - 200: []Business
*/
func (handler *Handler) listBusinesses(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{OwnerID: request.URL.Query().Get(FieldOwnerID)}

	businesses, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, businesses, pagination.NewMeta(params, total))
}

// getBusiness handles GET /api/v1/businesses/{id}.
func (handler *Handler) getBusiness(writer http.ResponseWriter, request *http.Request) {
	business, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, business)
}

/*
POST /api/v1/businesses.

Response:
  - 201: Business
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED
*/
func (handler *Handler) createBusiness(writer http.ResponseWriter, request *http.Request) {
	var input businessRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var name string
	if input.Name != nil {
		name = *input.Name
	}

	business, err := handler.service.Create(request.Context(), requestutil.Identity(request), CreateInput{
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, business)
}

/*
PUT /api/v1/businesses/{id}.

Response:
  - 200: Business
  - 403: FORBIDDEN (missing business:manage or not the owner)
  - 404: NOT_FOUND
*/
func (handler *Handler) updateBusiness(writer http.ResponseWriter, request *http.Request) {
	var input businessRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	business, err := handler.service.Update(request.Context(), requestutil.Identity(request), requestutil.Param(request, "id"), UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, business)
}

// deleteBusiness handles DELETE /api/v1/businesses/{id}.
func (handler *Handler) deleteBusiness(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
