// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mercado/internal/platform/middleware"
	requestutil "github.com/taibuivan/mercado/internal/platform/request"
	"github.com/taibuivan/mercado/internal/platform/respond"
	"github.com/taibuivan/mercado/pkg/pagination"
)

// Handler implements the HTTP layer for products.
type Handler struct {
	service *Service
}

// NewHandler constructs a new product [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/products.
//
// # Endpoints
//   - GET    /      : public catalog, filter with ?business_id=
//   - GET    /{id}  : public detail
//   - POST   /      : product:manage and ownership of business_id
//   - PUT    /{id}  : product owner only
//   - DELETE /{id}  : product owner only
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listProducts)
	router.Get("/{id}", handler.getProduct)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/", handler.createProduct)
		protected.Put("/{id}", handler.updateProduct)
		protected.Delete("/{id}", handler.deleteProduct)
	})

	return router
}

type createRequest struct {
	BusinessID  string   `json:"business_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}

func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	filter := Filter{BusinessID: request.URL.Query().Get(FieldBusinessID)}

	products, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, pagination.NewMeta(params, total))
}

func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	product, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
POST /api/v1/products.

Response:
  - 201: Product
  - 400: VALIDATION_ERROR
  - 403: FORBIDDEN (missing permission or not the business owner)
  - 404: NOT_FOUND (business)
*/
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Create(request.Context(), requestutil.Identity(request), CreateInput{
		BusinessID:  input.BusinessID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

// updateProduct handles PUT /api/v1/products/{id}.
func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.Update(request.Context(), requestutil.Identity(request), requestutil.Param(request, "id"), UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// deleteProduct handles DELETE /api/v1/products/{id}.
func (handler *Handler) deleteProduct(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Identity(request), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
