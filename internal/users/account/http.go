// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mercado/internal/platform/middleware"
	requestutil "github.com/taibuivan/mercado/internal/platform/request"
	"github.com/taibuivan/mercado/internal/platform/respond"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/pkg/pagination"
)

// Handler implements the HTTP layer for accounts.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the router mounted at /api/v1/users. Every endpoint requires
// an identity whose role grants user:read.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequirePermission(sec.PermUserRead))

	router.Get("/me", handler.getMe)
	router.Get("/", handler.listUsers)

	router.With(middleware.RequirePermission(sec.PermUserManage)).
		Patch("/{id}/role", handler.changeRole)

	return router
}

/*
GET /api/v1/users/me.

Response:
  - 200: User
  - 401: UNAUTHORIZED or UNKNOWN_SUBJECT
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Me(request.Context(), requestutil.Identity(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// listUsers handles GET /api/v1/users?page=&limit=.
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
PATCH /api/v1/users/{id}/role.

Response:
  - 200: User
  - 400: VALIDATION_ERROR
  - 403: FORBIDDEN
  - 404: NOT_FOUND
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.ChangeRole(
		request.Context(),
		requestutil.Identity(request),
		requestutil.Param(request, "id"),
		input.Role,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
