package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	rolepkg "github.com/tendant/simple-rbac/pkg/role"
)

// Handle handles HTTP requests for role management.
type Handle struct {
	roleService *rolepkg.RoleService
}

// NewHandle creates a new role handler.
func NewHandle(roleService *rolepkg.RoleService) *Handle {
	return &Handle{
		roleService: roleService,
	}
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RegisterRoutes registers the role routes.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.ListRoles)
		r.Post("/", h.CreateRole)
		r.Get("/schema", h.GetSchema)
		r.Get("/schema/", h.GetSchema)
		r.Get("/{id}", h.GetRole)
		r.Patch("/{id}", h.PatchRole)
		r.Put("/{id}", h.PutRole)
		r.Delete("/{id}", h.DeleteRole)
	})
}

// ListRoles handles the request to list roles with the pagination envelope.
func (h *Handle) ListRoles(w http.ResponseWriter, r *http.Request) {
	params := rolepkg.ListParams{
		Search:   r.URL.Query().Get("q"),
		Type:     r.URL.Query().Get("type"),
		Populate: r.URL.Query().Get("populate") == "true",
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = int32(limit)
		}
	}
	if skipStr := r.URL.Query().Get("skip"); skipStr != "" {
		if skip, err := strconv.Atoi(skipStr); err == nil {
			params.Skip = int32(skip)
		}
	}

	// sort accepts "name" or "-name" for descending order
	if sortStr := r.URL.Query().Get("sort"); sortStr != "" {
		if strings.HasPrefix(sortStr, "-") {
			params.SortBy = strings.TrimPrefix(sortStr, "-")
			params.SortDir = "desc"
		} else {
			params.SortBy = sortStr
		}
	}

	page, err := h.roleService.FindRoles(r.Context(), params)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, page)
}

// GetSchema handles the request for the Role structural schema.
func (h *Handle) GetSchema(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.roleService.Schema())
}

// CreateRole handles the request to create a role.
func (h *Handle) CreateRole(w http.ResponseWriter, r *http.Request) {
	var candidate rolepkg.Role
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: fmt.Sprintf("failed to decode request body: %v", err)})
		return
	}

	created, err := h.roleService.CreateRole(r.Context(), candidate)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// GetRole handles the request to get a role by id.
func (h *Handle) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id, r.URL.Query().Get("populate") == "true")
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, role)
}

// PatchRole handles the request to partially update a role.
func (h *Handle) PatchRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var candidate rolepkg.Role
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: fmt.Sprintf("failed to decode request body: %v", err)})
		return
	}

	patched, err := h.roleService.PatchRole(r.Context(), id, candidate)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, patched)
}

// PutRole handles the request to replace a role.
func (h *Handle) PutRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var candidate rolepkg.Role
	if err := json.NewDecoder(r.Body).Decode(&candidate); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: fmt.Sprintf("failed to decode request body: %v", err)})
		return
	}

	replaced, err := h.roleService.PutRole(r.Context(), id, candidate)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, replaced)
}

// DeleteRole handles the request to delete a role. The deleted
// representation is returned; deleting it again yields 404.
func (h *Handle) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.roleService.DeleteRole(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, deleted)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: fmt.Sprintf("invalid role id: %v", err)})
		return uuid.Nil, false
	}
	return id, true
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr rolepkg.ValidationError
	var notFoundErr rolepkg.NotFoundError
	var conflictErr rolepkg.ConflictError

	switch {
	case errors.As(err, &validationErr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Message: "Validation Error", Errors: validationErr.Fields})
	case errors.As(err, &notFoundErr):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Message: "Not Found"})
	case errors.As(err, &conflictErr):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorResponse{Message: conflictErr.Error()})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Message: fmt.Sprintf("failed to process request: %v", err)})
	}
}
