package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/account/entity"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

type CategoryHandler struct {
	categories *cataloguc.CategoryUsecase
	repo       domain.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryHandler(categories *cataloguc.CategoryUsecase, repo domain.CategoryRepository, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, repo: repo, logger: logger}
}

// HandleTree serves GET /category/tree. With ?category=<id> it returns the
// queried category and all of its descendants, each rendered nested; without
// it, the root categories.
func (h *CategoryHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	var rootID *int64
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		rootID = &id
	}

	nodes, err := h.categories.Tree(r.Context(), rootID)
	if err != nil {
		if errors.Is(err, cataloguc.ErrCategoryNotFound) {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("CategoryHandler.HandleTree: failed to build tree", zap.Error(err))
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nodes)
}

type categoryJSON struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// HandleList serves GET /category: the flat list of root categories.
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roots, err := h.categories.Roots(r.Context())
	if err != nil {
		h.logger.Error("CategoryHandler.HandleList: failed to list categories", zap.Error(err))
		respondUsecaseError(w, err)
		return
	}
	out := make([]categoryJSON, 0, len(roots))
	for _, c := range roots {
		image := "default_image.png"
		images, err := h.repo.ImagesByCategory(r.Context(), c.ID)
		if err == nil && len(images) > 0 {
			image = images[0].Image
		}
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, Image: image})
	}
	respondJSON(w, http.StatusOK, out)
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// HandleCreate serves POST /category. Admin-only.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	role, _ := middleware.UserRole(r.Context())
	if role != entity.RoleAdmin {
		respondError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), req.Name, req.ParentID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, categoryJSON{ID: category.ID, Name: category.Name, Image: "default_image.png"})
}

type CityHandler struct {
	cities domain.CityRepository
	logger *zap.Logger
}

func NewCityHandler(cities domain.CityRepository, logger *zap.Logger) *CityHandler {
	return &CityHandler{cities: cities, logger: logger}
}

type cityJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// HandleList serves GET /city.
func (h *CityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cities, err := h.cities.FindAll(r.Context())
	if err != nil {
		h.logger.Error("CityHandler.HandleList: failed to list cities", zap.Error(err))
		respondUsecaseError(w, err)
		return
	}
	out := make([]cityJSON, 0, len(cities))
	for _, c := range cities {
		out = append(out, cityJSON{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, out)
}
