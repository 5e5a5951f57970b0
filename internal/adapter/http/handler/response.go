package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	accountuc "github.com/bazaar-team/bazaar-backend/internal/account/usecase"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondUsecaseError maps the domain sentinels every handler shares onto
// HTTP statuses; anything unrecognized is a 500.
func respondUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cataloguc.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cataloguc.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, "category not found")
	case errors.Is(err, cataloguc.ErrImageNotFound):
		respondError(w, http.StatusNotFound, "image not found")
	case errors.Is(err, cataloguc.ErrForbidden):
		respondError(w, http.StatusForbidden, "you are not the author of this product")
	case errors.Is(err, cataloguc.ErrCityNotFound),
		errors.Is(err, cataloguc.ErrInvalidStatus),
		errors.Is(err, cataloguc.ErrInvalidSuffix),
		errors.Is(err, cataloguc.ErrCategoryCycle):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, accountuc.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, accountuc.ErrDuplicateUsername),
		errors.Is(err, accountuc.ErrDuplicatePhone):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, accountuc.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
