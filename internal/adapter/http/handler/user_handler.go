package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/account/auth"
	accountuc "github.com/bazaar-team/bazaar-backend/internal/account/usecase"
	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

// RefreshTokenStore records the refresh token currently honored per user.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID int64, token string, ttl time.Duration) error
	Get(ctx context.Context, userID int64) (string, error)
}

type UserHandler struct {
	users      *accountuc.UserUsecase
	favorites  *cataloguc.FavoriteUsecase
	serializer *ProductSerializer
	jwt        *auth.JWTManager
	tokens     RefreshTokenStore
	logger     *zap.Logger
}

func NewUserHandler(
	users *accountuc.UserUsecase,
	favorites *cataloguc.FavoriteUsecase,
	serializer *ProductSerializer,
	jwt *auth.JWTManager,
	tokens RefreshTokenStore,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		users:      users,
		favorites:  favorites,
		serializer: serializer,
		jwt:        jwt,
		tokens:     tokens,
		logger:     logger,
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type profileJSON struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// HandleRegister serves POST /api/auth/register/.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Phone == "" {
		respondError(w, http.StatusBadRequest, "username, password and phone are required")
		return
	}

	user, err := h.users.Register(r.Context(), accountuc.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, profileJSON{
		ID: user.ID, Username: user.Username, Email: user.Email,
		FirstName: user.FirstName, LastName: user.LastName, Phone: user.Phone,
	})
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// HandleToken serves POST /api/token/: the bearer token pair for a
// username/password.
func (h *UserHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	access, err := h.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("UserHandler.HandleToken: failed to sign access token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	refresh, err := h.jwt.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error("UserHandler.HandleToken: failed to sign refresh token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if h.tokens != nil {
		if err := h.tokens.Store(r.Context(), user.ID, refresh, h.jwt.RefreshLifetime()); err != nil {
			h.logger.Warn("UserHandler.HandleToken: failed to record refresh token", zap.Error(err))
		}
	}
	respondJSON(w, http.StatusOK, tokenResponse{Access: access, Refresh: refresh})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// HandleTokenRefresh serves POST /api/token/refresh/: exchanges a recorded
// refresh token for a fresh access token.
func (h *UserHandler) HandleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		respondError(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	claims, err := h.jwt.ValidateRefreshToken(req.Refresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "refresh token is invalid or expired")
		return
	}
	if h.tokens != nil {
		recorded, err := h.tokens.Get(r.Context(), claims.UserID)
		if err != nil {
			h.logger.Warn("UserHandler.HandleTokenRefresh: token store unavailable", zap.Error(err))
		} else if recorded != req.Refresh {
			respondError(w, http.StatusUnauthorized, "refresh token has been retired")
			return
		}
	}

	access, err := h.jwt.GenerateAccessToken(claims.UserID, claims.Role)
	if err != nil {
		h.logger.Error("UserHandler.HandleTokenRefresh: failed to sign access token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}

type currentUserJSON struct {
	profileJSON
	Favorites []*ProductJSON `json:"favorites"`
}

// HandleMe serves GET /api/user/: the caller's profile with their favorited
// products embedded.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	products, err := h.favorites.FavoriteProducts(r.Context(), userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	rendered, err := h.serializer.RenderMany(r.Context(), products, userID, nil)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, currentUserJSON{
		profileJSON: profileJSON{
			ID: user.ID, Username: user.Username, Email: user.Email,
			FirstName: user.FirstName, LastName: user.LastName, Phone: user.Phone,
		},
		Favorites: rendered,
	})
}

type updateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
}

// HandleUpdate serves PUT /api/user/{id}/. Callers may only update their own
// profile.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if targetID != userID {
		respondError(w, http.StatusForbidden, "cannot update another user's profile")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), userID, accountuc.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profileJSON{
		ID: user.ID, Username: user.Username, Email: user.Email,
		FirstName: user.FirstName, LastName: user.LastName, Phone: user.Phone,
	})
}
