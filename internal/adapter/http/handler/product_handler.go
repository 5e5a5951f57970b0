package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/adapter/http/middleware"
	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
	cataloguc "github.com/bazaar-team/bazaar-backend/internal/catalog/usecase"
)

const maxUploadMemory = 32 << 20 // 32 MiB

type ProductHandler struct {
	products   *cataloguc.ProductUsecase
	favorites  *cataloguc.FavoriteUsecase
	images     *cataloguc.ImageUsecase
	serializer *ProductSerializer
	logger     *zap.Logger
}

func NewProductHandler(
	products *cataloguc.ProductUsecase,
	favorites *cataloguc.FavoriteUsecase,
	images *cataloguc.ImageUsecase,
	serializer *ProductSerializer,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		products:   products,
		favorites:  favorites,
		images:     images,
		serializer: serializer,
		logger:     logger,
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// HandleList serves GET /product. Authenticated callers passing ?own get
// their products regardless of city; everyone else browses the public
// catalog, filtered by ?city when provided. ?status further filters, with
// the active code as default.
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	viewerID, authenticated := middleware.UserID(r.Context())

	q := domain.ListQuery{Limit: 20}
	params := r.URL.Query()
	if own := params.Get("own"); authenticated && own != "" && own != "false" {
		q.Own = true
		q.OwnerID = viewerID
	} else if city := params.Get("city"); city != "" {
		cityID, err := strconv.ParseInt(city, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid city id")
			return
		}
		q.CityID = cityID
	}
	if status := params.Get("status"); status != "" {
		q.Status = domain.ProductStatus(status)
	}

	products, err := h.products.ListProducts(r.Context(), q)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	rendered, err := h.serializer.RenderMany(r.Context(), products, viewerID, nil)
	if err != nil {
		h.logger.Error("ProductHandler.HandleList: failed to render products", zap.Error(err))
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rendered)
}

type featureRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type createProductRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        *int64           `json:"price"`
	PriceSuffix  string           `json:"price_suffix"`
	IsLowerBound bool             `json:"is_lower_bound"`
	Category     *int64           `json:"category"`
	City         *int64           `json:"city"`
	Features     []featureRequest `json:"features"`
}

// HandleCreate serves POST /product. The authenticated caller becomes the
// author unconditionally.
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	authorID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Price == nil || req.Category == nil {
		respondError(w, http.StatusBadRequest, "name, price and category are required")
		return
	}

	in := cataloguc.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        *req.Price,
		PriceSuffix:  domain.PriceSuffix(req.PriceSuffix),
		IsLowerBound: req.IsLowerBound,
		CategoryID:   *req.Category,
		CityID:       req.City,
	}
	for _, f := range req.Features {
		in.Features = append(in.Features, cataloguc.FeatureInput{Name: f.Name, Value: f.Value})
	}

	product, err := h.products.CreateProduct(r.Context(), authorID, in)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	rendered, err := h.serializer.Render(r.Context(), product, authorID, nil)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rendered)
}

// HandleGet serves GET /product/{id}. Anonymous callers always get the
// product; authenticated callers only get their own. An authenticated
// non-owner is told off with 403.
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	viewerID, authenticated := middleware.UserID(r.Context())
	if authenticated && !product.OwnedBy(viewerID) {
		respondError(w, http.StatusForbidden, "you are not the author of this product")
		return
	}
	rendered, err := h.serializer.Render(r.Context(), product, viewerID, nil)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rendered)
}

type updateProductRequest struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	Price        *int64            `json:"price"`
	PriceSuffix  *string           `json:"price_suffix"`
	IsLowerBound *bool             `json:"is_lower_bound"`
	Status       *string           `json:"status"`
	Category     *int64            `json:"category"`
	CityID       *int64            `json:"city_id"`
	Features     *[]featureRequest `json:"features"`
}

func (req *updateProductRequest) toInput() cataloguc.UpdateProductInput {
	in := cataloguc.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		IsLowerBound: req.IsLowerBound,
		CategoryID:   req.Category,
		CityID:       req.CityID,
	}
	if req.PriceSuffix != nil {
		suffix := domain.PriceSuffix(*req.PriceSuffix)
		in.PriceSuffix = &suffix
	}
	if req.Status != nil {
		status := domain.ProductStatus(*req.Status)
		in.Status = &status
	}
	if req.Features != nil {
		features := make([]cataloguc.FeatureInput, 0, len(*req.Features))
		for _, f := range *req.Features {
			features = append(features, cataloguc.FeatureInput{Name: f.Name, Value: f.Value})
		}
		in.Features = &features
	}
	return in
}

// HandleUpdate serves PUT /product/{id}/. Stored features are replaced
// wholesale: omitting the field clears them.
func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

// HandlePartialUpdate serves PATCH /product/{id}/. Omitted fields, features
// included, are left as they are.
func (h *ProductHandler) HandlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, wholesale bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, okID := pathID(r, "id")
	if !okID {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in := req.toInput()
	if wholesale && in.Features == nil {
		empty := []cataloguc.FeatureInput{}
		in.Features = &empty
	}

	product, err := h.products.UpdateProduct(r.Context(), id, userID, in)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	rendered, err := h.serializer.Render(r.Context(), product, userID, nil)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rendered)
}

// HandleDelete serves DELETE /product/{id}/.
func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, okID := pathID(r, "id")
	if !okID {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.products.DeleteProduct(r.Context(), id, userID); err != nil {
		respondUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch serves GET /search/. Every returned product satisfies all
// supplied filters; the shared min_price/max_price fields carry the
// aggregate over the filtered set.
func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	search := cataloguc.SearchParams{Name: params.Get("name")}

	if raw := params.Get("city"); raw != "" {
		cityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid city id")
			return
		}
		search.CityID = cityID
	}
	if raw := params.Get("category"); raw != "" {
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		search.CategoryID = categoryID
	}
	minRaw, maxRaw := params.Get("minRange"), params.Get("maxRange")
	if minRaw != "" && maxRaw != "" {
		minPrice, errMin := strconv.ParseInt(minRaw, 10, 64)
		maxPrice, errMax := strconv.ParseInt(maxRaw, 10, 64)
		if errMin != nil || errMax != nil {
			respondError(w, http.StatusBadRequest, "invalid price range")
			return
		}
		search.MinPrice = &minPrice
		search.MaxPrice = &maxPrice
	}

	products, priceRange, err := h.products.Search(r.Context(), search)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	viewerID, _ := middleware.UserID(r.Context())
	rendered, err := h.serializer.RenderMany(r.Context(), products, viewerID, priceRange)
	if err != nil {
		h.logger.Error("ProductHandler.HandleSearch: failed to render products", zap.Error(err))
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rendered)
}

// HandleUploadImages serves POST /product/{id}/image (multipart, field
// "images", one or more files).
func (h *ProductHandler) HandleUploadImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	productID, okID := pathID(r, "id")
	if !okID {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		respondError(w, http.StatusBadRequest, "no images supplied")
		return
	}

	files := make([]cataloguc.ImageFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable image file")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, "unreadable image file")
			return
		}
		files = append(files, cataloguc.ImageFile{Name: header.Filename, Data: data})
	}

	if _, err := h.images.UploadImages(r.Context(), userID, productID, files); err != nil {
		respondUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleDeleteImage serves DELETE /products/{product_id}/images/{image_id}/.
func (h *ProductHandler) HandleDeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	productID, okProduct := pathID(r, "product_id")
	imageID, okImage := pathID(r, "image_id")
	if !okProduct || !okImage {
		respondError(w, http.StatusBadRequest, "invalid path parameters")
		return
	}
	if err := h.images.DeleteImage(r.Context(), userID, productID, imageID); err != nil {
		respondUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFavorite serves POST /product/{id}/favorite/ and responds with the
// new membership state: true added, false removed.
func (h *ProductHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	productID, okID := pathID(r, "id")
	if !okID {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	added, err := h.favorites.Toggle(r.Context(), userID, productID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, added)
}
