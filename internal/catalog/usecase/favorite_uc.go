package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

type FavoriteUsecase struct {
	repo     domain.FavoriteRepository
	products domain.ProductRepository
	logger   *zap.Logger
}

func NewFavoriteUsecase(repo domain.FavoriteRepository, products domain.ProductRepository, logger *zap.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{repo: repo, products: products, logger: logger}
}

// Toggle flips the (user, product) favorite membership and reports the new
// state: true when the pair was added, false when it was removed. Removal is
// attempted first, so two sequential toggles always return to the original
// state.
func (uc *FavoriteUsecase) Toggle(ctx context.Context, userID, productID int64) (bool, error) {
	uc.logger.Info("FavoriteUsecase.Toggle: toggling favorite",
		zap.Int64("user_id", userID), zap.Int64("product_id", productID))

	if _, err := uc.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return false, ErrProductNotFound
		}
		return false, err
	}

	removed, err := uc.repo.Remove(ctx, userID, productID)
	if err != nil {
		uc.logger.Error("FavoriteUsecase.Toggle: failed to remove favorite",
			zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return false, err
	}
	if removed {
		return false, nil
	}
	if err := uc.repo.Add(ctx, userID, productID); err != nil {
		uc.logger.Error("FavoriteUsecase.Toggle: failed to add favorite",
			zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Error(err))
		return false, err
	}
	return true, nil
}

// IsFavorite reports whether userID has favorited productID.
func (uc *FavoriteUsecase) IsFavorite(ctx context.Context, userID, productID int64) (bool, error) {
	return uc.repo.Exists(ctx, userID, productID)
}

// FavoriteProducts resolves the products a user has favorited.
func (uc *FavoriteUsecase) FavoriteProducts(ctx context.Context, userID int64) ([]*domain.Product, error) {
	ids, err := uc.repo.ProductIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		product, err := uc.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue
			}
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}
