package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/bazaar-team/bazaar-backend/internal/catalog/domain"
)

var ErrImageNotFound = errors.New("product image not found")

// PlaceholderImage is recorded when an upload produced no usable object.
const PlaceholderImage = "default_image.png"

type Storage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type ImageUsecase struct {
	storage  Storage
	images   domain.ImageRepository
	products domain.ProductRepository
	logger   *zap.Logger
}

func NewImageUsecase(storage Storage, images domain.ImageRepository, products domain.ProductRepository, logger *zap.Logger) *ImageUsecase {
	return &ImageUsecase{storage: storage, images: images, products: products, logger: logger}
}

type ImageFile struct {
	Name string
	Data []byte
}

// UploadImages stores each file and records one image row per file on the
// product. Only the product's author may upload. A failed object upload still
// records a row carrying the placeholder image.
func (uc *ImageUsecase) UploadImages(ctx context.Context, userID, productID int64, files []ImageFile) ([]domain.ProductImage, error) {
	uc.logger.Info("ImageUsecase.UploadImages: uploading images",
		zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Int("count", len(files)))

	product, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.OwnedBy(userID) {
		return nil, ErrForbidden
	}

	stored := make([]domain.ProductImage, 0, len(files))
	for _, file := range files {
		url, err := uc.storage.Upload(ctx, file.Name, file.Data)
		if err != nil {
			uc.logger.Warn("ImageUsecase.UploadImages: storage upload failed, recording placeholder",
				zap.Int64("product_id", productID), zap.String("file", file.Name), zap.Error(err))
			url = PlaceholderImage
		}
		image := domain.ProductImage{ProductID: productID, Image: url}
		if err := uc.images.Create(ctx, &image); err != nil {
			uc.logger.Error("ImageUsecase.UploadImages: failed to record image",
				zap.Int64("product_id", productID), zap.Error(err))
			return nil, err
		}
		stored = append(stored, image)
	}
	return stored, nil
}

// DeleteImage removes an image resolved by the (image, product) compound key.
// Only the product's author may delete.
func (uc *ImageUsecase) DeleteImage(ctx context.Context, userID, productID, imageID int64) error {
	uc.logger.Info("ImageUsecase.DeleteImage: deleting image",
		zap.Int64("user_id", userID), zap.Int64("product_id", productID), zap.Int64("image_id", imageID))

	image, err := uc.images.FindByIDAndProduct(ctx, imageID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	product, err := uc.products.FindByID(ctx, image.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return ErrImageNotFound
		}
		return err
	}
	if !product.OwnedBy(userID) {
		return ErrForbidden
	}
	return uc.images.Delete(ctx, imageID)
}

// ImagesByProduct lists the recorded images of a product.
func (uc *ImageUsecase) ImagesByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	return uc.images.ByProduct(ctx, productID)
}
