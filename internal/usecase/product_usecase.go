package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
)

// ProductUseCase реализует CRUD каталога товаров с кэшем чтения.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	imageInfra  ImageInfra
	logger      logger.Logger
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imageInfra ImageInfra,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		imageInfra:  imageInfra,
		logger:      logger,
	}
}

// Create добавляет товар в каталог.
func (p *ProductUseCase) Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Create(ctx, domain.NewProduct(req.Name, req.Description, req.PriceCents, req.ImageURL))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// Get возвращает товар по идентификатору, сперва заглядывая в кэш.
// Промах кэша дочитывается из БД и фоново кэшируется.
func (p *ProductUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("product cache lookup failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое добавление товара в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := p.cacheRepo.SetProduct(bgCtx, product); err != nil {
			p.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// Update полностью заменяет изменяемые поля товара и инвалидирует кэш.
func (p *ProductUseCase) Update(ctx context.Context, id uuid.UUID, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	if err := p.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Update(ctx, id, domain.NewProduct(req.Name, req.Description, req.PriceCents, req.ImageURL))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, id, op)

	return product, nil
}

// Delete удаляет товар. Товар, на который ссылаются позиции заказов,
// не удаляется — возвращается e.ErrProductReferenced.
func (p *ProductUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "ProductUseCase.Delete"

	if err := p.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, id, op)

	return nil
}

// List возвращает страницу каталога.
func (p *ProductUseCase) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	products, err := p.productRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// AttachImage загружает изображение товара в MinIO и сохраняет ключ объекта
// в image_url. Если запись в БД не удалась, загруженный объект компенсационно
// удаляется в фоне.
func (p *ProductUseCase) AttachImage(ctx context.Context, req *AttachImageReq) (*domain.Product, error) {
	const op = "ProductUseCase.AttachImage"

	// Товар должен существовать до загрузки в хранилище
	if _, err := p.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, e.Wrap(op, err)
	}

	key, err := p.imageInfra.UploadProductImage(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.UpdateImageURL(ctx, req.ProductID, key)
	if err != nil {
		p.logger.Warnf(
			"Cleaning up orphaned image after db failure. product_id: %s, error: %v",
			req.ProductID,
			e.Wrap(op, err),
		)
		p.imageInfra.CleanupImage(key)
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, req.ProductID, op)

	return product, nil
}

// invalidate удаляет товар из кэша, ошибки только логируются.
func (p *ProductUseCase) invalidate(ctx context.Context, id uuid.UUID, op string) {
	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to invalidate product cache: %v", e.Wrap(op, err))
	}
}

// validateProduct проверяет корректность входных данных товара.
func (p *ProductUseCase) validateProduct(req *CreateProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.PriceCents < 0 {
		return e.ErrInvalidPrice
	}

	return nil
}
