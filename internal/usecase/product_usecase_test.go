package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &stubProductRepo{
			createFn: func(ctx context.Context, product *domain.Product) (*domain.Product, error) {
				product.ID = uuid.New()
				return product, nil
			},
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, &stubImageInfra{}, nopLogger{})

		product, err := uc.Create(ctx, NewCreateProductReq("Widget", nil, 59999, nil))
		require.NoError(t, err)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, int64(59999), product.PriceCents)
	})

	t.Run("validation", func(t *testing.T) {
		uc := NewProductUC(&stubProductRepo{}, &stubCacheRepo{}, &stubImageInfra{}, nopLogger{})

		_, err := uc.Create(ctx, NewCreateProductReq("  ", nil, 100, nil))
		assert.True(t, errors.Is(err, e.ErrProductNameRequired))

		_, err = uc.Create(ctx, NewCreateProductReq("Widget", nil, -1, nil))
		assert.True(t, errors.Is(err, e.ErrInvalidPrice))
	})
}

func TestProductUseCase_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	product := &domain.Product{ID: id, Name: "Widget", PriceCents: 100}

	t.Run("cache hit skips db", func(t *testing.T) {
		cache := &stubCacheRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return product, nil },
		}
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				t.Fatal("db must not be hit on cache hit")
				return nil, nil
			},
		}

		uc := NewProductUC(repo, cache, &stubImageInfra{}, nopLogger{})

		got, err := uc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("cache miss falls back to db and warms cache", func(t *testing.T) {
		cached := make(chan *domain.Product, 1)
		cache := &stubCacheRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return nil, nil },
			setFn: func(ctx context.Context, product *domain.Product) error {
				cached <- product
				return nil
			},
		}
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return product, nil },
		}

		uc := NewProductUC(repo, cache, &stubImageInfra{}, nopLogger{})

		got, err := uc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)

		select {
		case warmed := <-cached:
			assert.Equal(t, id, warmed.ID)
		case <-time.After(time.Second):
			t.Fatal("background cache set did not happen")
		}
	})

	t.Run("cache error does not fail the read", func(t *testing.T) {
		cache := &stubCacheRepo{
			getFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return nil, errors.New("redis down")
			},
		}
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return product, nil },
		}

		uc := NewProductUC(repo, cache, &stubImageInfra{}, nopLogger{})

		got, err := uc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return nil, e.ErrProductNotFound
			},
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, &stubImageInfra{}, nopLogger{})

		_, err := uc.Get(ctx, id)
		assert.True(t, errors.Is(err, e.ErrProductNotFound))
	})
}

func TestProductUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("invalidates cache", func(t *testing.T) {
		invalidated := false
		cache := &stubCacheRepo{
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				invalidated = true
				return nil
			},
		}
		repo := &stubProductRepo{
			deleteFn: func(ctx context.Context, id uuid.UUID) error { return nil },
		}

		uc := NewProductUC(repo, cache, &stubImageInfra{}, nopLogger{})

		require.NoError(t, uc.Delete(ctx, id))
		assert.True(t, invalidated)
	})

	t.Run("referenced product is kept", func(t *testing.T) {
		repo := &stubProductRepo{
			deleteFn: func(ctx context.Context, id uuid.UUID) error { return e.ErrProductReferenced },
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, &stubImageInfra{}, nopLogger{})

		err := uc.Delete(ctx, id)
		assert.True(t, errors.Is(err, e.ErrProductReferenced))
	})
}

func TestProductUseCase_AttachImage(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	product := &domain.Product{ID: id, Name: "Widget", PriceCents: 100}

	req := NewAttachImageReq(id, []byte("img-bytes"), "image/png", 9, "widget.png")

	t.Run("success", func(t *testing.T) {
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return product, nil },
			updateImageURLFn: func(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error) {
				updated := *product
				updated.ImageURL = &imageURL
				return &updated, nil
			},
		}
		infra := &stubImageInfra{
			uploadFn: func(ctx context.Context, req *AttachImageReq) (string, error) { return "key/widget.png", nil },
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, infra, nopLogger{})

		got, err := uc.AttachImage(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, got.ImageURL)
		assert.Equal(t, "key/widget.png", *got.ImageURL)
	})

	t.Run("missing product fails before upload", func(t *testing.T) {
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
				return nil, e.ErrProductNotFound
			},
		}
		infra := &stubImageInfra{
			uploadFn: func(ctx context.Context, req *AttachImageReq) (string, error) {
				t.Fatal("upload must not run for missing product")
				return "", nil
			},
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, infra, nopLogger{})

		_, err := uc.AttachImage(ctx, req)
		assert.True(t, errors.Is(err, e.ErrProductNotFound))
	})

	t.Run("db failure triggers compensating cleanup", func(t *testing.T) {
		cleaned := make(chan string, 1)
		repo := &stubProductRepo{
			getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Product, error) { return product, nil },
			updateImageURLFn: func(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error) {
				return nil, errors.New("db write failed")
			},
		}
		infra := &stubImageInfra{
			uploadFn:  func(ctx context.Context, req *AttachImageReq) (string, error) { return "orphan-key", nil },
			cleanupFn: func(key string) { cleaned <- key },
		}

		uc := NewProductUC(repo, &stubCacheRepo{}, infra, nopLogger{})

		_, err := uc.AttachImage(ctx, req)
		require.Error(t, err)

		select {
		case key := <-cleaned:
			assert.Equal(t, "orphan-key", key)
		case <-time.After(time.Second):
			t.Fatal("orphaned object was not cleaned up")
		}
	})
}
