package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий каталога товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет новый товар.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (id, name, description, price_cents, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, price_cents, image_url, created_at, updated_at;
	`

	return p.scanOne(p.pool.QueryRow(ctx, query,
		uuid.New(), product.Name, product.Description, product.PriceCents, product.ImageURL,
	), e.ErrInternalServerError)
}

// GetByID возвращает товар по идентификатору.
func (p *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, description, price_cents, image_url, created_at, updated_at
		FROM products
		WHERE id = $1;
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, id), e.ErrProductNotFound)
}

// Update полностью заменяет изменяемые поля товара.
func (p *ProductRepo) Update(ctx context.Context, id uuid.UUID, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, image_url = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, price_cents, image_url, created_at, updated_at;
	`

	return p.scanOne(p.pool.QueryRow(ctx, query,
		id, product.Name, product.Description, product.PriceCents, product.ImageURL,
	), e.ErrProductNotFound)
}

// UpdateImageURL сохраняет ключ изображения товара.
func (p *ProductRepo) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL string) (*domain.Product, error) {
	query := `
		UPDATE products
		SET image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, price_cents, image_url, created_at, updated_at;
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, id, imageURL), e.ErrProductNotFound)
}

// Delete удаляет товар. Товар, на который ссылаются позиции заказов,
// защищён внешним ключом — такая попытка возвращает e.ErrProductReferenced.
func (p *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1;`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		if postgresForeignKey(err) {
			return e.Wrap(whereami.WhereAmI(), e.ErrProductReferenced)
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

// List возвращает страницу каталога в порядке добавления.
func (p *ProductRepo) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price_cents, image_url, created_at, updated_at
		FROM products
		ORDER BY created_at
		OFFSET $1 LIMIT $2;
	`

	rows, err := p.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.PriceCents,
			&model.ImageURL, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func (p *ProductRepo) scanOne(row pgx.Row, notFound error) (*domain.Product, error) {
	var model converter.ProductModel
	err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.PriceCents,
		&model.ImageURL, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(&model), nil
}
