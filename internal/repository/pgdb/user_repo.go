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

// UserRepo реализует репозиторий пользователей поверх PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
	conv converter.UserConverter
}

func NewUserRepo(pool *pgxpool.Pool, conv converter.UserConverter) *UserRepo {
	return &UserRepo{
		pool: pool,
		conv: conv,
	}
}

// Create вставляет нового пользователя. Нарушение уникальности e-mail
// возвращается как e.ErrEmailTaken.
func (u *UserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, is_active, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, password_hash, is_active, is_admin, created_at;
	`

	var model converter.UserModel
	err := u.pool.QueryRow(ctx, query,
		uuid.New(), user.Email, user.PasswordHash, user.IsActive, user.IsAdmin,
	).Scan(
		&model.ID, &model.Email, &model.PasswordHash,
		&model.IsActive, &model.IsAdmin, &model.CreatedAt,
	)
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmailTaken)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}

// GetByID возвращает пользователя по идентификатору.
func (u *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, is_active, is_admin, created_at
		FROM users
		WHERE id = $1;
	`

	return u.scanOne(u.pool.QueryRow(ctx, query, id))
}

// GetByEmail возвращает пользователя по точному совпадению e-mail.
func (u *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, is_active, is_admin, created_at
		FROM users
		WHERE email = $1;
	`

	return u.scanOne(u.pool.QueryRow(ctx, query, email))
}

// List возвращает страницу пользователей в порядке регистрации.
func (u *UserRepo) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	query := `
		SELECT id, email, password_hash, is_active, is_admin, created_at
		FROM users
		ORDER BY created_at
		OFFSET $1 LIMIT $2;
	`

	rows, err := u.pool.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.UserModel, 0)
	for rows.Next() {
		var model converter.UserModel
		if err := rows.Scan(
			&model.ID, &model.Email, &model.PasswordHash,
			&model.IsActive, &model.IsAdmin, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToArrEntity(models), nil
}

func (u *UserRepo) scanOne(row pgx.Row) (*domain.User, error) {
	var model converter.UserModel
	err := row.Scan(
		&model.ID, &model.Email, &model.PasswordHash,
		&model.IsActive, &model.IsAdmin, &model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrUserNotFound
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return u.conv.ToEntity(&model), nil
}
