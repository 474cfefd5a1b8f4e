package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var createdUser *domain.User
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, e.ErrUserNotFound
			},
			createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
				createdUser = user
				user.ID = uuid.New()
				return user, nil
			},
		}
		hasher := &stubHasher{
			hashFn: func(password string) (string, error) { return "hashed:" + password, nil },
		}

		uc := NewUserUC(repo, hasher, &stubTokenManager{}, nopLogger{})

		user, err := uc.Register(ctx, NewRegisterUserReq("user@example.com", "secret", false))
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsAdmin)
		// Пароль никогда не сохраняется в открытом виде
		require.NotNil(t, createdUser)
		assert.Equal(t, "hashed:secret", createdUser.PasswordHash)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return &domain.User{Email: email}, nil
			},
		}

		uc := NewUserUC(repo, &stubHasher{}, &stubTokenManager{}, nopLogger{})

		_, err := uc.Register(ctx, NewRegisterUserReq("taken@example.com", "secret", false))
		assert.True(t, errors.Is(err, e.ErrEmailTaken))
	})

	t.Run("validation", func(t *testing.T) {
		uc := NewUserUC(&stubUserRepo{}, &stubHasher{}, &stubTokenManager{}, nopLogger{})

		_, err := uc.Register(ctx, NewRegisterUserReq("", "secret", false))
		assert.True(t, errors.Is(err, e.ErrEmailRequired))

		_, err = uc.Register(ctx, NewRegisterUserReq("user@example.com", "", false))
		assert.True(t, errors.Is(err, e.ErrPasswordRequired))
	})

	t.Run("repo error is not mistaken for free email", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, dbErr
			},
		}

		uc := NewUserUC(repo, &stubHasher{}, &stubTokenManager{}, nopLogger{})

		_, err := uc.Register(ctx, NewRegisterUserReq("user@example.com", "secret", false))
		assert.True(t, errors.Is(err, dbErr))
	})
}

func TestUserUseCase_Login(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: "hashed:secret",
	}

	t.Run("success", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
		}
		hasher := &stubHasher{
			compareFn: func(hash, password string) error { return nil },
		}
		tokens := &stubTokenManager{
			issueFn: func(email string) (string, error) { return "signed-token", nil },
		}

		uc := NewUserUC(repo, hasher, tokens, nopLogger{})

		res, err := uc.Login(ctx, NewLoginReq("user@example.com", "secret"))
		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.AccessToken)
		assert.Equal(t, "bearer", res.TokenType)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, e.ErrUserNotFound
			},
		}

		uc := NewUserUC(repo, &stubHasher{}, &stubTokenManager{}, nopLogger{})

		_, err := uc.Login(ctx, NewLoginReq("ghost@example.com", "secret"))
		assert.True(t, errors.Is(err, e.ErrUnauthorized))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
		}
		hasher := &stubHasher{
			compareFn: func(hash, password string) error { return e.ErrUnauthorized },
		}

		uc := NewUserUC(repo, hasher, &stubTokenManager{}, nopLogger{})

		_, err := uc.Login(ctx, NewLoginReq("user@example.com", "wrong"))
		assert.True(t, errors.Is(err, e.ErrUnauthorized))
	})
}

func TestUserUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Email: "user@example.com"}

	t.Run("success", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) { return user, nil },
		}
		tokens := &stubTokenManager{
			parseFn: func(token string) (string, error) { return user.Email, nil },
		}

		uc := NewUserUC(repo, &stubHasher{}, tokens, nopLogger{})

		got, err := uc.Authenticate(ctx, "valid-token")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("invalid token", func(t *testing.T) {
		tokens := &stubTokenManager{
			parseFn: func(token string) (string, error) { return "", e.ErrUnauthorized },
		}

		uc := NewUserUC(&stubUserRepo{}, &stubHasher{}, tokens, nopLogger{})

		_, err := uc.Authenticate(ctx, "garbage")
		assert.True(t, errors.Is(err, e.ErrUnauthorized))
	})

	t.Run("deleted user", func(t *testing.T) {
		repo := &stubUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, e.ErrUserNotFound
			},
		}
		tokens := &stubTokenManager{
			parseFn: func(token string) (string, error) { return "gone@example.com", nil },
		}

		uc := NewUserUC(repo, &stubHasher{}, tokens, nopLogger{})

		_, err := uc.Authenticate(ctx, "valid-token")
		assert.True(t, errors.Is(err, e.ErrUnauthorized))
	})
}
