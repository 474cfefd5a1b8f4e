package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/google/uuid"
)

// UserUseCase реализует регистрацию, аутентификацию и чтение пользователей.
type UserUseCase struct {
	userRepo     UserRepository
	hasher       PasswordHasher
	tokenManager TokenManager
	logger       logger.Logger
}

func NewUserUC(
	userRepo UserRepository,
	hasher PasswordHasher,
	tokenManager TokenManager,
	logger logger.Logger,
) *UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
// Повторная регистрация занятого e-mail отклоняется; проверка по e-mail
// продублирована ограничением уникальности в БД, так что гонка
// «проверили-вставили» тоже завершается e.ErrEmailTaken.
func (u *UserUseCase) Register(ctx context.Context, req *RegisterUserReq) (*domain.User, error) {
	const op = "UserUseCase.Register"

	if err := u.validateRegister(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := u.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, e.Wrap(op, e.ErrEmailTaken)
	} else if !errors.Is(err, e.ErrUserNotFound) {
		return nil, e.Wrap(op, err)
	}

	hash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	user, err := u.userRepo.Create(ctx, domain.NewUser(req.Email, hash, req.IsAdmin))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// Login проверяет пару e-mail/пароль и выпускает bearer-токен.
// Любая причина отказа сводится к одной ошибке e.ErrUnauthorized.
func (u *UserUseCase) Login(ctx context.Context, req *LoginReq) (*TokenRes, error) {
	const op = "UserUseCase.Login"

	user, err := u.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	if err := u.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	token, err := u.tokenManager.Issue(user.Email)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewTokenRes(token), nil
}

// Authenticate разбирает bearer-токен и возвращает его владельца.
// Сбой подписи, истёкший срок, некорректный формат и удалённый пользователь
// неразличимы для вызывающего — всегда e.ErrUnauthorized.
func (u *UserUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "UserUseCase.Authenticate"

	email, err := u.tokenManager.ParseSubject(token)
	if err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, e.Wrap(op, e.ErrUnauthorized)
	}

	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (u *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "UserUseCase.GetByID"

	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return user, nil
}

// List возвращает страницу пользователей.
func (u *UserUseCase) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	const op = "UserUseCase.List"

	users, err := u.userRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return users, nil
}

func (u *UserUseCase) validateRegister(req *RegisterUserReq) error {
	if strings.TrimSpace(req.Email) == "" {
		return e.ErrEmailRequired
	}

	if req.Password == "" {
		return e.ErrPasswordRequired
	}

	return nil
}
