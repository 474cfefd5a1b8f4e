package domain

import (
	"time"

	"github.com/google/uuid"
)

// User описывает зарегистрированного пользователя.
// PasswordHash хранит только bcrypt-хэш, исходный пароль никогда не сохраняется.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsActive     bool
	IsAdmin      bool
	CreatedAt    time.Time
}

func NewUser(email string, passwordHash string, isAdmin bool) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsAdmin:      isAdmin,
	}
}
