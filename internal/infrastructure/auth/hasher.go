package auth

import (
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher хеширует пароли через bcrypt со стандартной стоимостью.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return string(hash), nil
}

// Compare возвращает e.ErrUnauthorized при несовпадении пароля с хешем.
func (h *BcryptHasher) Compare(hash string, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return e.ErrUnauthorized
	}

	return nil
}
