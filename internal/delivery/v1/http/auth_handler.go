package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type AuthHandler struct {
	userUsecase usecase.UserUC
	logger      logger.Logger
}

func NewAuthHandler(userUsecase usecase.UserUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{userUsecase: userUsecase, logger: logger}
}

// token
//
//	@Summary		Выпуск bearer-токена
//	@Description	Принимает пару username/password в form-data (password-flow)
//	@Tags			auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"E-mail пользователя"
//	@Param			password	formData	string	true	"Пароль"
//	@Success		200			{object}	TokenResponse
//	@Failure		401			{object}	ErrorResponse
//	@Router			/token [post]
func (h *AuthHandler) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	// Поле называется username ради совместимости с password-flow клиентами,
	// но содержит e-mail.
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		WriteError(w, e.ErrMissingFields)
		return
	}

	token, err := h.userUsecase.Login(r.Context(), usecase.NewLoginReq(email, password))
	if err != nil {
		h.logger.Debugf("login failed for %s: %v", email, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, &TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	})
}
