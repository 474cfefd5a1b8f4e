package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userUsecase  usecase.UserUC
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewUserHandler(userUsecase usecase.UserUC, orderUsecase usecase.OrderUC, logger logger.Logger) *UserHandler {
	return &UserHandler{userUsecase: userUsecase, orderUsecase: orderUsecase, logger: logger}
}

// register
//
//	@Summary		Регистрация пользователя
//	@Description	Создаёт нового пользователя по e-mail и паролю
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		createUserRequest	true	"Данные пользователя"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse	"E-mail уже занят"
//	@Router			/users [post]
func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	user, err := h.userUsecase.Register(r.Context(), usecase.NewRegisterUserReq(req.Email, req.Password, req.IsAdmin))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toUserResponse(user))
}

// list
//
//	@Summary	Список пользователей
//	@Tags		users
//	@Produce	json
//	@Param		skip	query		int	false	"Смещение"
//	@Param		limit	query		int	false	"Размер страницы"
//	@Success	200		{array}		UserResponse
//	@Failure	401		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/users [get]
func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	users, err := h.userUsecase.List(r.Context(), skip, limit)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponses(users))
}

// me
//
//	@Summary	Текущий пользователь
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/users/me [get]
func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponse(user))
}

// getByID
//
//	@Summary	Пользователь по идентификатору
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"ID пользователя"
//	@Success	200	{object}	UserResponse
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/users/{id} [get]
func (h *UserHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.userUsecase.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toUserResponse(user))
}

// orders
//
//	@Summary	Заказы пользователя
//	@Tags		users
//	@Produce	json
//	@Param		id	path		string	true	"ID пользователя"
//	@Success	200	{array}		OrderResponse
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/users/{id}/orders [get]
func (h *UserHandler) orders(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	// Проверяем существование пользователя, чтобы вернуть 404, а не пустой список
	if _, err := h.userUsecase.GetByID(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	orders, err := h.orderUsecase.ListUserOrders(r.Context(), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}
