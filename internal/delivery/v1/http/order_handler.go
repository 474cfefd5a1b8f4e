package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// create
//
//	@Summary		Оформление заказа
//	@Description	Создаёт заказ от имени аутентифицированного пользователя.
//	@Description	Позиции с несуществующими товарами молча пропускаются.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		createOrderRequest	true	"Позиции заказа"
//	@Success		201		{object}	OrderResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	user, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	items := make([]usecase.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
		items = append(items, usecase.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderUsecase.PlaceOrder(r.Context(), usecase.NewPlaceOrderReq(user.ID, items))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

// list
//
//	@Summary	Список всех заказов
//	@Tags		orders
//	@Produce	json
//	@Param		skip	query		int	false	"Смещение"
//	@Param		limit	query		int	false	"Размер страницы"
//	@Success	200		{array}		OrderResponse
//	@Failure	401		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/orders [get]
func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	orders, err := h.orderUsecase.ListOrders(r.Context(), skip, limit)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponses(orders))
}
