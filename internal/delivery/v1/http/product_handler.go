package http

import (
	"net/http"

	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// parseProductRequest разбирает JSON-тело товара и переводит цену в копейки.
func (p *ProductHandler) parseProductRequest(r *http.Request) (*usecase.CreateProductReq, error) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	priceCents, err := parsePriceToCents(req.Price)
	if err != nil {
		return nil, err
	}

	return usecase.NewCreateProductReq(req.Name, req.Description, priceCents, req.ImageURL), nil
}

// create
//
//	@Summary	Создание товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		product	body		productRequest	true	"Данные товара"
//	@Success	201		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Security	BearerAuth
//	@Router		/products [post]
func (p *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	req, err := p.parseProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// get
//
//	@Summary	Товар по идентификатору
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Get(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// update
//
//	@Summary	Полное обновление товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"ID товара"
//	@Param		product	body		productRequest	true	"Данные товара"
//	@Success	200		{object}	ProductResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id} [put]
func (p *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	req, err := p.parseProductRequest(r)
	if err != nil {
		p.logger.Warnf("%d: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.Update(r.Context(), id, req)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// delete
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	string	true	"ID товара"
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse	"Товар используется в заказах"
//	@Security	BearerAuth
//	@Router		/products/{id} [delete]
func (p *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.productUsecase.Delete(r.Context(), id); err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// list
//
//	@Summary	Список товаров
//	@Tags		products
//	@Produce	json
//	@Param		skip	query	int	false	"Смещение"
//	@Param		limit	query	int	false	"Размер страницы"
//	@Success	200		{array}	ProductResponse
//	@Router		/products [get]
func (p *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	products, err := p.productUsecase.List(r.Context(), skip, limit)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponses(products))
}

// attachImage
//
//	@Summary	Загрузка изображения товара
//	@Tags		products
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		id		path		string	true	"ID товара"
//	@Param		image	formData	file	true	"Изображение"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/products/{id}/image [post]
func (p *ProductHandler) attachImage(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 20 << 20
		maxMemory           = 16 << 20
		maxFileSize         = 15 << 20
	)

	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImage)
		return
	}

	fh := files[0]
	data, mimeType, err := readFile(fh, maxFileSize)
	if err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	product, err := p.productUsecase.AttachImage(r.Context(), usecase.NewAttachImageReq(id, data, mimeType, int64(len(data)), fh.Filename))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}
