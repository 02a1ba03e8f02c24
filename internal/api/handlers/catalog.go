package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/athebyme/catalog-manager/internal/domain/models"
	"github.com/athebyme/catalog-manager/internal/domain/session"
	"github.com/athebyme/catalog-manager/internal/domain/view"
	"github.com/athebyme/catalog-manager/pkg/interfaces"
	"github.com/athebyme/catalog-manager/pkg/utils"
)

const (
	maxIntentBodyBytes = 1 << 20
	// maxViewPageSize верхняя граница page_size в запросе представления
	maxViewPageSize    = 1000
)

// CatalogService операции каталога, которые использует обработчик
type CatalogService interface {
	State(ctx context.Context) session.State
	Dispatch(ctx context.Context, intent session.Intent) (session.State, error)
	View(ctx context.Context, params models.ViewParams) (view.Result, error)
	GetProduct(ctx context.Context, productID string) (models.Product, error)
}

// CatalogHandler обработчик запросов каталога
type CatalogHandler struct {
	service         CatalogService
	defaultPageSize int
	logger          interfaces.LoggerPort
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(service CatalogService, defaultPageSize int, logger interfaces.LoggerPort) *CatalogHandler {
	return &CatalogHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{
		Error:   code,
		Code:    status,
		Message: message,
	})
}

// GetState возвращает текущее состояние страницы каталога
func (h *CatalogHandler) GetState(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    h.service.State(r.Context()),
	})
}

// DispatchIntent принимает намерение {"type": "...", ...} и возвращает новое состояние
func (h *CatalogHandler) DispatchIntent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIntentBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", "Не удалось прочитать тело запроса")
		return
	}

	intent, err := session.DecodeIntent(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	state, err := h.service.Dispatch(r.Context(), intent)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrProductNotFound):
			writeError(w, r, http.StatusNotFound, "not_found", "Продукт не найден")
		case errors.Is(err, session.ErrNoPendingDelete):
			writeError(w, r, http.StatusBadRequest, "bad_request", "Удаление не было запрошено")
		case errors.Is(err, session.ErrInvalidPageSize):
			writeError(w, r, http.StatusBadRequest, "bad_request", "Недопустимый размер страницы")
		case errors.Is(err, session.ErrFormNotOpen):
			writeError(w, r, http.StatusConflict, "conflict", "Форма не открыта")
		case errors.Is(err, session.ErrFormMismatch):
			writeError(w, r, http.StatusConflict, "conflict", "Отправленная запись не совпадает с открытой формой")
		case errors.Is(err, session.ErrUnknownIntent):
			writeError(w, r, http.StatusBadRequest, "bad_request", "Неизвестное намерение")
		default:
			h.logger.ErrorWithContext(r.Context(), "Ошибка обработки намерения",
				interfaces.LogField{Key: "error", Value: err.Error()})
			writeError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка обработки намерения")
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    state,
	})
}

// GetView строит представление по параметрам запроса, не меняя состояние страницы
func (h *CatalogHandler) GetView(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := models.DefaultViewParams(h.defaultPageSize)
	params.SearchText = query.Get("q")
	params.Category = query.Get("category")

	if sortField := query.Get("sort"); sortField != "" {
		field := models.SortField(sortField)
		if !field.Valid() {
			writeError(w, r, http.StatusBadRequest, "bad_request", "Недопустимое поле сортировки")
			return
		}
		params.SortField = field
	}

	switch dir := models.SortDirection(query.Get("dir")); dir {
	case "":
	case models.SortAsc, models.SortDesc:
		params.SortDirection = dir
	default:
		writeError(w, r, http.StatusBadRequest, "bad_request", "Недопустимое направление сортировки")
		return
	}

	var ok bool
	if params.Page, ok = intParam(query.Get("page"), params.Page); !ok || params.Page < 0 {
		writeError(w, r, http.StatusBadRequest, "bad_request", "Номер страницы должен быть неотрицательным целым числом")
		return
	}
	if params.PageSize, ok = intParam(query.Get("page_size"), params.PageSize); !ok ||
		params.PageSize < 1 || params.PageSize > maxViewPageSize {
		writeError(w, r, http.StatusBadRequest, "bad_request", "Размер страницы должен быть целым числом от 1 до 1000")
		return
	}

	result, err := h.service.View(r.Context(), params)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка построения представления",
			interfaces.LogField{Key: "error", Value: err.Error()})
		writeError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка построения представления")
		return
	}

	pagination := utils.NewPagination(params.Page, params.PageSize, string(params.SortField), params.SortDirection == models.SortDesc)
	pagination.SetTotal(int64(result.Filtered))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    result,
		Meta:    pagination,
	})
}

// GetProduct возвращает запись по productId
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	if productID == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", "ID продукта не указан")
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, session.ErrProductNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "Продукт не найден")
			return
		}
		h.logger.ErrorWithContext(r.Context(), "Ошибка получения продукта",
			interfaces.LogField{Key: "error", Value: err.Error()})
		writeError(w, r, http.StatusInternalServerError, "internal_error", "Ошибка получения продукта")
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    product,
	})
}

func intParam(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
