package session

import (
	"encoding/json"
	"fmt"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// Intent действие пользователя на странице каталога
type Intent interface {
	// Name возвращает имя намерения в том виде, в каком оно приходит по сети
	Name() string
	sealed()
}

// SortBy выбор колонки сортировки
type SortBy struct {
	Field models.SortField `json:"field"`
}

// SetSearchText изменение строки поиска
type SetSearchText struct {
	Text string `json:"text"`
}

// SetCategory выбор категории; пустая строка означает все категории
type SetCategory struct {
	CatID string `json:"catId"`
}

// ClearFilters сброс строки поиска и категории
type ClearFilters struct{}

// SetPage переход на страницу (с 0)
type SetPage struct {
	Page int `json:"page"`
}

// SetPageSize изменение размера страницы
type SetPageSize struct {
	Size int `json:"size"`
}

// RequestCreate открытие пустой формы добавления
type RequestCreate struct{}

// RequestEdit открытие формы редактирования существующей записи
type RequestEdit struct {
	ProductID string `json:"productId"`
}

// SubmitForm отправка формы
type SubmitForm struct {
	Fields models.FormFields `json:"fields"`
	Mode   models.FormMode   `json:"mode"`
}

// CancelForm закрытие формы без сохранения
type CancelForm struct{}

// RequestDelete запрос подтверждения удаления
type RequestDelete struct {
	ProductID string `json:"productId"`
}

// ConfirmDelete подтверждение удаления
type ConfirmDelete struct {
	ProductID string `json:"productId"`
}

// CancelDelete отказ от удаления
type CancelDelete struct{}

const (
	IntentSortBy        = "sort_by"
	IntentSetSearchText = "set_search_text"
	IntentSetCategory   = "set_category"
	IntentClearFilters  = "clear_filters"
	IntentSetPage       = "set_page"
	IntentSetPageSize   = "set_page_size"
	IntentRequestCreate = "request_create"
	IntentRequestEdit   = "request_edit"
	IntentSubmitForm    = "submit_form"
	IntentCancelForm    = "cancel_form"
	IntentRequestDelete = "request_delete"
	IntentConfirmDelete = "confirm_delete"
	IntentCancelDelete  = "cancel_delete"
)

func (SortBy) Name() string        { return IntentSortBy }
func (SetSearchText) Name() string { return IntentSetSearchText }
func (SetCategory) Name() string   { return IntentSetCategory }
func (ClearFilters) Name() string  { return IntentClearFilters }
func (SetPage) Name() string       { return IntentSetPage }
func (SetPageSize) Name() string   { return IntentSetPageSize }
func (RequestCreate) Name() string { return IntentRequestCreate }
func (RequestEdit) Name() string   { return IntentRequestEdit }
func (SubmitForm) Name() string    { return IntentSubmitForm }
func (CancelForm) Name() string    { return IntentCancelForm }
func (RequestDelete) Name() string { return IntentRequestDelete }
func (ConfirmDelete) Name() string { return IntentConfirmDelete }
func (CancelDelete) Name() string  { return IntentCancelDelete }

func (SortBy) sealed()        {}
func (SetSearchText) sealed() {}
func (SetCategory) sealed()   {}
func (ClearFilters) sealed()  {}
func (SetPage) sealed()       {}
func (SetPageSize) sealed()   {}
func (RequestCreate) sealed() {}
func (RequestEdit) sealed()   {}
func (SubmitForm) sealed()    {}
func (CancelForm) sealed()    {}
func (RequestDelete) sealed() {}
func (ConfirmDelete) sealed() {}
func (CancelDelete) sealed()  {}

// envelope сетевое представление намерения: {"type": "...", ...поля}
type envelope struct {
	Type      string            `json:"type"`
	Field     models.SortField  `json:"field"`
	Text      string            `json:"text"`
	CatID     string            `json:"catId"`
	Page      int               `json:"page"`
	Size      int               `json:"size"`
	ProductID string            `json:"productId"`
	Fields    models.FormFields `json:"fields"`
	Mode      models.FormMode   `json:"mode"`
}

// DecodeIntent разбирает намерение из JSON
func DecodeIntent(data []byte) (Intent, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode intent: %w", err)
	}

	switch e.Type {
	case IntentSortBy:
		return SortBy{Field: e.Field}, nil
	case IntentSetSearchText:
		return SetSearchText{Text: e.Text}, nil
	case IntentSetCategory:
		return SetCategory{CatID: e.CatID}, nil
	case IntentClearFilters:
		return ClearFilters{}, nil
	case IntentSetPage:
		return SetPage{Page: e.Page}, nil
	case IntentSetPageSize:
		return SetPageSize{Size: e.Size}, nil
	case IntentRequestCreate:
		return RequestCreate{}, nil
	case IntentRequestEdit:
		return RequestEdit{ProductID: e.ProductID}, nil
	case IntentSubmitForm:
		return SubmitForm{Fields: e.Fields, Mode: e.Mode}, nil
	case IntentCancelForm:
		return CancelForm{}, nil
	case IntentRequestDelete:
		return RequestDelete{ProductID: e.ProductID}, nil
	case IntentConfirmDelete:
		return ConfirmDelete{ProductID: e.ProductID}, nil
	case IntentCancelDelete:
		return CancelDelete{}, nil
	default:
		return nil, fmt.Errorf("intent type %q: %w", e.Type, ErrUnknownIntent)
	}
}
