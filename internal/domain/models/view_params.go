package models

// SortField поле, по которому сортируется представление
type SortField string

const (
	SortByProductID SortField = "productId"
	SortByItem      SortField = "item"
	SortByPrice     SortField = "price"
	SortByCatID     SortField = "catId"
	SortByUOM       SortField = "uom"
)

// Valid сообщает, входит ли поле в список сортируемых колонок
func (f SortField) Valid() bool {
	switch f {
	case SortByProductID, SortByItem, SortByPrice, SortByCatID, SortByUOM:
		return true
	}
	return false
}

// SortDirection направление сортировки
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ViewParams представляет параметры представления, выбранные на странице
// Не сохраняются; передаются в конвейер представления при каждом пересчете
type ViewParams struct {
	SearchText    string        `json:"search_text"`
	Category      string        `json:"category"` // пустая строка означает все категории
	SortField     SortField     `json:"sort_field"`
	SortDirection SortDirection `json:"sort_direction"`
	Page          int           `json:"page"` // начиная с 0
	PageSize      int           `json:"page_size"`
}

// DefaultViewParams возвращает параметры, с которыми открывается страница каталога
func DefaultViewParams(pageSize int) ViewParams {
	return ViewParams{
		SortField:     SortByItem,
		SortDirection: SortAsc,
		Page:          0,
		PageSize:      pageSize,
	}
}
