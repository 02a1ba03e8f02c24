package utils

// Pagination представляет сведения о странице для мета-данных ответа
type Pagination struct {
	Page       int    `json:"page"`        // Номер страницы (начиная с 0)
	PageSize   int    `json:"page_size"`   // Размер страницы
	TotalItems int64  `json:"total_items"` // Количество элементов после фильтрации
	TotalPages int    `json:"total_pages"` // Общее количество страниц
	SortBy     string `json:"sort_by"`     // Поле для сортировки
	SortDesc   bool   `json:"sort_desc"`   // Сортировка по убыванию
	HasNext    bool   `json:"has_next"`    // Есть ли следующая страница
	HasPrev    bool   `json:"has_prev"`    // Есть ли предыдущая страница
}

// NewPagination создает новый экземпляр Pagination
// Значения не корректируются: страница вне диапазона просто пуста
func NewPagination(page, pageSize int, sortBy string, sortDesc bool) *Pagination {
	return &Pagination{
		Page:     page,
		PageSize: pageSize,
		SortBy:   sortBy,
		SortDesc: sortDesc,
	}
}

// SetTotal устанавливает общее количество элементов и пересчитывает зависимые поля
func (p *Pagination) SetTotal(totalItems int64) {
	p.TotalItems = totalItems
	p.TotalPages = 0
	if p.PageSize > 0 && totalItems > 0 {
		p.TotalPages = int((totalItems-1)/int64(p.PageSize) + 1)
	}
	p.HasNext = p.Page >= 0 && p.Page < p.TotalPages-1
	p.HasPrev = p.Page > 0 && p.TotalPages > 0
}
