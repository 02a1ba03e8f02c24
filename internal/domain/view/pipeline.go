// Package view строит отображаемую страницу каталога из снимка хранилища
package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// Result представляет производное представление каталога
type Result struct {
	Items      []models.Product  `json:"items"`
	Filtered   int               `json:"filtered"`
	Total      int               `json:"total"`
	Categories []string          `json:"categories"`
	Params     models.ViewParams `json:"params"`
	PageCount  int               `json:"page_count"`
}

// newCollator создает сравнение строк с учетом локали и чисел внутри строк ("item2" < "item10")
// Collator не потокобезопасен, поэтому создается на каждый расчет
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.Numeric)
}

// Derive выполняет фильтрацию, сортировку и разбиение на страницы
// Функция чистая: снимок не изменяется, результат зависит только от аргументов
func Derive(snapshot []models.Product, params models.ViewParams) Result {
	col := newCollator()

	filtered := Filter(snapshot, params.SearchText, params.Category)
	sortProducts(col, filtered, params.SortField, params.SortDirection)

	return Result{
		Items:      Paginate(filtered, params.Page, params.PageSize),
		Filtered:   len(filtered),
		Total:      len(snapshot),
		Categories: categories(col, snapshot),
		Params:     params,
		PageCount:  PageCount(len(filtered), params.PageSize),
	}
}

// Filter оставляет записи, у которых поисковая строка входит в item, productId или price
// без учета регистра, и catId совпадает с выбранной категорией. Всегда возвращает новый срез
func Filter(products []models.Product, search, category string) []models.Product {
	needle := strings.ToLower(search)
	result := make([]models.Product, 0, len(products))

	for _, p := range products {
		if category != "" && p.CatID != category {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		result = append(result, p)
	}
	return result
}

func matches(p models.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Item), needle) ||
		strings.Contains(strings.ToLower(p.ProductID), needle) ||
		strings.Contains(strings.ToLower(p.Price), needle)
}

// Sort устойчиво сортирует записи на месте
// Неизвестное поле заменяется на item, любое направление кроме desc считается asc
func Sort(products []models.Product, field models.SortField, dir models.SortDirection) {
	sortProducts(newCollator(), products, field, dir)
}

func sortProducts(col *collate.Collator, products []models.Product, field models.SortField, dir models.SortDirection) {
	if !field.Valid() {
		field = models.SortByItem
	}
	desc := dir == models.SortDesc

	sort.SliceStable(products, func(i, j int) bool {
		c := col.CompareString(products[i].Field(field), products[j].Field(field))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// Paginate возвращает срез [page*size, page*size+size)
// Страница за пределами диапазона, отрицательная страница или неположительный размер дают пустой результат
func Paginate(products []models.Product, page, size int) []models.Product {
	if page < 0 || size <= 0 || len(products) == 0 {
		return []models.Product{}
	}
	// сравнение через деление: page*size может переполнить int
	if page > (len(products)-1)/size {
		return []models.Product{}
	}

	start := page * size
	end := len(products)
	if size < end-start {
		end = start + size
	}

	result := make([]models.Product, end-start)
	copy(result, products[start:end])
	return result
}

// PageCount количество страниц для заданного числа записей
func PageCount(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count-1)/size + 1
}

// Categories возвращает различные непустые catId в порядке возрастания
func Categories(products []models.Product) []string {
	return categories(newCollator(), products)
}

func categories(col *collate.Collator, products []models.Product) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)

	for _, p := range products {
		if p.CatID == "" {
			continue
		}
		if _, ok := seen[p.CatID]; ok {
			continue
		}
		seen[p.CatID] = struct{}{}
		result = append(result, p.CatID)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return col.CompareString(result[i], result[j]) < 0
	})
	return result
}
