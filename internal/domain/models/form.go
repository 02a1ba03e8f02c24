package models

// FormMode режим модальной формы
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// FormFields кандидат в запись в том виде, в каком его ввел пользователь
type FormFields struct {
	ProductID   string `json:"productId"`
	Item        string `json:"item"`
	Price       string `json:"price"`
	CatID       string `json:"catId"`
	UOM         string `json:"uom"`
	ProductSize string `json:"productSize"`
	PluUpc      string `json:"plu_upc"`
}

// FieldsOf заполняет форму значениями существующей записи (режим редактирования)
func FieldsOf(p Product) FormFields {
	return FormFields{
		ProductID:   p.ProductID,
		Item:        p.Item,
		Price:       p.Price,
		CatID:       p.CatID,
		UOM:         p.UOM,
		ProductSize: p.ProductSize,
		PluUpc:      p.PluUpc,
	}
}
