package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Product представляет запись каталога товаров
type Product struct {
	ProductID   string `json:"productId"`
	Item        string `json:"item"`
	Price       string `json:"price"` // каноническая форма "$" + два знака после точки
	CatID       string `json:"catId"`
	UOM         string `json:"uom"`
	ProductSize string `json:"productSize"`
	PluUpc      string `json:"plu_upc"`
}

// Field возвращает значение поля по его json-имени; неизвестное имя дает пустую строку
func (p Product) Field(name SortField) string {
	switch name {
	case SortByProductID:
		return p.ProductID
	case SortByItem:
		return p.Item
	case SortByPrice:
		return p.Price
	case SortByCatID:
		return p.CatID
	case SortByUOM:
		return p.UOM
	default:
		return ""
	}
}

// RawProduct представляет запись исходной коллекции (Products.json или таблица источника)
// Значения могут приходить как строками, так и числами
type RawProduct struct {
	ProductSize FlexString `json:"productSize"`
	Item        FlexString `json:"item"`
	PluUpc      FlexString `json:"plu_upc"`
	Price       FlexString `json:"price"`
	ProductID   FlexString `json:"productId"`
	CatID       FlexString `json:"catId"`
	UOM         FlexString `json:"uom"`
}

// ToProduct преобразует исходную запись в Product без нормализации значений
func (r RawProduct) ToProduct() Product {
	return Product{
		ProductID:   string(r.ProductID),
		Item:        string(r.Item),
		Price:       string(r.Price),
		CatID:       string(r.CatID),
		UOM:         string(r.UOM),
		ProductSize: string(r.ProductSize),
		PluUpc:      string(r.PluUpc),
	}
}

// FlexString строка, которая принимает из JSON как строку, так и число
type FlexString string

// UnmarshalJSON реализует json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported value %s: %w", strings.TrimSpace(string(data)), err)
	}
	*f = FlexString(n.String())
	return nil
}
