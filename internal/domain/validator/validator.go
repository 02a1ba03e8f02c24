// Package validator проверяет и нормализует запись из формы перед записью в хранилище
package validator

import (
	"reflect"
	"sort"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/athebyme/catalog-manager/internal/domain/models"
)

// Сообщения об ошибках, показываемые в форме
const (
	MsgItemRequired  = "Product name is required"
	MsgPriceRequired = "Price is required"
	MsgPriceInvalid  = "Price must be a valid number greater than 0"
	MsgCatIDRequired = "Category ID is required"
	MsgUOMRequired   = "Unit of measure is required"
)

// ValidationErrors отображение имени поля формы в текст ошибки
type ValidationErrors map[string]string

// Error реализует интерфейс error
func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// candidate обрезанные значения обязательных полей формы
type candidate struct {
	Item  string `json:"item" validate:"required"`
	Price string `json:"price" validate:"required,price"`
	CatID string `json:"catId" validate:"required"`
	UOM   string `json:"uom" validate:"required"`
}

// messages сопоставляет поле и сработавшее правило с текстом ошибки
var messages = map[string]map[string]string{
	"item":  {"required": MsgItemRequired},
	"price": {"required": MsgPriceRequired, "price": MsgPriceInvalid},
	"catId": {"required": MsgCatIDRequired},
	"uom":   {"required": MsgUOMRequired},
}

// Validator проверяет кандидатов в записи каталога
// Безопасен для конкурентного использования
type Validator struct {
	validate *playground.Validate
}

// New создает валидатор с зарегистрированным правилом price
func New() *Validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation("price", func(fl playground.FieldLevel) bool {
		value, ok := ParsePrice(fl.Field().String())
		return ok && value.IsPositive()
	})

	return &Validator{validate: v}
}

// Validate проверяет поля формы; возвращает либо нормализованную запись, либо ошибки
// В режиме создания productId очищается, в режиме редактирования сохраняется
func (v *Validator) Validate(fields models.FormFields, mode models.FormMode) (models.Product, ValidationErrors) {
	c := candidate{
		Item:  strings.TrimSpace(fields.Item),
		Price: strings.TrimSpace(fields.Price),
		CatID: strings.TrimSpace(fields.CatID),
		UOM:   strings.TrimSpace(fields.UOM),
	}

	if err := v.validate.Struct(c); err != nil {
		return models.Product{}, toValidationErrors(err)
	}

	// Правило price уже гарантировало успешный разбор
	price, _ := ParsePrice(c.Price)

	product := models.Product{
		Item:        fields.Item,
		Price:       CanonicalPrice(price),
		CatID:       fields.CatID,
		UOM:         fields.UOM,
		ProductSize: fields.ProductSize,
		PluUpc:      fields.PluUpc,
	}
	if mode == models.FormEdit {
		product.ProductID = fields.ProductID
	}
	return product, nil
}

func toValidationErrors(err error) ValidationErrors {
	result := ValidationErrors{}

	fieldErrors, ok := err.(playground.ValidationErrors)
	if !ok {
		result["form"] = err.Error()
		return result
	}

	for _, fe := range fieldErrors {
		if msg, ok := messages[fe.Field()][fe.Tag()]; ok {
			result[fe.Field()] = msg
			continue
		}
		result[fe.Field()] = fe.Error()
	}
	return result
}
