// Package docs содержит описание HTTP API каталога для swagger
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Текущее состояние страницы каталога",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/catalog/intents": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Обработка намерения пользователя",
                "parameters": [
                    {
                        "in": "body",
                        "name": "intent",
                        "required": true,
                        "schema": {"$ref": "#/definitions/Intent"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Неизвестное или некорректное намерение"},
                    "409": {"description": "Форма не открыта или не совпадает с отправленной записью"},
                    "404": {"description": "Продукт не найден"}
                }
            }
        },
        "/catalog/view": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Представление по параметрам запроса",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query", "enum": ["productId", "item", "price", "catId", "uom"]},
                    {"type": "string", "name": "dir", "in": "query", "enum": ["asc", "desc"]},
                    {"type": "integer", "name": "page", "in": "query", "minimum": 0},
                    {"type": "integer", "name": "page_size", "in": "query", "minimum": 1, "maximum": 1000}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Некорректные параметры"}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Запись каталога по productId",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Product"}},
                    "404": {"description": "Продукт не найден"}
                }
            }
        }
    },
    "definitions": {
        "Product": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "item": {"type": "string"},
                "price": {"type": "string"},
                "catId": {"type": "string"},
                "uom": {"type": "string"},
                "productSize": {"type": "string"},
                "plu_upc": {"type": "string"}
            }
        },
        "Intent": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {
                    "type": "string",
                    "enum": [
                        "sort_by", "set_search_text", "set_category", "clear_filters", "set_page", "set_page_size",
                        "request_create", "request_edit", "submit_form", "cancel_form",
                        "request_delete", "confirm_delete", "cancel_delete"
                    ]
                },
                "field": {"type": "string"},
                "text": {"type": "string"},
                "catId": {"type": "string"},
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "productId": {"type": "string"},
                "mode": {"type": "string", "enum": ["create", "edit"]},
                "fields": {"$ref": "#/definitions/Product"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Catalog Manager API",
	Description:      "Каталог товаров: представление, фильтрация и редактирование записей",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
