// Package docs Places Service API.
//
// Места поверх Nostr (kind 37515): список, поиск в радиусе, черновики
// для правки и публикация на релеи.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        },
        "/api/v1/places": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Список мест",
                "parameters": [
                    {"type": "string", "name": "geohash", "in": "query", "description": "Префикс geohash"},
                    {"type": "string", "name": "authors", "in": "query", "description": "Pubkey авторов через запятую"},
                    {"type": "string", "name": "types", "in": "query", "description": "Типы мест через запятую"},
                    {"type": "boolean", "name": "open_now", "in": "query", "description": "Только открытые сейчас"},
                    {"type": "integer", "default": 100, "name": "limit", "in": "query", "description": "Максимальное количество результатов"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Публикация места",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PublishPlaceRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/places/payload": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Неподписанный payload места",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.PreparePlaceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/places/{naddr}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Место по naddr",
                "parameters": [
                    {"type": "string", "name": "naddr", "in": "path", "required": true, "description": "NIP-19 naddr места"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/places/{naddr}/draft": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Черновик для редактирования места",
                "parameters": [
                    {"type": "string", "name": "naddr", "in": "path", "required": true, "description": "NIP-19 naddr места"},
                    {"type": "string", "name": "pubkey", "in": "query", "description": "Pubkey пользователя (или заголовок X-Nostr-Pubkey)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/radius/places": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Поиск мест в радиусе",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RadiusPlacesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/profiles/{pubkey}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Профиль владельца места",
                "parameters": [
                    {"type": "string", "name": "pubkey", "in": "path", "required": true, "description": "Pubkey в hex"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}
                }
            }
        },
        "/api/v1/place-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["places"],
                "summary": "Каталог типов мест",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/utils.SuccessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.PlaceForm": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "geohash": {"type": "string"},
                "coordinates": {"type": "array", "items": {"type": "number"}},
                "abbrev": {"type": "string"},
                "description": {"type": "string"},
                "street_address": {"type": "string"},
                "locality": {"type": "string"},
                "region": {"type": "string"},
                "country_name": {"type": "string"},
                "postal_code": {"type": "string"},
                "type": {"type": "string"},
                "status": {"type": "string"},
                "website": {"type": "string"},
                "phone": {"type": "string"},
                "hours": {"type": "string"}
            }
        },
        "dto.PreparePlaceRequest": {
            "type": "object",
            "required": ["owner"],
            "properties": {
                "owner": {"type": "string"},
                "place": {"$ref": "#/definitions/dto.PlaceForm"}
            }
        },
        "dto.PublishPlaceRequest": {
            "type": "object",
            "properties": {
                "place": {"$ref": "#/definitions/dto.PlaceForm"},
                "previous_naddr": {"type": "string"}
            }
        },
        "dto.RadiusPlacesRequest": {
            "type": "object",
            "required": ["lat", "lon", "radius_km"],
            "properties": {
                "lat": {"type": "number", "maximum": 90, "minimum": -90},
                "lon": {"type": "number", "maximum": 180, "minimum": -180},
                "radius_km": {"type": "number", "maximum": 100, "minimum": 0.1},
                "types": {"type": "array", "items": {"type": "string"}},
                "open_now": {"type": "boolean"},
                "limit": {"type": "integer", "maximum": 500, "minimum": 1}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "warnings": {"type": "array", "items": {"type": "string"}}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Places Service API",
	Description:      "Сервис мест поверх Nostr (kind 37515).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
