// Package docs registers the OpenAPI document served at /swagger/*any.
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
        "/parseDocument": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Upload a document and return the parser's structured output",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["parse"],
                "summary": "Parse a document",
                "parameters": [
                    {"type": "file", "description": "Document to parse", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "default": "all", "description": "Render format: all, html, text or json", "name": "renderFormat", "in": "query"},
                    {"type": "string", "default": "no", "description": "yes or no", "name": "useNewIndentParser", "in": "query"},
                    {"type": "string", "default": "no", "description": "yes or no", "name": "applyOcr", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Parsed document", "schema": {"$ref": "#/definitions/handler.ParseSuccessResponse"}},
                    "400": {"description": "Missing file or invalid parameter", "schema": {"$ref": "#/definitions/handler.FailureResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.FailureResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.FailureResponse"}},
                    "500": {"description": "Parse failed", "schema": {"$ref": "#/definitions/handler.FailureResponse"}}
                }
            }
        },
        "/parseRecords": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the most recent parse attempts, newest first",
                "produces": ["application/json"],
                "tags": ["parse"],
                "summary": "List recent parse attempts",
                "parameters": [
                    {"type": "integer", "default": 20, "description": "Maximum records to return (max 500)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Recent parse attempts", "schema": {"$ref": "#/definitions/handler.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.FailureResponse"}},
                    "500": {"description": "Listing failed", "schema": {"$ref": "#/definitions/handler.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/handler.APIError"},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean"}
            }
        },
        "handler.FailureResponse": {
            "type": "object",
            "properties": {
                "reason": {"type": "string", "example": "parse engine failed: connection refused"},
                "status": {"type": "string", "example": "fail"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.ParseSuccessResponse": {
            "type": "object",
            "properties": {
                "return_dict": {"type": "object", "additionalProperties": true},
                "status": {"type": "integer", "example": 200}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and a JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "docparse API",
	Description:      "Document parsing service backed by a supervised parser server.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
