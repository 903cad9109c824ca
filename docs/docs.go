// Package docs registers the OpenAPI description served at /swagger/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["auth"], "summary": "Create an account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/session"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"], "summary": "Sign in",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}}, "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/v1/areas": {
            "get": {
                "tags": ["areas"], "summary": "List areas",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/area"}}}}
            }
        },
        "/v1/profiles/{uid}": {
            "get": {
                "tags": ["profiles"], "summary": "Get a profile", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "uid", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/profile"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}}
            },
            "put": {
                "tags": ["profiles"], "summary": "Create the caller's profile", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "uid", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/profileRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/profile"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/v1/announcements": {
            "get": {
                "tags": ["announcements"], "summary": "List announcements", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "area_id", "type": "string"}, {"in": "query", "name": "author_id", "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/announcementList"}}}
            },
            "post": {
                "tags": ["announcements"], "summary": "Post an announcement", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/announcementRequest"}}],
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}}
            }
        },
        "/v1/announcements/search": {
            "get": {
                "tags": ["announcements"], "summary": "Search announcements across all areas", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "category", "type": "string"},
                    {"in": "query", "name": "area_id", "type": "string"},
                    {"in": "query", "name": "range", "type": "string", "enum": ["all", "today", "week", "month", "3months"]},
                    {"in": "query", "name": "q", "type": "string"},
                    {"in": "query", "name": "sort", "type": "string", "enum": ["newest", "oldest", "relevant"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/announcementList"}}}
            }
        },
        "/v1/announcements/{id}": {
            "get": {
                "tags": ["announcements"], "summary": "Get an announcement", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/announcement"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}}
            },
            "patch": {
                "tags": ["announcements"], "summary": "Edit an announcement", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/announcementRequest"}}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}}
            },
            "delete": {
                "tags": ["announcements"], "summary": "Delete an announcement", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/error"}}}
            }
        }
    },
    "definitions": {
        "error": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "string"}, "redirect": {"type": "string"}}},
        "credentials": {"type": "object", "required": ["email", "password"], "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "session": {"type": "object", "properties": {"token": {"type": "string"}, "uid": {"type": "string"}, "email": {"type": "string"}}},
        "area": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}}},
        "profile": {"type": "object", "properties": {"uid": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string", "enum": ["resident", "official"]}, "area_id": {"type": "string"}}},
        "profileRequest": {"type": "object", "required": ["role", "area_id"], "properties": {"role": {"type": "string", "enum": ["resident", "official"]}, "area_id": {"type": "string"}}},
        "announcement": {"type": "object", "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"}, "area_id": {"type": "string"}, "author_id": {"type": "string"}, "date_posted": {"type": "string", "format": "date-time"}}},
        "announcementRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "category": {"type": "string"}}},
        "announcementList": {"type": "object", "properties": {"results": {"type": "array", "items": {"$ref": "#/definitions/announcement"}}, "total": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Komunidad API",
	Description:      "Barangay community bulletin board.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
