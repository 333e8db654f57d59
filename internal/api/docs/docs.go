// Package docs registers the OpenAPI document served by /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o internal/api/docs
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
        "/health": {
            "get": {"tags": ["System"], "summary": "健康检查", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/v1/auth/sign-up": {
            "post": {"tags": ["Auth"], "summary": "注册", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.SignUpRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["Auth"], "summary": "登录", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/refresh": {
            "post": {"tags": ["Auth"], "summary": "刷新令牌", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "退出登录",
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/auth/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "当前用户",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/games": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "游戏历史",
                "parameters": [{"type": "integer", "name": "page", "in": "query"}, {"type": "integer", "name": "pageSize", "in": "query"}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "开始新游戏",
                "responses": {"201": {"description": "Created"}, "409": {"description": "meta.gameId holds the live game"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/v1/games/active": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "当前游戏",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/games/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "查询游戏",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/games/{id}/guess": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "猜字母",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.GuessRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/games/{id}/hint": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "使用提示",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/games/{id}/surrender": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Games"], "summary": "认输",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/v1/stats": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Stats"], "summary": "个人统计",
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/leaderboard": {
            "get": {"tags": ["Stats"], "summary": "排行榜", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/words": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Words"], "summary": "添加单词",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/service.AddWordRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/v1/words/count": {
            "get": {"tags": ["Words"], "summary": "词库数量", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "service.SignUpRequest": {"type": "object", "required": ["name", "email", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "service.LoginRequest": {"type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "service.GuessRequest": {"type": "object", "required": ["letter"],
            "properties": {"letter": {"type": "string"}}},
        "service.AddWordRequest": {"type": "object", "required": ["word", "hint1", "hint2"],
            "properties": {"word": {"type": "string"}, "hint1": {"type": "string"}, "hint2": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Hangman Game API",
	Description:      "Hangman game sessions, scoring, stats and leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
