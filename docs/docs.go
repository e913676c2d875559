// Package docs registers the OpenAPI document served at /swagger.
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
        "/players": {
            "get": {"tags": ["Players"], "summary": "Search the player pool", "produces": ["application/json"], "parameters": [{"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Players"], "summary": "Add a player to the pool", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"name": "player", "in": "body", "required": true, "schema": {"$ref": "#/definitions/player.CreatePlayerRequest"}}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}}}
        },
        "/players/{id}": {
            "get": {"tags": ["Players"], "summary": "Get a player", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Player not found"}}}
        },
        "/matches": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Matches"], "summary": "Create a match", "parameters": [{"name": "match", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.CreateMatchInput"}}], "responses": {"201": {"description": "Created"}, "422": {"description": "Rule violation"}}}
        },
        "/matches/active": {
            "get": {"tags": ["Matches"], "summary": "Get a user's live match", "parameters": [{"type": "integer", "name": "owner_id", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "No live match"}}}
        },
        "/matches/{id}": {
            "get": {"tags": ["Matches"], "summary": "Get a match", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Match not found"}}}
        },
        "/matches/{id}/balls": {
            "get": {"tags": ["Scoring"], "summary": "List deliveries", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "innings", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Scoring"], "summary": "Record a delivery", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"name": "ball", "in": "body", "required": true, "schema": {"$ref": "#/definitions/match.BallInput"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Match not live or concurrent update"}, "422": {"description": "Rule violation"}}}
        },
        "/matches/{id}/balls/last": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Scoring"], "summary": "Undo the last delivery", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Nothing to undo"}}}
        }
    },
    "definitions": {
        "player.CreatePlayerRequest": {"type": "object", "required": ["display_name"], "properties": {"display_name": {"type": "string", "maxLength": 80, "minLength": 1}}},
        "match.CreateMatchInput": {"type": "object", "required": ["team_a_name", "team_b_name"], "properties": {"team_a_name": {"type": "string"}, "team_b_name": {"type": "string"}, "total_overs": {"type": "integer"}, "wide_runs": {"type": "integer"}, "no_ball_runs": {"type": "integer"}, "authorized_user_ids": {"type": "array", "items": {"type": "integer"}}}},
        "match.BallInput": {"type": "object", "properties": {"runs_off_bat": {"type": "integer", "maximum": 7, "minimum": 0}, "extras": {"type": "object", "properties": {"type": {"type": "string", "enum": ["wide", "no_ball", "bye", "leg_bye"]}, "runs": {"type": "integer"}}}, "wicket": {"type": "object", "properties": {"type": {"type": "string"}, "player_id": {"type": "integer"}, "is_striker_out": {"type": "boolean"}}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8088",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Crease live scoring API",
	Description:      "Ball-by-ball cricket scoring with lossless undo.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
