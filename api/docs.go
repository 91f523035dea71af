// Package api registers the Swagger 2.0 document served under /swagger.
// Keep it in step with the godoc annotations on the HTTP handlers.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "András",
            "email": "andrasna@proton.me"
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
        "/auth/token": {
            "post": {
                "description": "Verifies username and password and returns a signed JWT for the requested user type.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue an access token",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/auth.IssueTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.IssueTokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/auth.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/auth.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/auth.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/auth.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Describe the caller's token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/auth.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Reports whether the credential file can be read and parsed.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/server.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "not_authenticated"},
                "message": {"type": "string"}
            }
        },
        "auth.IssueTokenRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "userType": {"type": "string", "enum": ["StandardUser", "ServiceAccount"]},
                "username": {"type": "string"}
            }
        },
        "auth.IssueTokenResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string", "format": "date-time"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "token": {"type": "string"},
                "tokenType": {"type": "string", "example": "Bearer"},
                "userType": {"type": "string", "enum": ["StandardUser", "ServiceAccount"]}
            }
        },
        "auth.MeResponse": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string", "format": "date-time"},
                "issuedAt": {"type": "string", "format": "date-time"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "tokenId": {"type": "string"},
                "userType": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "server.HealthResponse": {
            "type": "object",
            "properties": {
                "credentialStore": {"type": "boolean"},
                "status": {"type": "string", "example": "serving"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "authsvc",
	Description:      "Issues signed JWTs to users and service accounts listed in a JSON credential file.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
