// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/nexgo/main.go`.
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
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/board": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Board"],
                "summary": "Listing board",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query"},
                    {"type": "number", "name": "lng", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/board/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Board"],
                "summary": "Force a board refresh",
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/ratings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Rating"],
                "summary": "Rate a driver",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Operator login",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/driver/settings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Driver settings",
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Update driver settings",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Switch advertised status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/position": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Pin the vehicle position",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/position/acquire": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Re-run position acquisition",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/listing": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Write the listing on-chain",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/broadcast/start": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Start broadcasting",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/driver/broadcast/stop": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Driver"],
                "summary": "Stop broadcasting",
                "responses": {"200": {"description": "OK"}}
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

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "NexGo Board API",
	Description:      "Ledger-backed taxi listing board with driver broadcasting and ratings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
