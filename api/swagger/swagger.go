package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Military Asset Management API",
        "description": "Admin console for tracking asset purchases, transfers and assignments across bases",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Session and token management"},
        {"name": "Purchases", "description": "Asset purchase workflow"},
        {"name": "Transfers", "description": "Inter-base transfer workflow"},
        {"name": "Assignments", "description": "Asset assignment and closure"},
        {"name": "Dashboard", "description": "Base inventory metrics"},
        {"name": "Audit", "description": "Append-only activity log"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate the refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user with resolved permissions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/purchases": {
            "get": {
                "tags": ["Purchases"],
                "summary": "List purchases",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "base_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Purchases"],
                "summary": "Record a purchase order",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePurchaseRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Missing create_purchases capability"}
                }
            }
        },
        "/purchases/{id}": {
            "get": {
                "tags": ["Purchases"],
                "summary": "Get purchase",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/purchases/{id}/approve": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Approve a pending purchase",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Purchase is not pending"}
                }
            }
        },
        "/purchases/{id}/reject": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Reject a pending purchase",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/purchases/{id}/deliver": {
            "post": {
                "tags": ["Purchases"],
                "summary": "Mark an approved purchase delivered",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transfers": {
            "get": {
                "tags": ["Transfers"],
                "summary": "List transfers",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "from_base_id", "in": "query", "type": "string"},
                    {"name": "to_base_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Transfers"],
                "summary": "Request an inter-base transfer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTransferRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Origin and destination bases must differ"}
                }
            }
        },
        "/transfers/{id}": {
            "get": {
                "tags": ["Transfers"],
                "summary": "Get transfer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transfers/{id}/approve": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Approve a pending transfer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transfers/{id}/reject": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Reject a pending transfer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transfers/{id}/dispatch": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Mark an approved transfer in transit",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/transfers/{id}/complete": {
            "post": {
                "tags": ["Transfers"],
                "summary": "Complete an in-transit transfer",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "base_id", "in": "query", "type": "string"},
                    {"name": "assigned_to", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Assign an asset to personnel",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/return": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Close an assignment as returned",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/expend": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Close an assignment as expended",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/damage": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Close an assignment as damaged",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/metrics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Inventory balances and movement for a base",
                "parameters": [
                    {"name": "base_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/audit-logs": {
            "get": {
                "tags": ["Audit"],
                "summary": "List audit entries, newest first",
                "parameters": [
                    {"name": "action", "in": "query", "type": "string"},
                    {"name": "entity_type", "in": "query", "type": "string"},
                    {"name": "entity_id", "in": "query", "type": "string"},
                    {"name": "user_id", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreatePurchaseRequest": {
            "type": "object",
            "properties": {
                "asset_type": {"type": "string", "enum": ["WEAPON", "VEHICLE", "AMMUNITION", "EQUIPMENT"]},
                "asset_name": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "number"},
                "supplier": {"type": "string"},
                "base_id": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["asset_type", "asset_name", "quantity", "unit_price", "base_id"]
        },
        "CreateTransferRequest": {
            "type": "object",
            "properties": {
                "asset_id": {"type": "string"},
                "from_base_id": {"type": "string"},
                "to_base_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "notes": {"type": "string"}
            },
            "required": ["asset_id", "from_base_id", "to_base_id", "quantity"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "asset_id": {"type": "string"},
                "assigned_to": {"type": "string"},
                "base_id": {"type": "string"},
                "expected_return_date": {"type": "string"},
                "purpose": {"type": "string"},
                "notes": {"type": "string"}
            },
            "required": ["asset_id", "assigned_to", "base_id"]
        },
        "DashboardMetrics": {
            "type": "object",
            "properties": {
                "base_id": {"type": "string"},
                "opening_balance": {"type": "integer"},
                "closing_balance": {"type": "integer"},
                "net_movement": {"type": "integer"},
                "purchases_delivered": {"type": "integer"},
                "transfers_in": {"type": "integer"},
                "transfers_out": {"type": "integer"},
                "total_assigned": {"type": "integer"},
                "total_expended": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
