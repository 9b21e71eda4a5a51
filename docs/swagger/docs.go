// Package swagger holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/products": {
            "get": {
                "tags": [
                    "catalog"
                ],
                "summary": "List products",
                "description": "Returns the product catalog ordered by name",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/ProductResponse"
                            }
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/shopping-lists": {
            "get": {
                "tags": [
                    "shopping-lists"
                ],
                "summary": "List shopping lists",
                "description": "customerId selects a customer's lists, employeeId an employee's queue; neither returns every list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer id",
                        "name": "customerId",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Employee id",
                        "name": "employeeId",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Exclude completed lists",
                        "name": "active",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/ListResponse"
                            }
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "shopping-lists"
                ],
                "summary": "Create shopping list",
                "description": "Creates a pending list; product data and prices are snapshotted from the catalog",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "List creation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateListRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/shopping-lists/{id}": {
            "get": {
                "tags": [
                    "shopping-lists"
                ],
                "summary": "Get shopping list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "List id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ListResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "patch": {
                "tags": [
                    "shopping-lists"
                ],
                "summary": "Update shopping list",
                "description": "updateItemStatus marks an item collected or unavailable; updateStatus with status=completed completes the list",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "List id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Update request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/PatchListRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ListResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "412": {
                        "description": "Precondition Failed",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/shopping-lists/{id}/complete": {
            "post": {
                "tags": [
                    "shopping-lists"
                ],
                "summary": "Complete shopping list",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "List id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ListResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "412": {
                        "description": "Precondition Failed",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/setup": {
            "post": {
                "tags": [
                    "setup"
                ],
                "summary": "Bootstrap store",
                "description": "Tests connectivity, then applies schema and seed migrations idempotently",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SetupResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/SetupErrorResponse"
                        }
                    }
                }
            }
        },
        "/users": {
            "get": {
                "tags": [
                    "identity"
                ],
                "summary": "List users",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "customer or employee",
                        "name": "role",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "User id",
                        "name": "id",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Users of the role, or a single UserResponse object when id is given",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/UserResponse"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            }
        },
        "/session": {
            "get": {
                "tags": [
                    "identity"
                ],
                "summary": "Current identity",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/UserResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "identity"
                ],
                "summary": "Select identity",
                "description": "Acts as the given user, or as the first user of the given role. No credentials are checked.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Identity selection",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SelectIdentityRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/UserResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "identity"
                ],
                "summary": "Clear identity",
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "shopping list not found"
                }
            }
        },
        "ProductResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "1"
                },
                "name": {
                    "type": "string",
                    "example": "Fresh Milk"
                },
                "image": {
                    "type": "string",
                    "example": "/images/milk.jpg"
                },
                "price": {
                    "type": "string",
                    "example": "1.50"
                }
            }
        },
        "ItemResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "productId": {
                    "type": "string",
                    "example": "1"
                },
                "product": {
                    "$ref": "#/definitions/ProductResponse"
                },
                "quantity": {
                    "type": "integer",
                    "example": 2
                },
                "status": {
                    "type": "string",
                    "example": "pending"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "SummaryResponse": {
            "type": "object",
            "properties": {
                "totalQuantity": {
                    "type": "integer",
                    "example": 5
                },
                "pending": {
                    "type": "integer",
                    "example": 1
                },
                "collected": {
                    "type": "integer",
                    "example": 1
                },
                "unavailable": {
                    "type": "integer",
                    "example": 0
                },
                "canComplete": {
                    "type": "boolean",
                    "example": false
                },
                "estimatedTotal": {
                    "type": "string",
                    "example": "3.00"
                }
            }
        },
        "ListResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "customerId": {
                    "type": "string",
                    "example": "1"
                },
                "customerName": {
                    "type": "string",
                    "example": "John Customer"
                },
                "assignedEmployeeId": {
                    "type": "string",
                    "example": "2"
                },
                "status": {
                    "type": "string",
                    "example": "in_progress"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ItemResponse"
                    }
                },
                "summary": {
                    "$ref": "#/definitions/SummaryResponse"
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "CreatedResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "123e4567-e89b-12d3-a456-426614174000"
                }
            }
        },
        "CreateListItemRequest": {
            "type": "object",
            "properties": {
                "productId": {
                    "type": "string",
                    "maxLength": 64,
                    "example": "1"
                },
                "quantity": {
                    "type": "integer",
                    "maximum": 999,
                    "example": 2
                }
            },
            "required": [
                "productId"
            ]
        },
        "CreateListRequest": {
            "type": "object",
            "properties": {
                "customerId": {
                    "type": "string",
                    "maxLength": 64,
                    "example": "1"
                },
                "customerName": {
                    "type": "string",
                    "maxLength": 255,
                    "example": "John Customer"
                },
                "items": {
                    "type": "array",
                    "minItems": 1,
                    "items": {
                        "$ref": "#/definitions/CreateListItemRequest"
                    }
                },
                "assignedEmployeeId": {
                    "type": "string",
                    "maxLength": 64,
                    "example": "2"
                }
            },
            "required": [
                "items"
            ]
        },
        "PatchListRequest": {
            "type": "object",
            "properties": {
                "action": {
                    "type": "string",
                    "enum": [
                        "updateItemStatus",
                        "updateStatus"
                    ],
                    "example": "updateItemStatus"
                },
                "itemId": {
                    "type": "string",
                    "maxLength": 64
                },
                "status": {
                    "type": "string",
                    "maxLength": 32,
                    "example": "collected"
                }
            },
            "required": [
                "action",
                "status"
            ]
        },
        "SetupResponse": {
            "type": "object",
            "properties": {
                "serverVersion": {
                    "type": "string",
                    "example": "PostgreSQL 16.4"
                },
                "fromVersion": {
                    "type": "integer",
                    "example": 0
                },
                "toVersion": {
                    "type": "integer",
                    "example": 2
                }
            }
        },
        "SetupErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string",
                    "example": "database unavailable"
                },
                "reason": {
                    "type": "string",
                    "example": "connection_refused"
                }
            }
        },
        "SelectIdentityRequest": {
            "type": "object",
            "properties": {
                "role": {
                    "type": "string",
                    "enum": [
                        "customer",
                        "employee"
                    ],
                    "example": "customer"
                },
                "userId": {
                    "type": "string",
                    "maxLength": 64,
                    "example": "1"
                }
            }
        },
        "UserResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string",
                    "example": "1"
                },
                "name": {
                    "type": "string",
                    "example": "John Customer"
                },
                "role": {
                    "type": "string",
                    "example": "customer"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Click & Collect API",
	Description:      "Shopping lists assembled in store by employees and collected by customers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
