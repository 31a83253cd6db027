// Package docs registers the OpenAPI document served under /swagger.
// Keep it in step with the handler annotations; `swag init -g cmd/server/main.go`
// rebuilds it from them.
package docs

import "github.com/swaggo/swag/v2"

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
        "/invoices/calculate": {
            "post": {
                "operationId": "calculateInvoice",
                "summary": "Compute live invoice totals",
                "tags": ["invoices"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "description": "Line items",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.CalculateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/invoices": {
            "post": {
                "operationId": "submitInvoice",
                "summary": "Submit an invoice",
                "tags": ["invoices"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "description": "Invoice draft",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.SubmitInvoiceRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            },
            "get": {
                "operationId": "listInvoices",
                "summary": "List invoices",
                "tags": ["invoices"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice number, customer name, or mobile",
                        "name": "search",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/invoices/{id}": {
            "get": {
                "operationId": "getInvoice",
                "summary": "Get an invoice",
                "tags": ["invoices"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            },
            "delete": {
                "operationId": "deleteInvoice",
                "summary": "Delete an invoice",
                "tags": ["invoices"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/invoices/{id}/document": {
            "get": {
                "operationId": "getInvoiceDocument",
                "summary": "Render an invoice as HTML",
                "tags": ["documents"],
                "produces": ["text/html"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "STATUTORY or CARD",
                        "name": "layout",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/invoices/{id}/download-pdf": {
            "get": {
                "operationId": "downloadInvoicePDF",
                "summary": "Render an invoice to a vector PDF",
                "tags": ["documents"],
                "produces": ["application/pdf"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "STATUTORY or CARD",
                        "name": "layout",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/invoices/{id}/export": {
            "get": {
                "operationId": "exportInvoice",
                "summary": "Export an invoice to PDF",
                "tags": ["documents"],
                "produces": ["application/pdf"],
                "description": "Produces exactly one PDF file, from the document service or, when that fails, from the rendered page. The strategy is reported in X-Export-Strategy.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "STATUTORY or CARD",
                        "name": "layout",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Blocks a repeated trigger",
                        "name": "Idempotency-Key",
                        "in": "header"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "operationId": "getExportJob",
                "summary": "Get an export job",
                "tags": ["documents"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Export job ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "format": "uuid"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/customers": {
            "post": {
                "operationId": "createCustomer",
                "summary": "Register a customer",
                "tags": ["customers"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "description": "Customer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.CreateCustomerRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created; data is servicedesk.Customer",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/customers/{id}": {
            "put": {
                "operationId": "updateCustomer",
                "summary": "Update a customer",
                "tags": ["customers"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Customer",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.UpdateCustomerRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK; data is servicedesk.Customer",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            },
            "delete": {
                "operationId": "deleteCustomer",
                "summary": "Delete a customer",
                "tags": ["customers"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Customer ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/customers/lookup/{mobile}": {
            "get": {
                "operationId": "lookupCustomer",
                "summary": "Look up a customer by mobile number",
                "tags": ["lookup"],
                "produces": ["application/json"],
                "description": "Returns the customer, complaints, and invoices held for a mobile number. No sign in is needed.",
                "parameters": [
                    {
                        "type": "string",
                        "description": "10 digit mobile number",
                        "name": "mobile",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/customers/lookup/{mobile}/invoices/{id}/export": {
            "get": {
                "operationId": "exportLookupInvoice",
                "summary": "Export an invoice found by a lookup",
                "tags": ["lookup"],
                "produces": ["application/pdf"],
                "description": "Produces the PDF of an invoice the lookup of mobile returned. Any other invoice is not found.",
                "parameters": [
                    {
                        "type": "string",
                        "description": "10 digit mobile number",
                        "name": "mobile",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Invoice ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "STATUTORY or CARD",
                        "name": "layout",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    }
                }
            }
        },
        "/complaints": {
            "post": {
                "operationId": "raiseComplaint",
                "summary": "Raise a complaint",
                "tags": ["complaints"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "description": "Complaint",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.RaiseComplaintRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created; data is servicedesk.Complaint",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/complaints/{id}/invoice-draft": {
            "get": {
                "operationId": "complaintInvoiceDraft",
                "summary": "Prefill an invoice draft from a complaint",
                "tags": ["complaints"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Complaint ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/complaints/{id}/status": {
            "put": {
                "operationId": "updateComplaintStatus",
                "summary": "Move a complaint to a new status",
                "tags": ["complaints"],
                "produces": ["application/json"],
                "consumes": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Complaint ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Status",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/invoicing.UpdateComplaintStatusRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK; data is servicedesk.Complaint",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "operationId": "dashboardStats",
                "summary": "Get dashboard figures",
                "tags": ["dashboard"],
                "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {
                        "description": "Unauthorized",
                        "schema": {"$ref": "#/definitions/dto.Response"}
                    },
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"}
            }
        },
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationDetail"}}
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "invoicing.LineItem": {
            "type": "object",
            "properties": {
                "serviceName": {"type": "string"},
                "hsnCode": {"type": "string"},
                "quantity": {"type": "integer"},
                "unitPrice": {"type": "string"},
                "per": {"type": "string"},
                "discount": {"type": "string"},
                "gstPercent": {"type": "string"}
            }
        },
        "invoicing.CalculateRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/invoicing.LineItem"}}}
        },
        "invoicing.SubmitInvoiceRequest": {
            "type": "object",
            "required": ["customerId", "items"],
            "properties": {
                "customerId": {"type": "string"},
                "invoiceNumber": {"type": "string", "maxLength": 50},
                "invoiceDate": {"type": "string", "format": "date-time"},
                "paymentStatus": {"type": "string", "enum": ["Unpaid", "Paid", "Partial"]},
                "details": {"type": "object"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/invoicing.LineItem"}}
            }
        },
        "invoicing.CreateCustomerRequest": {
            "type": "object",
            "required": ["name", "mobile", "address"],
            "properties": {
                "name": {"type": "string", "minLength": 3, "maxLength": 100},
                "mobile": {"type": "string"},
                "address": {"type": "string", "minLength": 5, "maxLength": 500}
            }
        },
        "invoicing.UpdateCustomerRequest": {
            "type": "object",
            "required": ["name", "mobile", "address"],
            "properties": {
                "name": {"type": "string", "minLength": 3, "maxLength": 100},
                "mobile": {"type": "string"},
                "address": {"type": "string", "minLength": 5, "maxLength": 500}
            }
        },
        "invoicing.RaiseComplaintRequest": {
            "type": "object",
            "properties": {
                "customerId": {"type": "string", "maxLength": 64},
                "mobile": {"type": "string"},
                "services": {"type": "array", "maxItems": 10, "items": {"type": "string"}},
                "description": {"type": "string", "maxLength": 1000}
            }
        },
        "invoicing.UpdateComplaintStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["Pending", "Working", "Completed"]}}
        },
        "servicedesk.Customer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "mobile": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "servicedesk.Complaint": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "complaintId": {"type": "string"},
                "customerId": {"type": "string"},
                "mobile": {"type": "string"},
                "services": {"type": "array", "items": {"type": "string"}},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["Pending", "Working", "Completed"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token issued by the record store. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Vikalp Electricals Invoice API",
	Description:      "GST invoices, printable documents, and PDF export for the repair shop",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
