package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Placement Portal API",
        "description": "Campus placement management: profiles, drives, feedback and exports",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Role-scoped login and password management"},
        {"name": "Students", "description": "Student profile, uploads and drives"},
        {"name": "Staff", "description": "Staff profile and student roster"},
        {"name": "Drives", "description": "Placement drive lifecycle and shortlists"},
        {"name": "Feedbacks", "description": "Post-placement feedback lifecycle"},
        {"name": "Admin", "description": "Account management and dashboard"},
        {"name": "Exports", "description": "Resume archives and roster exports"}
    ],
    "paths": {
        "/auth/student/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Student login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/staff/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Staff login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/admin/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "summary": "Change admin password",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "Password changed"},
                    "403": {"description": "Not permitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/me": {
            "get": {
                "tags": ["Students"],
                "summary": "Own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update own profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/me/gpa": {
            "put": {
                "tags": ["Students"],
                "summary": "Record a semester GPA",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/me/resume": {
            "post": {
                "tags": ["Students"],
                "summary": "Upload resume PDF",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/me/photo": {
            "post": {
                "tags": ["Students"],
                "summary": "Upload profile photo",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/me/drives": {
            "get": {
                "tags": ["Students"],
                "summary": "Open drives the student is shortlisted for",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Drives", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/me/feedback": {
            "get": {
                "tags": ["Students"],
                "summary": "Own feedback record",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Feedback", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No feedback yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Staff"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "degree", "in": "query", "type": "string"},
                    {"name": "placement_status", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "Students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Student detail",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/staff/me": {
            "get": {
                "tags": ["Staff"],
                "summary": "Own staff profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Update own staff profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated profile", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/drives": {
            "post": {
                "tags": ["Drives"],
                "summary": "Create a placement drive",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Drive with shortlist", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "get": {
                "tags": ["Drives"],
                "summary": "List drives",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "status", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "Drives", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/drives/preview": {
            "post": {
                "tags": ["Drives"],
                "summary": "Preview which students a criteria set admits",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Eligible students with count", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/drives/{id}": {
            "get": {
                "tags": ["Drives"],
                "summary": "Drive with shortlist",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Drive", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Drives"],
                "summary": "Delete a drive",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/drives/{id}/status": {
            "patch": {
                "tags": ["Drives"],
                "summary": "Advance drive status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Drive", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/drives/{id}/shortlist/refresh": {
            "post": {
                "tags": ["Drives"],
                "summary": "Rebuild the shortlist from current eligibility",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Drive with shortlist", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/drives/{id}/shortlist/export": {
            "get": {
                "tags": ["Drives"],
                "summary": "Export shortlist as PDF or CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}
                ],
                "responses": {"200": {"description": "File stream"}}
            }
        },
        "/feedbacks": {
            "post": {
                "tags": ["Feedbacks"],
                "summary": "Submit placement feedback with proof document",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "responses": {
                    "201": {"description": "Feedback", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Feedbacks"],
                "summary": "List feedbacks",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "status", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "Feedbacks", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/feedbacks/pending": {
            "get": {
                "tags": ["Feedbacks"],
                "summary": "Placed students with overdue feedback",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Overdue students", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/feedbacks/{id}": {
            "put": {
                "tags": ["Feedbacks"],
                "summary": "Update own unverified feedback",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Feedback", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Feedbacks"],
                "summary": "Delete a feedback",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/feedbacks/{id}/verify": {
            "post": {
                "tags": ["Feedbacks"],
                "summary": "Mark a feedback as verified",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Feedback", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/feedbacks/{id}/document": {
            "get": {
                "tags": ["Feedbacks"],
                "summary": "Stream the feedback proof document",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "File stream"}}
            }
        },
        "/exports/resumes": {
            "get": {
                "tags": ["Exports"],
                "summary": "Stream a ZIP archive of resumes",
                "security": [{"BearerAuth": []}],
                "produces": ["application/zip"],
                "parameters": [
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "degree", "in": "query", "type": "string"},
                    {"name": "placement_status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "ZIP stream"},
                    "404": {"description": "No records or files", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/students": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export the student roster as PDF or CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "text/csv"],
                "parameters": [{"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv"]}],
                "responses": {"200": {"description": "File stream"}}
            }
        },
        "/admin/students": {
            "post": {
                "tags": ["Admin"],
                "summary": "Register a student account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Account created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate register number", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/students/bulk": {
            "post": {
                "tags": ["Admin"],
                "summary": "Bulk import students from CSV or XLSX",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "Import report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/staff/bulk": {
            "post": {
                "tags": ["Admin"],
                "summary": "Bulk import staff from CSV or XLSX",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "responses": {"200": {"description": "Import report", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/students/{id}/placement": {
            "put": {
                "tags": ["Admin"],
                "summary": "Record a student placement",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Student", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/staff": {
            "post": {
                "tags": ["Admin"],
                "summary": "Register a staff account",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Account created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "get": {
                "tags": ["Admin"],
                "summary": "List staff accounts",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Staff", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/admin/accounts/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a student or staff account",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Placement dashboard statistics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Stats", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"type": "object"}
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
