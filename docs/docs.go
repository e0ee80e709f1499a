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
        "/api/tasks": {
            "get": {"tags": ["Tasks"], "summary": "Filtered, paginated tasks", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "priority", "in": "query"},
                    {"type": "string", "name": "due_date", "in": "query"},
                    {"type": "string", "name": "tag", "in": "query"},
                    {"type": "string", "name": "query", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"},
                    {"type": "string", "name": "sort_by", "in": "query"},
                    {"type": "string", "name": "sort_direction", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Tasks"], "summary": "Create a task", "consumes": ["application/json"],
                "parameters": [{"name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/taskRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Task"}}, "400": {"description": "Bad Request"}}}
        },
        "/api/tasks/all": {"get": {"tags": ["Tasks"], "summary": "All non-archived tasks", "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/search": {"get": {"tags": ["Tasks"], "summary": "Free-text search",
            "parameters": [{"type": "string", "name": "query", "in": "query", "required": true}],
            "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/{id}": {
            "get": {"tags": ["Tasks"], "summary": "Get a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Task"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["Tasks"], "summary": "Replace a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true},
                {"name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/taskRequest"}}],
                "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Tasks"], "summary": "Archive a task", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/tasks/{id}/restore": {"post": {"tags": ["Tasks"], "summary": "Restore an archived task",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/{id}/permanent": {"delete": {"tags": ["Tasks"], "summary": "Delete a task and everything it owns",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/api/tasks/{id}/subtasks": {
            "get": {"tags": ["Subtasks"], "summary": "Paginated subtasks", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Subtasks"], "summary": "Add a subtask", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true},
                {"name": "subtask", "in": "body", "required": true, "schema": {"$ref": "#/definitions/subtaskRequest"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/tasks/{id}/subtasks/all": {"get": {"tags": ["Subtasks"], "summary": "All subtasks",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/{id}/subtasks/{subtaskId}": {
            "get": {"tags": ["Subtasks"], "summary": "One subtask", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Subtasks"], "summary": "Replace a subtask", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["Subtasks"], "summary": "Change some fields of a subtask", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Subtasks"], "summary": "Remove a subtask", "responses": {"204": {"description": "No Content"}}},
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "subtaskId", "in": "path", "required": true}]
        },
        "/api/tasks/{id}/comments": {
            "get": {"tags": ["Comments"], "summary": "Comments, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Comments"], "summary": "Add a comment", "responses": {"201": {"description": "Created"}}},
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}]
        },
        "/api/tasks/comments/{commentId}": {"delete": {"tags": ["Comments"], "summary": "Delete a comment",
            "parameters": [{"type": "integer", "name": "commentId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/api/tasks/{id}/attachments": {
            "get": {"tags": ["Attachments"], "summary": "Attachments of a task", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Attachments"], "summary": "Upload an attachment", "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}], "responses": {"201": {"description": "Created"}}},
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}]
        },
        "/api/tasks/attachments/{attachmentId}/download": {"get": {"tags": ["Attachments"], "summary": "Download content",
            "parameters": [{"type": "integer", "name": "attachmentId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/attachments/{attachmentId}": {"delete": {"tags": ["Attachments"], "summary": "Delete an attachment",
            "parameters": [{"type": "integer", "name": "attachmentId", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/api/tasks/{id}/history": {"get": {"tags": ["History"], "summary": "Audit trail, newest first",
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/api/tasks/{id}/history/report": {"get": {"tags": ["History"], "summary": "Audit trail as PDF", "produces": ["application/pdf"],
            "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}}
    },
    "definitions": {
        "subtaskRequest": {"type": "object", "properties": {
            "id": {"type": "integer"}, "title": {"type": "string"}, "description": {"type": "string"}, "completed": {"type": "boolean"}}},
        "taskRequest": {"type": "object", "required": ["title", "status", "priority"], "properties": {
            "title": {"type": "string"}, "description": {"type": "string"},
            "status": {"type": "string", "enum": ["PENDING", "IN_PROGRESS", "COMPLETED", "DELAYED"]},
            "priority": {"type": "string", "enum": ["LOW", "MEDIUM", "HIGH"]},
            "due_date": {"type": "string", "example": "2024-01-01"},
            "tags": {"type": "array", "items": {"type": "string"}},
            "subtasks": {"type": "array", "items": {"$ref": "#/definitions/subtaskRequest"}}}},
        "models.Task": {"type": "object", "properties": {
            "id": {"type": "integer"}, "title": {"type": "string"}, "description": {"type": "string"},
            "status": {"type": "string"}, "priority": {"type": "string"}, "due_date": {"type": "string"},
            "archived": {"type": "boolean"}, "tags": {"type": "array", "items": {"type": "string"}},
            "subtasks": {"type": "array", "items": {"$ref": "#/definitions/subtaskRequest"}},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Task Manager API",
	Description:      "Tasks, subtasks, comments, attachments and their audit trail.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
