package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>taskhub-api — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the auth and resource endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "taskhub-api", "version": "v0.1.0" },
  "paths": {
    "/users": {
      "post": {
        "summary": "Sign up",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "user created; x-access-token and x-refresh-token response headers set" }, "400": { "description": "invalid or duplicate credentials" } }
      }
    },
    "/users/login": {
      "post": {
        "summary": "Log in",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "authenticated; token headers set" }, "400": { "description": "credential mismatch" } }
      }
    },
    "/users/me/access-token": {
      "get": { "summary": "Re-mint an access token from a refresh session (x-refresh-token and _id headers)", "responses": { "200": { "description": "new access token" }, "401": { "description": "session not found or expired" } } }
    },
    "/users/me/logout": {
      "post": { "summary": "Remove the presented refresh session", "responses": { "200": { "description": "logged out" }, "401": { "description": "session not found or expired" } } }
    },
    "/lists": {
      "get": { "summary": "Lists owned by the authenticated user (x-access-token header)", "responses": { "200": { "description": "array of lists" }, "401": { "description": "authentication failure" } } },
      "post": { "summary": "Create a list", "responses": { "200": { "description": "created list" } } }
    },
    "/lists/{listId}/tasks": {
      "get": { "summary": "Tasks in an owned list", "responses": { "200": { "description": "array of tasks" }, "404": { "description": "list not owned" } } },
      "post": { "summary": "Create a task in an owned list", "responses": { "200": { "description": "created task" }, "404": { "description": "list not owned" } } }
    }
  }
}`
