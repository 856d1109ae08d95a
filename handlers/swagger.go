package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a Swagger UI page and the OpenAPI document of the blog API.
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>blog API</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "blog", "version": "v1.0.0" },
  "paths": {
    "/blog/": { "get": { "summary": "Published posts, paginated", "parameters": [{"name":"page","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "page of posts" } } } },
    "/blog/tag/{tag}/": { "get": { "summary": "Published posts with a tag", "parameters": [{"name":"tag","in":"path","required":true,"schema":{"type":"string"}},{"name":"page","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "page of posts" }, "404": { "description": "unknown tag" } } } },
    "/blog/{year}/{month}/{day}/{slug}/": { "get": { "summary": "Post detail with comments and similar posts", "responses": { "200": { "description": "post" }, "404": { "description": "not found" } } } },
    "/blog/{year}/{month}/{day}/{slug}/comments": {
      "post": { "summary": "Add a comment", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","body"],"properties":{"name":{"type":"string","maxLength":80},"email":{"type":"string","format":"email"},"body":{"type":"string"}}}}}}, "responses": { "201": { "description": "comment created" }, "400": { "description": "invalid comment" }, "404": { "description": "not found" } } }
    },
    "/blog/posts/{id}/share/": {
      "post": { "summary": "Recommend a post by email", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","to"],"properties":{"name":{"type":"string","maxLength":25},"email":{"type":"string","format":"email"},"to":{"type":"string","format":"email"},"comments":{"type":"string"}}}}}}, "responses": { "200": { "description": "sent" }, "400": { "description": "invalid form" }, "404": { "description": "not found" } } }
    },
    "/blog/posts/{id}/similar": { "get": { "summary": "Posts sharing tags", "parameters": [{"name":"limit","in":"query","schema":{"type":"integer","default":4}}], "responses": { "200": { "description": "similar posts" }, "404": { "description": "not found" } } } },
    "/blog/search/": { "get": { "summary": "Ranked full-text search", "parameters": [{"name":"query","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "results with scores" } } } },
    "/blog/feed/": { "get": { "summary": "RSS feed of the latest posts", "responses": { "200": { "description": "rss" } } } },
    "/sitemap.xml": { "get": { "summary": "Sitemap of published posts", "responses": { "200": { "description": "sitemap" } } } },
    "/api/posts": { "post": { "summary": "Create a post", "responses": { "201": { "description": "created" }, "400": { "description": "invalid post" } } } },
    "/api/posts/{id}": {
      "patch": { "summary": "Update a post", "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a post", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/posts/stats": { "get": { "summary": "Total, latest and most commented posts", "responses": { "200": { "description": "stats" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
