package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed assets/openapi.json
var openAPIDocument []byte

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
<title>Employee Search API - Swagger UI</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});</script>
</body>
</html>
`

const redocPage = `<!DOCTYPE html>
<html>
<head>
<title>Employee Search API - ReDoc</title>
</head>
<body>
<redoc spec-url="/openapi.json"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"></script>
</body>
</html>
`

// OpenAPIHandler serves the static OpenAPI document.
func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

// SwaggerHandler serves the interactive docs page.
func SwaggerHandler(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, swaggerPage)
}

// RedocHandler serves the reference docs page.
func RedocHandler(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, redocPage)
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
