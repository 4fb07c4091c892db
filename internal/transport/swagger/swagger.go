// Package swagger mounts the interactive API documentation UI.
package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// specURL is where the router serves the raw OpenAPI document.
const specURL = "/openapi.yml"

// Handler returns the Swagger UI backed by the served OpenAPI spec.
func Handler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(specURL))
}
