package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// UI backed by api/openapi.yml
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"), // document served at root
	)
}
