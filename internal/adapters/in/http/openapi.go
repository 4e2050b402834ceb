package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openAPISpec []byte

var registerSwagOnce sync.Once

// LoadOpenAPI parses and validates the embedded API description.
func LoadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// swaggerDoc exposes the description through the swag registry read by
// echo-swagger.
type swaggerDoc struct {
	doc []byte
}

func (d swaggerDoc) ReadDoc() string {
	return string(d.doc)
}

// RegisterDocs serves the description at /openapi.json and Swagger UI
// under /docs/ (index.html, doc.json).
func RegisterDocs(router EchoRouter, doc *openapi3.T) {
	raw, err := json.Marshal(doc)
	if err == nil {
		// swag keeps a process wide registry and panics on a second Register.
		registerSwagOnce.Do(func() {
			swag.Register(swag.Name, swaggerDoc{doc: raw})
		})
	}

	router.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	router.GET("/docs/*", echoSwagger.WrapHandler)
}
