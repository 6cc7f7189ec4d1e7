// Package docs registra la especificación OpenAPI de la API en swag.
// Regenerar swagger.json con: swag init -g cmd/api/main.go -o docs --outputTypes json
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Almacén API",
	Description:      "Aprobación de comprobantes de entrada y salida con control de stock.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
