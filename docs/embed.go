package docs

import _ "embed"

//go:embed swagger/swagger.json
var swaggerJSON []byte

// SwaggerJSON returns the OpenAPI spec compiled into the binary.
func SwaggerJSON() []byte {
	return swaggerJSON
}
