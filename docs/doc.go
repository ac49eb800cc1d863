// Package docs provides generated OpenAPI documentation.
//
// docread API
//
//	@title			docread API
//	@version		1.0
//	@description	OCR classification and field extraction for Venezuelan cedulas, driver licences and vehicle circulation certificates.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/docread/docread
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/docread/serve.go -o ./swagger --parseDependency --parseInternal
