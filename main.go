package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/contestify/contest-api/cmd/app"
)

// @title          Contestify API
// @version        1.0
// @description    Contest hosting backend: lifecycle, paid registration, submissions and winners.
// @BasePath       /api/v1
//
// @termsOfService  http://swagger.io/terms/
// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
