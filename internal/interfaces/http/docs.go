package http

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/skillbridge-business/docs"
)

// MountDocs sirve Swagger UI en /docs.
// El middleware lee el documento desde disco, así que el registrado en swag se
// escribe primero en dir/swagger.json.
func MountDocs(app *fiber.App, dir, title string) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return fmt.Errorf("docs: leer documento: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("docs: crear %s: %w", dir, err)
	}
	path := filepath.Join(dir, "swagger.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("docs: escribir %s: %w", path, err)
	}

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: path,
		Path:     "docs",
		Title:    title,
	}))
	return nil
}
