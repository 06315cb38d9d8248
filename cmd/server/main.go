package main

import (
	"log"
	"strings"

	"gesthor-backend/internal/allocation"
	"gesthor-backend/internal/bc"
	"gesthor-backend/internal/config"
	"gesthor-backend/internal/database"
	"gesthor-backend/internal/inventory"
	"gesthor-backend/internal/orders"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erreur inattendue :", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erreur serveur inattendue",
			})
		},
	})

	// CORS : origines en liste séparée par des virgules
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, X-BC-Username, X-BC-Password",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Stock : import Excel, consultation, indicateurs, export
	api.Post("/inventory/upload", inventory.UploadSnapshotHandler())
	api.Get("/inventory/snapshots", inventory.ListSnapshotsHandler())
	api.Get("/inventory/articles", inventory.ListArticlesHandler())
	api.Get("/inventory/kpis", inventory.KPIHandler())
	api.Get("/inventory/export", inventory.ExportHandler())

	// Commandes : import PDF ou texte extrait, consultation
	api.Post("/orders/upload", orders.UploadOrderPDFHandler())
	api.Post("/orders/upload-text", orders.UploadOrderTextHandler())
	api.Get("/orders/documents", orders.ListDocumentsHandler())
	api.Get("/orders/documents/:id/lines", orders.ListDocumentLinesHandler())

	// Simulations de préparation : lancement, historique, export
	api.Post("/allocations/run", allocation.RunAllocationHandler())
	api.Get("/allocations/runs", allocation.ListRunsHandler())
	api.Get("/allocations/runs/:id", allocation.GetRunHandler())
	api.Get("/allocations/runs/:id/export", allocation.ExportRunHandler())

	// Vérification de stock en direct dans Business Central
	api.Get("/bc/stock/:code", bc.ItemStockHandler(cfg))

	log.Println("Serveur démarré port :", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
